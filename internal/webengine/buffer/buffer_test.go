package buffer

import "testing"

func TestResetRetainsCapacity(t *testing.T) {
	b := New(8)
	b.WriteString("hello world")
	capBefore := b.Cap()

	b.Reset()

	if b.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", b.Len())
	}
	if b.Cap() < capBefore {
		t.Fatalf("Cap() after Reset = %d, want >= %d (capacity retained)", b.Cap(), capBefore)
	}
}

func TestNeedBytesNeverDropsData(t *testing.T) {
	b := New(1)
	b.WriteString("abc")
	b.NeedBytes(100)

	if string(b.Bytes()) != "abc" {
		t.Fatalf("Bytes() = %q, want %q", b.Bytes(), "abc")
	}
	if b.Cap() < 103 {
		t.Fatalf("Cap() = %d, want >= 103", b.Cap())
	}
}

func TestWriteHTMLEscaped(t *testing.T) {
	b := New(16)
	b.WriteHTMLEscaped(`<script>"x"</script>&co'`)

	want := `&lt;script&gt;&quot;x&quot;&lt;/script&gt;&amp;co&#39;`
	if got := string(b.Bytes()); got != want {
		t.Fatalf("WriteHTMLEscaped = %q, want %q", got, want)
	}
}

func TestReplaceControlWithSpace(t *testing.T) {
	b := New(16)
	b.ReplaceControlWithSpace("GET /a\r\nb\tc HTTP/1.1")

	want := "GET /a  b c HTTP/1.1"
	if got := string(b.Bytes()); got != want {
		t.Fatalf("ReplaceControlWithSpace = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	b := New(16)
	b.WriteString("0123456789")
	b.Truncate(4)

	if got := string(b.Bytes()); got != "0123" {
		t.Fatalf("Bytes() after Truncate = %q, want %q", got, "0123")
	}

	// Truncate beyond current length is a no-op.
	b.Truncate(100)
	if got := string(b.Bytes()); got != "0123" {
		t.Fatalf("Bytes() after no-op Truncate = %q, want %q", got, "0123")
	}
}

func TestSprintfAndStrcat(t *testing.T) {
	b := New(16)
	b.Strcat("a", "b")
	b.Sprintf("-%d", 7)

	if got := string(b.Bytes()); got != "ab-7" {
		t.Fatalf("Bytes() = %q, want %q", got, "ab-7")
	}
}
