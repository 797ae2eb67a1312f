package urlpath

import "testing"

func TestDecodeBasic(t *testing.T) {
	d, err := Decode("/api/v1/info?x=1&y=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Path != "/api/v1/info" {
		t.Fatalf("unexpected path %q", d.Path)
	}
	if d.Query != "x=1&y=2" {
		t.Fatalf("unexpected query %q", d.Query)
	}
	if len(d.Segments) != 3 || d.Segments[0] != "api" {
		t.Fatalf("unexpected segments %v", d.Segments)
	}
}

func TestDecodePercentEscapes(t *testing.T) {
	d, err := Decode("/a%20b/c%2Fd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Path != "/a b/c/d" {
		t.Fatalf("unexpected decoded path %q", d.Path)
	}
}

func TestDecodeMalformedEscape(t *testing.T) {
	if _, err := Decode("/a%2"); err != ErrMalformedEscape {
		t.Fatalf("expected ErrMalformedEscape, got %v", err)
	}
	if _, err := Decode("/a%zz"); err != ErrMalformedEscape {
		t.Fatalf("expected ErrMalformedEscape, got %v", err)
	}
}

func TestDecodeRejectsTraversal(t *testing.T) {
	if _, err := Decode("/static/../../etc/passwd"); err != ErrPathTraversal {
		t.Fatalf("expected ErrPathTraversal, got %v", err)
	}
}

func TestDecodeRejectsNulByte(t *testing.T) {
	if _, err := Decode("/a%00b"); err != ErrNulByte {
		t.Fatalf("expected ErrNulByte, got %v", err)
	}
}

func TestVersionClassification(t *testing.T) {
	cases := []struct {
		path       string
		hasVersion bool
		v0, v1, v2 bool
	}{
		{"/v0/", true, true, false, false},
		{"/v1/chart", true, false, true, false},
		{"/v2/data", true, false, false, true},
		{"/api/v1/info", false, false, false, false},
	}
	for _, c := range cases {
		d, err := Decode(c.path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", c.path, err)
		}
		if d.Flags.HasVersion != c.hasVersion || d.Flags.IsV0 != c.v0 || d.Flags.IsV1 != c.v1 || d.Flags.IsV2 != c.v2 {
			t.Fatalf("%q: got flags %+v", c.path, d.Flags)
		}
	}
}

func TestDecodeRejectsMultipleVersions(t *testing.T) {
	if _, err := Decode("/v1/v2/x"); err != ErrMultipleVersions {
		t.Fatalf("expected ErrMultipleVersions, got %v", err)
	}
	if _, err := Decode("/v1/assets/v0"); err != ErrMultipleVersions {
		t.Fatalf("expected ErrMultipleVersions, got %v", err)
	}
	// A version-looking segment that isn't the path's leading segment is
	// just a normal path component, not a second dashboard version.
	if _, err := Decode("/api/v1/info"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTrailingSlashAndExtension(t *testing.T) {
	d, _ := Decode("/dashboard/")
	if !d.Flags.TrailingSlash {
		t.Fatal("expected trailing slash flag")
	}
	d2, _ := Decode("/style.css")
	if !d2.Flags.HasExtension {
		t.Fatal("expected extension flag")
	}
	d3, _ := Decode("/.hidden")
	if d3.Flags.HasExtension {
		t.Fatal("did not expect extension flag for leading-dot segment")
	}
}
