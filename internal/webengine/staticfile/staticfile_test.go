package staticfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yourusername/agentweb/internal/webengine/urlpath"
)

func mustDecode(t *testing.T, raw string) urlpath.Decoded {
	t.Helper()
	d, err := urlpath.Decode(raw)
	if err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return d
}

func TestResolveDirectFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "style.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Resolve(root, mustDecode(t, "/style.css"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Found {
		t.Fatalf("expected Found, got %v", res.Outcome)
	}
	if res.ContentType != "text/css; charset=utf-8" {
		t.Fatalf("unexpected content type %q", res.ContentType)
	}
}

func TestResolveDirectoryRedirect(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "dash"), 0o755); err != nil {
		t.Fatal(err)
	}
	res, err := Resolve(root, mustDecode(t, "/dash"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != RedirectSlash {
		t.Fatalf("expected RedirectSlash, got %v", res.Outcome)
	}
}

func TestResolveDirectoryIndex(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "dash")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Resolve(root, mustDecode(t, "/dash/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Found {
		t.Fatalf("expected Found, got %v", res.Outcome)
	}
	if filepath.Base(res.AbsPath) != "index.html" {
		t.Fatalf("expected index.html, got %q", res.AbsPath)
	}
}

func TestResolveVersionFallback(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "main.js"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Resolve(root, mustDecode(t, "/v2/main.js"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Found {
		t.Fatalf("expected Found via fallback, got %v", res.Outcome)
	}
	if filepath.Dir(res.AbsPath) != root {
		t.Fatalf("expected fallback straight to the unversioned root, got %q", res.AbsPath)
	}

	// The sibling v1 directory must never be consulted — there is no
	// cross-version cascade, only a single fallback to the unversioned path.
	v1 := filepath.Join(root, "v1")
	if err := os.MkdirAll(v1, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(v1, "main.js"), []byte("wrong"), 0o644); err != nil {
		t.Fatal(err)
	}
	res2, err := Resolve(root, mustDecode(t, "/v2/main.js"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(res2.AbsPath) != root {
		t.Fatalf("expected fallback to still resolve under root, not v1, got %q", res2.AbsPath)
	}
}

func TestResolveNoVersionNoExtensionFallsBackToRootIndex(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Resolve(root, mustDecode(t, "/some/spa/route"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Found {
		t.Fatalf("expected Found via root index fallback, got %v", res.Outcome)
	}
	if res.AbsPath != filepath.Join(root, "index.html") {
		t.Fatalf("expected root index.html, got %q", res.AbsPath)
	}
}

func TestResolveVersionPathEmptyServesVersionDirIndex(t *testing.T) {
	root := t.TempDir()
	v1 := filepath.Join(root, "v1")
	if err := os.MkdirAll(v1, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(v1, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Resolve(root, mustDecode(t, "/v1/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != Found {
		t.Fatalf("expected Found, got %v", res.Outcome)
	}
	if res.AbsPath != filepath.Join(v1, "index.html") {
		t.Fatalf("expected v1 index.html, got %q", res.AbsPath)
	}
}

func TestResolveNotFound(t *testing.T) {
	root := t.TempDir()
	res, err := Resolve(root, mustDecode(t, "/missing.js"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Outcome != NotFound {
		t.Fatalf("expected NotFound, got %v", res.Outcome)
	}
}

func TestResolveRejectsEscape(t *testing.T) {
	root := t.TempDir()
	if _, ok := safeJoin(root, "../outside"); ok {
		t.Fatal("expected safeJoin to reject escape")
	}
}
