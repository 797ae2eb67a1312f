// Package staticfile implements component F: resolving a decoded request
// path to a file on disk under the dashboard's web root, including the
// version-prefix fallback matrix and directory/index handling spec.md
// §4.F describes.
package staticfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/yourusername/agentweb/internal/webengine/urlpath"
)

// Outcome classifies what Resolve found.
type Outcome int

const (
	// Found means Path names a regular, readable file ready to serve.
	Found Outcome = iota
	// NotFound means no candidate in the fallback matrix existed.
	NotFound
	// RedirectSlash means the request named a directory without a
	// trailing slash; the caller should 301/308-redirect to Path+"/".
	RedirectSlash
	// Busy means the candidate file exists but could not be opened
	// because another process holds an exclusive lock on it (observed
	// as EBUSY/ETXTBSY); the caller should 307-redirect to the same
	// URL so the client retries shortly.
	Busy
	// Forbidden names a path that escapes the web root. Resolve does not
	// return it: a candidate that safeJoin rejects is skipped, so such a
	// request ends as NotFound (urlpath already rejects ".." segments).
	Forbidden
)

// Result is what Resolve returns.
type Result struct {
	Outcome     Outcome
	AbsPath     string // valid only when Outcome == Found
	ContentType string
}

// resolveCandidate is one relative path to try, in order, from the
// resolution matrix spec.md §4.F tables. forceIndex means: if this
// candidate names a directory, serve its index.html directly instead of
// 301-redirecting — the candidate is a synthetic fallback, not the
// literal URL the client asked for, so there is nothing meaningful to
// redirect to.
type resolveCandidate struct {
	rel        string
	forceIndex bool
}

// Resolve maps a decoded request path to a file under root, following
// spec.md §4.F's resolution matrix: has-extension and version-prefix
// combine into five rows, each with its own primary candidate and at
// most one fallback (never a cascade through every version directory).
func Resolve(root string, d urlpath.Decoded) (Result, error) {
	rel := strings.TrimPrefix(d.Path, "/")

	for _, cand := range buildCandidates(rel, d.Flags) {
		abs, ok := safeJoin(root, cand.rel)
		if !ok {
			continue
		}
		res, err := statCandidate(abs, d, cand.forceIndex)
		if err != nil {
			return Result{}, err
		}
		if res.Outcome != NotFound {
			return res, nil
		}
	}
	return Result{Outcome: NotFound}, nil
}

// buildCandidates implements the resolution matrix exactly:
//
//	has-extension | version            | primary          | fallback
//	yes           | none               | {root}/{path}    | —
//	yes           | vN                 | {root}/vN/{path} | {root}/{path}
//	no            | vN, path non-empty | {root}/{path}    | {root}/vN (forced index)
//	no            | vN, path empty     | {root}/vN        | —
//	no            | none               | {root}/{path}    | {root} (forced index)
func buildCandidates(rel string, f urlpath.Flags) []resolveCandidate {
	if f.HasExtension {
		if !f.HasVersion {
			return []resolveCandidate{{rel: rel}}
		}
		_, remainder := splitVersionSegment(rel)
		return []resolveCandidate{{rel: rel}, {rel: remainder}}
	}

	if f.HasVersion {
		versionSeg, remainder := splitVersionSegment(rel)
		if remainder == "" {
			return []resolveCandidate{{rel: versionSeg}}
		}
		return []resolveCandidate{
			{rel: remainder},
			{rel: versionSeg, forceIndex: true},
		}
	}

	if rel == "" {
		return []resolveCandidate{{rel: "", forceIndex: true}}
	}
	return []resolveCandidate{
		{rel: rel},
		{rel: "", forceIndex: true},
	}
}

// splitVersionSegment splits rel (known to start with a version segment)
// into that segment and whatever follows it.
func splitVersionSegment(rel string) (version, remainder string) {
	parts := strings.SplitN(rel, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// safeJoin joins rel onto root and verifies lexically that the cleaned
// result is still root or lies under it, catching a ".." that slipped
// past urlpath. Symbolic links are not resolved, so a link inside root
// that points elsewhere is not detected.
func safeJoin(root, rel string) (string, bool) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(root)
	if abs != cleanRoot && !strings.HasPrefix(abs, cleanRoot+string(filepath.Separator)) {
		return "", false
	}
	return abs, true
}

func statCandidate(abs string, d urlpath.Decoded, forceIndex bool) (Result, error) {
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Outcome: NotFound}, nil
		}
		if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY) {
			return Result{Outcome: Busy}, nil
		}
		return Result{}, err
	}

	if info.IsDir() {
		if !d.Flags.TrailingSlash && !forceIndex {
			return Result{Outcome: RedirectSlash}, nil
		}
		indexAbs := filepath.Join(abs, "index.html")
		idxInfo, err := os.Stat(indexAbs)
		if err != nil {
			if os.IsNotExist(err) {
				return Result{Outcome: NotFound}, nil
			}
			if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY) {
				return Result{Outcome: Busy}, nil
			}
			return Result{}, err
		}
		if idxInfo.IsDir() {
			return Result{Outcome: NotFound}, nil
		}
		return Result{Outcome: Found, AbsPath: indexAbs, ContentType: MimeType(".html")}, nil
	}

	return Result{Outcome: Found, AbsPath: abs, ContentType: MimeType(filepath.Ext(abs))}, nil
}
