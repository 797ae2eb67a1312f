// Package urlpath implements component D: percent-decoding and path
// classification for a request-target already split off by httpparse.
// It never touches the socket or the header block; it operates purely on
// the raw target string httpparse.Request.RawTarget carries.
package urlpath

import "strings"

// Flags records the handful of path-shape facts the router and static
// file resolver need, grouped into the PathFlags bitset named by Design
// Notes §9.
type Flags struct {
	HasVersion    bool // first segment is v0/v1/v2
	IsV0          bool
	IsV1          bool
	IsV2          bool
	TrailingSlash bool
	HasExtension  bool
}

// Decoded is the result of decoding and classifying a request-target.
type Decoded struct {
	Path    string // percent-decoded path, always starting with "/"
	Query   string // raw query string, without the leading "?"
	Flags   Flags
	Segments []string // path split on "/", empty segments removed
}

// Decode percent-decodes raw (a request-target as received on the wire,
// e.g. "/api/v1/info?x=1") and classifies its shape. It returns an error
// if percent-decoding fails or the path contains a NUL byte or a bare
// ".." segment attempting to escape the root — matching spec.md §4.D's
// "reject malformed escapes and path traversal attempts here, before the
// static file resolver ever sees the string."
func Decode(raw string) (Decoded, error) {
	path := raw
	query := ""
	if idx := strings.IndexByte(raw, '?'); idx != -1 {
		path = raw[:idx]
		query = raw[idx+1:]
	}

	decodedPath, err := percentDecode(path)
	if err != nil {
		return Decoded{}, err
	}
	if strings.IndexByte(decodedPath, 0) != -1 {
		return Decoded{}, ErrNulByte
	}
	if !strings.HasPrefix(decodedPath, "/") {
		decodedPath = "/" + decodedPath
	}

	segments := splitSegments(decodedPath)
	if err := rejectTraversal(segments); err != nil {
		return Decoded{}, err
	}

	d := Decoded{
		Path:     decodedPath,
		Query:    query,
		Segments: segments,
	}
	d.Flags.TrailingSlash = strings.HasSuffix(decodedPath, "/")
	if len(segments) > 0 {
		last := segments[len(segments)-1]
		if dot := strings.LastIndexByte(last, '.'); dot > 0 && dot < len(last)-1 {
			d.Flags.HasExtension = true
		}
	}
	if err := classifyVersion(segments, &d.Flags); err != nil {
		return Decoded{}, err
	}
	return d, nil
}

// isVersionSegment reports whether s is exactly one of the dashboard's
// version prefixes.
func isVersionSegment(s string) bool {
	return s == "v0" || s == "v1" || s == "v2"
}

// classifyVersion sets HasVersion/IsV0/IsV1/IsV2 when the first path
// segment is exactly "v0", "v1" or "v2" (the dashboard version prefixes
// the router switches on, spec.md §4.E). A second version segment
// anywhere later in the path is rejected: spec.md §4.D and §7 both
// require "two version segments on the same request" to fail with a
// 400, not silently classify by whichever came first.
func classifyVersion(segments []string, f *Flags) error {
	if len(segments) == 0 {
		return nil
	}
	switch segments[0] {
	case "v0":
		f.HasVersion, f.IsV0 = true, true
	case "v1":
		f.HasVersion, f.IsV1 = true, true
	case "v2":
		f.HasVersion, f.IsV2 = true, true
	}
	if !f.HasVersion {
		return nil
	}
	for _, s := range segments[1:] {
		if isVersionSegment(s) {
			return ErrMultipleVersions
		}
	}
	return nil
}

func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func rejectTraversal(segments []string) error {
	for _, s := range segments {
		if s == ".." {
			return ErrPathTraversal
		}
	}
	return nil
}

func percentDecode(s string) (string, error) {
	hasPercent := strings.IndexByte(s, '%') != -1
	hasPlus := strings.IndexByte(s, '+') != -1
	if !hasPercent && !hasPlus {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%':
			if i+2 >= len(s) {
				return "", ErrMalformedEscape
			}
			hi, ok1 := hexVal(s[i+1])
			lo, ok2 := hexVal(s[i+2])
			if !ok1 || !ok2 {
				return "", ErrMalformedEscape
			}
			b.WriteByte(byte(hi<<4 | lo))
			i += 2
		case '+':
			b.WriteByte(' ')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

func hexVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}
