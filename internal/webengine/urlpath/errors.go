package urlpath

import "errors"

var (
	ErrMalformedEscape  = errors.New("urlpath: malformed percent-escape")
	ErrNulByte          = errors.New("urlpath: NUL byte in decoded path")
	ErrPathTraversal    = errors.New("urlpath: path traversal segment")
	ErrMultipleVersions = errors.New("urlpath: multiple dashboard versions in one request")
)
