package httpparse

import (
	"bytes"

	"github.com/yourusername/agentweb/internal/webengine/urlpath"
)

// Policy carries the handful of external decisions the parser needs in
// order to apply spec.md §4.C steps 3 and 6 (TLS-forcing and DNT) without
// owning any configuration itself.
type Policy struct {
	// ForceTLS requires STREAM and, when RedirectNonTLS is set, all
	// other requests to arrive over an encrypted transport.
	ForceTLS bool
	// RedirectNonTLS, combined with ForceTLS, makes ordinary requests
	// over a plain transport return Redirect instead of being served.
	RedirectNonTLS bool
	// IsEncrypted reports whether the current transport is TLS.
	IsEncrypted bool
	// RespectDNT gates whether a DNT: 1 request header is honoured.
	RespectDNT bool
}

// Request is the result of a successful Feed call: the recognized pieces
// of a parsed HTTP/1.1 request. RawTarget and the recognized header values
// are copies, so a Request stays valid after the slot truncates or
// regrows the buffer passed to Feed; HeaderBlockLen is an offset into
// that buffer.
type Request struct {
	Method       Method
	RawTarget    string // request-target exactly as received, undecoded
	Recognized   RecognizedHeaders
	ContentLength int64 // -1 if absent
	Chunked      bool
	Close        bool // "Connection: close" seen
	// HeaderBlockLen is the number of bytes from the start of buf up to
	// and including the terminating CRLFCRLF.
	HeaderBlockLen int
}

// Parser is the per-slot, restartable incremental parser. One Parser is
// owned by each client slot and Reset between requests on a keep-alive
// connection (spec.md §3 "Parser state").
type Parser struct {
	attempts   int
	lastSize   int
	searchFrom int
}

// Reset clears the restart bookkeeping for reuse on a new request.
func (p *Parser) Reset() {
	p.attempts = 0
	p.lastSize = 0
	p.searchFrom = 0
}

// Feed is called with the slot's full accumulated receive buffer each
// time new bytes arrive. It is idempotent until it returns OK: repeated
// calls on a buffer that has not grown increment the retry counter;
// calls on a growing buffer re-scan only the portion that could contain
// a boundary straddling two reads (spec.md §4.C step 2's watermark
// trick).
func (p *Parser) Feed(buf []byte, policy Policy) (Result, *Request, error) {
	if len(buf) == p.lastSize {
		p.attempts++
		if p.attempts > MaxParseAttempts {
			return TooManyReadRetries, nil, nil
		}
	} else {
		p.attempts = 0
		p.lastSize = len(buf)
	}

	if len(buf) > MaxRequestLineSize+MaxHeadersSize {
		return MalformedURL, nil, ErrHeadersTooLarge
	}

	start := p.searchFrom
	if start > len(buf) {
		start = 0
	}
	if start < 0 {
		start = 0
	}

	idx := bytes.Index(buf[start:], headersEndMarker)
	if idx == -1 {
		if len(buf) >= 3 {
			p.searchFrom = len(buf) - 3
		} else {
			p.searchFrom = 0
		}
		return Incomplete, nil, nil
	}

	headerEnd := start + idx + len(headersEndMarker)

	method, methodLen := matchMethod(buf)
	if methodLen == 0 {
		if len(buf) < longestMethodPrefix {
			return Incomplete, nil, nil
		}
		return NotSupported, nil, nil
	}

	lineEnd := bytes.Index(buf[methodLen:], []byte("\r\n"))
	if lineEnd == -1 {
		return Incomplete, nil, nil
	}
	lineEnd += methodLen
	requestLine := buf[methodLen:lineEnd]

	sp := bytes.IndexByte(requestLine, ' ')
	if sp == -1 {
		return Incomplete, nil, nil
	}
	if len(requestLine) > MaxRequestLineSize {
		return MalformedURL, nil, ErrRequestLineTooLarge
	}
	target := string(requestLine[:sp])
	rest := requestLine[sp+1:]
	if !bytes.HasPrefix(rest, []byte("HTTP/")) {
		return MalformedURL, nil, nil
	}
	if _, err := urlpath.Decode(target); err != nil {
		return MalformedURL, nil, nil
	}

	if method == MethodSTREAM && policy.ForceTLS && !policy.IsEncrypted {
		return NotSupported, nil, nil
	}

	req := &Request{
		Method:         method,
		RawTarget:      target,
		ContentLength:  -1,
		HeaderBlockLen: headerEnd,
	}

	if err := parseHeaders(buf[lineEnd+2:headerEnd-len(headersEndMarker)+2], req, policy); err != nil {
		return MalformedURL, nil, err
	}

	if !req.bodyExpected() {
		trailing := bytes.TrimSpace(buf[headerEnd:])
		if len(trailing) > 0 {
			return ExcessRequestData, nil, nil
		}
	}

	if policy.ForceTLS && policy.RedirectNonTLS && !policy.IsEncrypted && method != MethodSTREAM {
		return Redirect, req, nil
	}

	return OK, req, nil
}

// bodyExpected reports whether the request declares a body (via
// Content-Length or chunked transfer), used by the excess-data check
// (spec.md §4.C step 7).
func (r *Request) bodyExpected() bool {
	return r.ContentLength > 0 || r.Chunked
}

// parseHeaders walks "Name: Value\r\n" lines between the end of the
// request line and the blank line terminating the header block.
func parseHeaders(block []byte, req *Request, policy Policy) error {
	pos := 0
	for pos < len(block) {
		lineEnd := bytes.Index(block[pos:], []byte("\r\n"))
		if lineEnd == -1 {
			break
		}
		lineEnd += pos
		line := block[pos:lineEnd]
		pos = lineEnd + 2

		if len(line) == 0 {
			continue
		}

		colon := bytes.IndexByte(line, ':')
		if colon == -1 {
			continue
		}
		name := line[:colon]
		value := trimTrailingSpace(trimLeadingSpace(line[colon+1:]))

		if bytes.EqualFold(name, []byte("Content-Length")) {
			n, ok := parseUint(value)
			if ok {
				req.ContentLength = n
			}
			continue
		}
		if bytes.EqualFold(name, []byte("Transfer-Encoding")) {
			if bytes.EqualFold(value, []byte("chunked")) {
				req.Chunked = true
			}
			continue
		}
		if bytes.EqualFold(name, []byte("Authorization")) {
			req.Recognized.applyAuthorization(value)
			continue
		}

		id := lookupRecognized(name)
		if id == hdrUnknown {
			continue
		}
		req.Recognized.apply(id, name, value)
	}

	req.Close = connectionClose(block)
	if !policy.RespectDNT {
		req.Recognized.DNT = false
	}
	return nil
}

func connectionClose(block []byte) bool {
	idx := bytes.Index(block, []byte("Connection:"))
	for idx != -1 {
		lineEnd := bytes.IndexByte(block[idx:], '\n')
		end := len(block)
		if lineEnd != -1 {
			end = idx + lineEnd
		}
		value := trimTrailingSpace(trimLeadingSpace(block[idx+len("Connection:") : end]))
		if bytes.EqualFold(value, []byte("close")) {
			return true
		}
		rest := block[end:]
		next := bytes.Index(rest, []byte("Connection:"))
		if next == -1 {
			break
		}
		idx = end + next
	}
	return false
}

func parseUint(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
		if n < 0 {
			return 0, false
		}
	}
	return n, true
}
