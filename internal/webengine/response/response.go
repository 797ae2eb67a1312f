// Package response implements component G: assembling the status line
// and header block of an HTTP/1.1 response in the fixed order spec.md
// §4.G requires, writing into a shared buffer.Buffer.
package response

import (
	"strconv"
	"time"

	"github.com/yourusername/agentweb/internal/webengine/buffer"
)

// Status is a subset of HTTP status codes this engine emits.
type Status int

const (
	StatusOK                  Status = 200
	StatusNoContent           Status = 204
	StatusMovedPermanently    Status = 301
	StatusFound               Status = 302
	StatusTemporaryRedirect   Status = 307
	StatusBadRequest          Status = 400
	StatusUnauthorized        Status = 401
	StatusForbidden           Status = 403
	StatusNotFound            Status = 404
	StatusRequestTimeout      Status = 408
	StatusRequestEntityTooLarge Status = 413
	StatusTooManyRequests     Status = 429
	StatusInternalServerError Status = 500
	StatusNotImplemented      Status = 501
	StatusServiceUnavailable  Status = 503
)

var statusText = map[Status]string{
	StatusOK:                    "OK",
	StatusNoContent:             "No Content",
	StatusMovedPermanently:      "Moved Permanently",
	StatusFound:                 "Found",
	StatusTemporaryRedirect:     "Temporary Redirect",
	StatusBadRequest:            "Bad Request",
	StatusUnauthorized:          "Unauthorized",
	StatusForbidden:             "Forbidden",
	StatusNotFound:              "Not Found",
	StatusRequestTimeout:        "Request Timeout",
	StatusRequestEntityTooLarge: "Payload Too Large",
	StatusTooManyRequests:       "Too Many Requests",
	StatusInternalServerError:   "Internal Server Error",
	StatusNotImplemented:        "Not Implemented",
	StatusServiceUnavailable:    "Service Unavailable",
}

func (s Status) Text() string {
	if t, ok := statusText[s]; ok {
		return t
	}
	return "Unknown"
}

// Header carries every field the assembler may emit. Zero values mean
// "omit this header" except where noted.
type Header struct {
	Status Status

	// KeepAlive controls the Connection header; when false a
	// "Connection: close" is emitted and the caller must also close the
	// connection after the response.
	KeepAlive bool

	// Origin is echoed in Access-Control-Allow-Origin; when empty the
	// value is "*". The CORS header pair is always emitted.
	Origin string

	ContentType string
	Date        time.Time

	// FrameOptions, when non-empty, is emitted as X-Frame-Options.
	FrameOptions string

	// SendTk gates the DNT response header; TkValue is "N" (not
	// tracking) or "T;cookies" (tracking), per spec.md §4.G.
	SendTk  bool
	TkValue string

	// IsOptions switches the CORS-preflight header set in place of the
	// ordinary Cache-Control/Expires pair.
	IsOptions bool

	NotCacheable bool
	Expires      time.Time

	// Extra are appended verbatim, in order, after the standard set —
	// used for the Location header on redirects and similar one-offs.
	Extra []KV

	ContentEncoding  string // "gzip" or ""
	TransferEncoding string // "chunked" or ""
	ContentLength    int64  // -1 means omit (chunked or unknown)
}

// KV is a single "Name: Value" pair for Header.Extra.
type KV struct {
	Name  string
	Value string
}

const serverHeaderValue = "agentweb"

// AllowMethods and AllowHeaders are the fixed CORS-preflight values this
// engine answers with; spec.md §4.G names the headers but leaves their
// contents to the embedder. AllowHeaders names Origin and X-Auth-Token,
// which httpparse.RecognizedHeaders interprets, plus Content-Type.
const (
	AllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	AllowHeaders = "Origin, X-Auth-Token, Content-Type"
	MaxAgeValue  = "86400"
)

// WriteHeaders assembles the status line and header block into buf, in
// the exact order spec.md §4.G specifies: status line, Connection,
// Server, CORS, Content-Type, Date, optional X-Frame-Options/Tk, the
// three OPTIONS-specific headers or Cache-Control/Expires, custom headers, then
// Content-Encoding/Transfer-Encoding/Content-Length and the blank line.
func WriteHeaders(buf *buffer.Buffer, h Header) {
	buf.Strcat("HTTP/1.1 ", strconv.Itoa(int(h.Status)), " ", h.Text(), "\r\n")

	if h.KeepAlive {
		buf.WriteString("Connection: keep-alive\r\n")
	} else {
		buf.WriteString("Connection: close\r\n")
	}

	buf.Strcat("Server: ", serverHeaderValue, "\r\n")

	origin := h.Origin
	if origin == "" {
		origin = "*"
	}
	buf.Strcat("Access-Control-Allow-Origin: ", origin, "\r\n")
	buf.WriteString("Access-Control-Allow-Credentials: true\r\n")

	if h.ContentType != "" {
		buf.Strcat("Content-Type: ", h.ContentType, "\r\n")
	}

	if !h.Date.IsZero() {
		buf.Strcat("Date: ", h.Date.UTC().Format(http11DateFormat), "\r\n")
	}

	if h.FrameOptions != "" {
		buf.Strcat("X-Frame-Options: ", h.FrameOptions, "\r\n")
	}
	if h.SendTk {
		buf.Strcat("Tk: ", h.TkValue, "\r\n")
	}

	if h.IsOptions {
		buf.Strcat("Access-Control-Allow-Methods: ", AllowMethods, "\r\n")
		buf.Strcat("Access-Control-Allow-Headers: ", AllowHeaders, "\r\n")
		buf.Strcat("Access-Control-Max-Age: ", MaxAgeValue, "\r\n")
	} else {
		if h.NotCacheable {
			buf.WriteString("Cache-Control: no-cache, no-store, must-revalidate\r\n")
			buf.WriteString("Pragma: no-cache\r\n")
		} else {
			buf.WriteString("Cache-Control: public\r\n")
		}
		if !h.Expires.IsZero() {
			buf.Strcat("Expires: ", h.Expires.UTC().Format(http11DateFormat), "\r\n")
		}
	}

	for _, kv := range h.Extra {
		buf.Strcat(kv.Name, ": ", kv.Value, "\r\n")
	}

	if h.ContentEncoding != "" {
		buf.Strcat("Content-Encoding: ", h.ContentEncoding, "\r\n")
	}
	if h.TransferEncoding != "" {
		buf.Strcat("Transfer-Encoding: ", h.TransferEncoding, "\r\n")
	} else if h.ContentLength >= 0 {
		buf.Strcat("Content-Length: ", strconv.FormatInt(h.ContentLength, 10), "\r\n")
	}

	buf.WriteString("\r\n")
}

// Text exposes h.Status.Text() for use in WriteHeaders; kept as a method
// on Header for call-site brevity.
func (h Header) Text() string { return h.Status.Text() }

const http11DateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
