// Package conn implements component I: the per-connection client slot
// state machine driving one logical HTTP/1.1 connection end to end —
// incremental receive, routing, response assembly, compressed or plain
// body streaming, and keep-alive reuse or teardown.
package conn

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/yourusername/agentweb/internal/webengine/buffer"
	"github.com/yourusername/agentweb/internal/webengine/compress"
	"github.com/yourusername/agentweb/internal/webengine/config"
	"github.com/yourusername/agentweb/internal/webengine/httpparse"
	"github.com/yourusername/agentweb/internal/webengine/response"
	"github.com/yourusername/agentweb/internal/webengine/router"
	"github.com/yourusername/agentweb/internal/webengine/staticfile"
	"github.com/yourusername/agentweb/internal/webengine/transport"
	"github.com/yourusername/agentweb/internal/webengine/urlpath"
)

// maxHostSwitchHops bounds the host-switch recursion (spec.md §4.E):
// a chain of more than this many rewrites is treated as a routing loop.
const maxHostSwitchHops = 4

// readChunkSize is how much is read from the transport per Read call
// while accumulating a request's header block.
const readChunkSize = 4096

// Slot is one connection's state, matching spec.md §3's Client Slot
// field-for-field, with its ~15 booleans grouped into the three bitsets
// Design Notes §9 calls for.
type Slot struct {
	Conn   transport.Conn
	Config config.Config
	Router *router.Router
	Logger AccessLogger

	RemoteAddr string

	State State

	Parser  httpparse.Parser
	RecvBuf *buffer.Buffer
	RespBuf *buffer.Buffer

	Path  PathFlags
	Xfer  TransferFlags
	Policy PolicyFlags

	RequestCount int

	recognized httpparse.RecognizedHeaders
	method     httpparse.Method
	rawTarget  string
}

// NewSlot constructs a fresh slot over an accepted connection.
func NewSlot(c transport.Conn, cfg config.Config, rt *router.Router, logger AccessLogger) *Slot {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Slot{
		Conn:       c,
		Config:     cfg,
		Router:     rt,
		Logger:     logger,
		RemoteAddr: c.RemoteAddr().String(),
		State:      StateReceivingHeaders,
		RecvBuf:    buffer.New(4096),
		RespBuf:    buffer.New(4096),
	}
}

// Serve drives the connection until it is torn down, per spec.md §4.I's
// state machine. It returns nil on a clean close and an error on an
// unexpected I/O failure.
func (s *Slot) Serve(ctx context.Context) error {
	defer s.Conn.Close()

	for {
		if err := s.serveOneRequest(ctx); err != nil {
			return err
		}
		if s.State == StateDead {
			return nil
		}
		// StateReuse: reset for the next request on this connection.
		s.resetForReuse()
	}
}

func (s *Slot) serveOneRequest(ctx context.Context) error {
	start := time.Now()

	timeout := s.Config.RequestTimeout
	if s.RequestCount > 0 {
		timeout = s.Config.IdleTimeout
	}
	if err := s.Conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}

	req, result, err := s.receiveAndParse()
	if err != nil {
		if wb, ok := transport.AsWouldBlock(err); ok {
			s.Xfer.WaitRead = wb.WantRead
			s.Xfer.WaitSend = wb.WantWrite
			// Thread-per-connection realization: a deadline exceeded
			// while still awaiting the header block is a request
			// timeout, not a transient want-read suspend.
			s.State = StateDead
			s.writeErrorPage(response.StatusRequestTimeout)
			return s.finishRequest(start, "", int(response.StatusRequestTimeout), false)
		}
		s.State = StateDead
		return err
	}

	switch result {
	case httpparse.TooManyReadRetries:
		s.State = StateDead
		s.writeErrorPage(response.StatusRequestTimeout)
		return s.finishRequest(start, "", int(response.StatusRequestTimeout), false)
	case httpparse.NotSupported:
		s.State = StateError
		s.writeErrorPage(response.StatusNotImplemented)
		return s.finishRequest(start, "", int(response.StatusNotImplemented), false)
	case httpparse.MalformedURL:
		s.State = StateError
		s.writeErrorPage(response.StatusBadRequest)
		return s.finishRequest(start, "", int(response.StatusBadRequest), false)
	case httpparse.ExcessRequestData:
		s.State = StateError
		s.writeErrorPage(response.StatusBadRequest)
		return s.finishRequest(start, "", int(response.StatusBadRequest), false)
	case httpparse.Redirect:
		s.State = StateRedirect
		target := "https://" + req.Recognized.Host + req.RawTarget
		s.writeRedirect(response.StatusTemporaryRedirect, target)
		return s.finishRequest(start, req.RawTarget, int(response.StatusTemporaryRedirect), false)
	}

	s.method = req.Method
	s.rawTarget = req.RawTarget
	s.recognized = req.Recognized
	s.Xfer.KeepAlive = req.Recognized.KeepAlive && !req.Close
	if maxReqs := s.Config.MaxKeepAliveRequests; maxReqs > 0 && s.RequestCount+1 >= maxReqs {
		s.Xfer.KeepAlive = false
	}
	s.Policy.DoNotTrack = req.Recognized.DNT

	if s.method == httpparse.MethodSTREAM {
		status := s.handleStream(ctx)
		return s.finishRequest(start, req.RawTarget, status, false)
	}

	decoded, derr := urlpath.Decode(req.RawTarget)
	if derr != nil {
		s.State = StateError
		s.writeErrorPage(response.StatusBadRequest)
		return s.finishRequest(start, req.RawTarget, int(response.StatusBadRequest), false)
	}
	s.Path = PathFlags(decoded.Flags)

	if s.method == httpparse.MethodOPTIONS {
		status := s.writeOptions()
		return s.finishRequest(start, req.RawTarget, status, false)
	}

	status, gzipped := s.route(ctx, decoded)
	return s.finishRequest(start, req.RawTarget, status, gzipped)
}

// handleStream hands a STREAM request off to the ingest collaborator
// (spec.md §3/§4.E's internal ingest request mode), after the router's
// "stream" capability check. Unlike an ordinary request, STREAM never
// reuses the slot: the ingest worker takes over the connection's data
// flow, or the request failed and the connection is not worth keeping
// alive either way.
func (s *Slot) handleStream(ctx context.Context) int {
	s.State = StateRouting
	s.Xfer.KeepAlive = false

	err := s.Router.RouteStream(ctx, s.RemoteAddr, s.recognized.Origin)
	switch {
	case err == nil:
		s.writeBuffered(response.StatusOK, "")
		return int(response.StatusOK)
	case errors.Is(err, router.ErrCapabilityDenied):
		s.writeErrorPage(response.StatusForbidden)
		return int(response.StatusForbidden)
	default:
		s.writeErrorPage(response.StatusServiceUnavailable)
		return int(response.StatusServiceUnavailable)
	}
}

// writeOptions answers a CORS preflight request, per spec.md §4.G's
// OPTIONS-specific header set. OPTIONS never reaches the router: it is
// answered directly from the connection's own CORS/frame-options policy.
func (s *Slot) writeOptions() int {
	hdr := s.baseHeader(response.StatusNoContent)
	hdr.IsOptions = true
	hdr.ContentLength = 0
	s.RespBuf.Reset()
	response.WriteHeaders(s.RespBuf, hdr)
	s.Conn.Write(s.RespBuf.Bytes())
	return int(response.StatusNoContent)
}

// route resolves decoded through the router, following at most
// maxHostSwitchHops rewrites, and writes the response.
func (s *Slot) route(ctx context.Context, decoded urlpath.Decoded) (status int, gzipped bool) {
	s.State = StateRouting
	for hop := 0; hop <= maxHostSwitchHops; hop++ {
		res, err := s.Router.Route(ctx, decoded, s.recognized.Origin, s.RespBuf)
		if err != nil {
			s.State = StateError
			s.writeErrorPage(response.StatusInternalServerError)
			return int(response.StatusInternalServerError), false
		}
		switch res.Kind {
		case router.KindHostSwitch:
			decoded, err = urlpath.Decode(res.Rewritten)
			if err != nil {
				s.writeErrorPage(response.StatusBadRequest)
				return int(response.StatusBadRequest), false
			}
			continue
		case router.KindAPI:
			return s.writeBuffered(response.Status(res.APIStatus), res.APIContentType)
		case router.KindConfigDump:
			return s.writeBuffered(response.StatusOK, "text/plain; charset=utf-8")
		case router.KindForbidden:
			s.writeErrorPage(response.StatusForbidden)
			return int(response.StatusForbidden), false
		case router.KindNotFound:
			s.writeErrorPage(response.StatusNotFound)
			return int(response.StatusNotFound), false
		case router.KindStatic:
			switch res.Static.Outcome {
			case staticfile.RedirectSlash:
				loc := decoded.Segments[len(decoded.Segments)-1] + "/"
				if decoded.Query != "" {
					loc += "?" + decoded.Query
				}
				s.State = StateRedirect
				s.writeRedirect(response.StatusMovedPermanently, loc)
				return int(response.StatusMovedPermanently), false
			case staticfile.Busy:
				s.State = StateRedirect
				s.writeRedirect(response.StatusTemporaryRedirect, s.rawTarget)
				return int(response.StatusTemporaryRedirect), false
			}
			return s.writeStatic(res.Static)
		}
	}
	s.writeErrorPage(response.StatusInternalServerError)
	return int(response.StatusInternalServerError), false
}

// receiveAndParse accumulates bytes into RecvBuf and feeds the parser
// until it returns anything other than Incomplete.
func (s *Slot) receiveAndParse() (*httpparse.Request, httpparse.Result, error) {
	policy := httpparse.Policy{
		ForceTLS:       s.Config.ForceTLS,
		RedirectNonTLS: s.Config.RedirectNonTLS,
		IsEncrypted:    s.Conn.IsEncrypted(),
		RespectDNT:     s.Config.RespectDNT,
	}
	for {
		res, req, err := s.Parser.Feed(s.RecvBuf.Bytes(), policy)
		if err != nil {
			return nil, res, err
		}
		if res != httpparse.Incomplete {
			return req, res, nil
		}

		var tmp [readChunkSize]byte
		n, rerr := s.Conn.Read(tmp[:])
		if n > 0 {
			s.RecvBuf.Write(tmp[:n])
		}
		if rerr != nil {
			return nil, httpparse.Incomplete, rerr
		}
	}
}

// baseHeader builds the fields every response this slot sends shares:
// the request's CORS origin (defaulting to "*" in response.WriteHeaders
// when empty), the configured X-Frame-Options value, and the Tk header
// when DNT is respected (spec.md §4.G).
func (s *Slot) baseHeader(status response.Status) response.Header {
	hdr := response.Header{
		Status:       status,
		KeepAlive:    s.Xfer.KeepAlive,
		Date:         time.Now(),
		Origin:       s.recognized.Origin,
		FrameOptions: s.Config.XFrameOptions,
	}
	if s.Config.RespectDNT {
		hdr.SendTk = true
		if s.Policy.DoNotTrack {
			hdr.TkValue = "N"
		} else {
			hdr.TkValue = "T;cookies"
		}
	}
	return hdr
}

// gzipLevel resolves the configured level/strategy pair to the single
// level value compress.NewChunkedGzipWriter's underlying encoder takes.
func (s *Slot) gzipLevel() int {
	if s.Config.GzipStrategy == config.GzipStrategyHuffmanOnly {
		return compress.HuffmanOnlyLevel
	}
	return s.Config.GzipLevel
}

func (s *Slot) writeStatic(res staticfile.Result) (int, bool) {
	f, err := os.Open(res.AbsPath)
	if err != nil {
		s.writeErrorPage(response.StatusNotFound)
		return int(response.StatusNotFound), false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeErrorPage(response.StatusInternalServerError)
		return int(response.StatusInternalServerError), false
	}

	gzip := s.recognized.AcceptsGzip
	hdr := s.baseHeader(response.StatusOK)
	hdr.ContentType = res.ContentType
	hdr.ContentLength = info.Size()
	if gzip {
		hdr.ContentEncoding = "gzip"
		hdr.TransferEncoding = "chunked"
		hdr.ContentLength = -1
	}

	s.RespBuf.Reset()
	response.WriteHeaders(s.RespBuf, hdr)

	_ = s.Conn.Cork(true)
	defer s.Conn.Cork(false)

	if _, err := s.Conn.Write(s.RespBuf.Bytes()); err != nil {
		return int(response.StatusOK), gzip
	}

	if gzip {
		cw, err := compress.NewChunkedGzipWriter(s.Conn, s.gzipLevel())
		if err == nil {
			compress.CopyFile(cw, f, 32*1024)
			cw.Close()
		}
	} else {
		io.Copy(s.Conn, f)
	}
	return int(response.StatusOK), gzip
}

func (s *Slot) writeBuffered(status response.Status, contentType string) (int, bool) {
	body := append([]byte(nil), s.RespBuf.Bytes()...)
	hdr := s.baseHeader(status)
	hdr.ContentType = contentType
	hdr.ContentLength = int64(len(body))
	s.RespBuf.Reset()
	response.WriteHeaders(s.RespBuf, hdr)
	s.Conn.Write(s.RespBuf.Bytes())
	s.Conn.Write(body)
	return int(status), false
}

func (s *Slot) writeErrorPage(status response.Status) {
	body := []byte("<html><body><h1>" + status.Text() + "</h1></body></html>")
	s.Xfer.KeepAlive = false
	hdr := s.baseHeader(status)
	hdr.ContentType = "text/html; charset=utf-8"
	hdr.ContentLength = int64(len(body))
	s.RespBuf.Reset()
	response.WriteHeaders(s.RespBuf, hdr)
	s.Conn.Write(s.RespBuf.Bytes())
	s.Conn.Write(body)
}

func (s *Slot) writeRedirect(status response.Status, location string) {
	s.Xfer.KeepAlive = false
	hdr := s.baseHeader(status)
	hdr.ContentLength = 0
	hdr.Extra = []response.KV{{Name: "Location", Value: location}}
	s.RespBuf.Reset()
	response.WriteHeaders(s.RespBuf, hdr)
	s.Conn.Write(s.RespBuf.Bytes())
}

func (s *Slot) finishRequest(start time.Time, path string, status int, gzipped bool) error {
	s.RequestCount++
	cleanPath := buffer.New(len(path))
	cleanPath.ReplaceControlWithSpace(path)
	s.Logger.LogRequest(Record{
		RemoteAddr: s.RemoteAddr,
		Method:     s.method.String(),
		Path:       string(cleanPath.Bytes()),
		Status:     status,
		Duration:   time.Since(start),
		KeepAlive:  s.Xfer.KeepAlive,
		Gzipped:    gzipped,
	})

	maxReqs := s.Config.MaxKeepAliveRequests
	if !s.Xfer.KeepAlive || (maxReqs > 0 && s.RequestCount >= maxReqs) {
		s.State = StateDead
		return nil
	}
	s.State = StateReuse
	return nil
}

// resetForReuse clears per-request state while keeping buffer capacity,
// per spec.md §3's "reused from a free-list, buffers retained" design.
func (s *Slot) resetForReuse() {
	s.Parser.Reset()
	s.RecvBuf.Reset()
	s.RespBuf.Reset()
	s.recognized.Reset()
	s.Path = PathFlags{}
	s.Xfer.WaitRead = false
	s.Xfer.WaitSend = false
	s.Policy = PolicyFlags{}
	s.State = StateReceivingHeaders
}
