package conn

// State is the client slot's lifecycle stage (spec.md §3's Client Slot
// lifecycle, §4.I's state machine).
type State int

const (
	// StateReceivingHeaders is the initial/reused state: the slot is
	// accumulating bytes into its receive buffer and feeding them to
	// the parser.
	StateReceivingHeaders State = iota
	// StateRouting means a full request was parsed and the router is
	// being consulted.
	StateRouting
	// StateError means the request will be answered with an error
	// status (parse failure, not-found, forbidden, ...).
	StateError
	// StateRedirect means the request will be answered with a
	// redirect (HTTPS-required policy, or a directory needing a
	// trailing slash).
	StateRedirect
	// StateSendingHeader means the response status line and headers
	// are being written.
	StateSendingHeader
	// StateSendingBody means the response body (static file, API body,
	// or error page) is being streamed.
	StateSendingBody
	// StateReuse means the request/response cycle completed on a
	// keep-alive connection; the slot resets and returns to
	// StateReceivingHeaders for the next request.
	StateReuse
	// StateDead means the connection is being torn down: a fatal I/O
	// error, a timeout, or a non-keep-alive response completed.
	StateDead
)

func (s State) String() string {
	switch s {
	case StateReceivingHeaders:
		return "receiving-headers"
	case StateRouting:
		return "routing"
	case StateError:
		return "error"
	case StateRedirect:
		return "redirect"
	case StateSendingHeader:
		return "sending-header"
	case StateSendingBody:
		return "sending-body"
	case StateReuse:
		return "reuse"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}
