package conn

// PathFlags mirrors urlpath.Flags, copied onto the slot so the state
// machine can consult the current request's shape without reaching back
// into the decoded path structure (Design Notes §9's three named
// bitsets replacing ~15 separate booleans).
type PathFlags struct {
	HasVersion    bool
	IsV0          bool
	IsV1          bool
	IsV2          bool
	TrailingSlash bool
	HasExtension  bool
}

// TransferFlags tracks the wire-level state of the current send/receive
// cycle: which direction(s) the transport is currently blocked on,
// whether the response is corked, chunked, and whether the connection
// will be kept alive once the current request completes.
type TransferFlags struct {
	WaitRead     bool
	WaitSend     bool
	WaitReadTLS  bool
	WaitWriteTLS bool
	KeepAlive    bool
	Chunked      bool
	Corked       bool
}

// PolicyFlags tracks the handful of per-request policy decisions parsed
// out of the request headers.
type PolicyFlags struct {
	DoNotTrack       bool
	TrackingRequired bool
	SSLForce         bool
}
