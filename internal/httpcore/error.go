package httpcore

// coreError is how the driver carries a parse/body/handler failure up to
// the point it decides what to write back, mirroring gorox's
// headResult/failReason pair (agent_fcgi.go, client_http.go) collapsed into
// one value instead of two fields on a long-lived receiver.
type coreError struct {
	status int
	body   string
	level  Level
	reason string // log detail; not sent on the wire
}

func (e *coreError) Error() string { return e.reason }

var (
	errUnsupportedTransferEncoding = &coreError{status: 400, body: "bad request", level: LevelERROR, reason: "unsupported transfer-encoding"}
	errInvalidContentLength        = &coreError{status: 400, body: "bad request", level: LevelERROR, reason: "invalid content-length"}
	errBodyReadFailed              = &coreError{status: 400, body: "bad request", level: LevelERROR, reason: "short read against declared body length"}
	errHandlerPanicked             = &coreError{status: 500, body: "internal server error", level: LevelERROR, reason: "handler panicked"}
)
