package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAlreadyConnected rejects a second call while an agent session is
	// still open. One call at a time; the boundary must answer busy.
	ErrAlreadyConnected = errors.New("an agent session is already active")

	// ErrConnectTimeout means no open or error arrived within the connect
	// deadline. The attempt is aborted, the socket force-terminated.
	ErrConnectTimeout = errors.New("agent connect timeout")

	// ErrNoActiveCall means an operation referenced a call that does not
	// exist. Callers treat this as a no-op condition, not a failure.
	ErrNoActiveCall = errors.New("no active call")
)

// HandshakeError is returned when the remote refuses the websocket upgrade
// with a non-success HTTP response.
type HandshakeError struct {
	StatusCode int
	Status     string
	Header     http.Header
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("websocket handshake rejected: %s", e.Status)
}
