// Package httperr maps HTTP exchange failures onto domain.ModelCallError.
// It is shared by the LLM adapters.
package httperr

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/custodia-labs/radar/internal/core/domain"
)

// maxBodyInError caps how much of a response body is echoed in an error.
const maxBodyInError = 256

// Classify wraps a transport-level failure, separating timeouts from other
// network errors.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &domain.ModelCallError{Kind: domain.ModelCallTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.ModelCallError{Kind: domain.ModelCallTimeout, Err: err}
	}
	return &domain.ModelCallError{Kind: domain.ModelCallTransport, Err: err}
}

// Status reports a non-success HTTP status with a truncated body.
func Status(code int, body []byte) error {
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError]
	}
	return &domain.ModelCallError{
		Kind: domain.ModelCallStatus,
		Err:  fmt.Errorf("status %d: %s", code, string(body)),
	}
}
