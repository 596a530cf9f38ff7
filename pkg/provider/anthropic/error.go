package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Anthropic returns 529 when the API is overloaded
const statusOverloaded = 529

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// classify wraps an error returned by the client so callers can decide
// whether to retry. Errors which may succeed on a later attempt wrap
// ErrTransport.
func classify(err error) error {
	var code tooluse.Err
	var httpErr httpresponse.Err
	var netErr net.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case err == nil:
		return nil
	case errors.As(err, &code):
		return err
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return tooluse.ErrTransport.Wrap(err)
	case errors.As(err, &httpErr):
		switch status := int(httpErr); {
		case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status == statusOverloaded, status >= 500:
			return tooluse.ErrTransport.Wrap(err)
		case status == http.StatusNotFound:
			return tooluse.ErrNotFound.Wrap(err)
		default:
			return tooluse.ErrBadParameter.Wrap(err)
		}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return tooluse.ErrMalformedResponse.Wrap(err)
	case errors.As(err, &netErr), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return tooluse.ErrTransport.Wrap(err)
	default:
		return tooluse.ErrTransport.Wrap(err)
	}
}

// streamError converts an error event received while streaming
func streamError(e *apiError) error {
	if e == nil {
		return tooluse.ErrTransport.With("stream error")
	}
	switch e.Type {
	case "overloaded_error", "api_error", "rate_limit_error", "timeout_error":
		return tooluse.ErrTransport.Withf("%s: %s", e.Type, e.Message)
	default:
		return tooluse.ErrBadParameter.Withf("%s: %s", e.Type, e.Message)
	}
}
