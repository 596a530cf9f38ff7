package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	// Packages
	tooluse "github.com/mutablelogic/go-tooluse"
	goopenai "github.com/sashabaranov/go-openai"
)

// classify wraps an error from the API client. Errors which may succeed on
// a later attempt wrap ErrTransport.
func classify(err error) error {
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	var syntaxErr *json.SyntaxError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return tooluse.ErrTransport.Wrap(err)
	case errors.As(err, &apiErr):
		return classifyStatus(apiErr.HTTPStatusCode, err)
	case errors.As(err, &reqErr):
		return classifyStatus(reqErr.HTTPStatusCode, err)
	case errors.As(err, &syntaxErr):
		return tooluse.ErrMalformedResponse.Wrap(err)
	default:
		return tooluse.ErrTransport.Wrap(err)
	}
}

func classifyStatus(status int, err error) error {
	switch {
	case status == 0, status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return tooluse.ErrTransport.Wrap(err)
	case status == http.StatusNotFound:
		return tooluse.ErrNotFound.Wrap(err)
	default:
		return tooluse.ErrBadParameter.Wrap(err)
	}
}
