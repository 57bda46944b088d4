package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-kit/kit/endpoint"

	"github.com/skysync/skysync-tui/internal/pkg/exception"
)

// DecodeFunc extracts the endpoint request object from an HTTP request.
type DecodeFunc func(ctx context.Context, r *http.Request) (interface{}, error)

// EncodeFunc writes the endpoint response to the HTTP response.
type EncodeFunc func(ctx context.Context, w http.ResponseWriter, response interface{}) error

type binder[T any] interface {
	*T
	render.Binder
}

// DecodeRequest binds and validates a JSON request body into T via its
// Bind method.
func DecodeRequest[T any, PT binder[T]](_ context.Context, r *http.Request) (interface{}, error) {
	req := PT(new(T))
	if err := render.Bind(r, req); err != nil {
		var appErr exception.ApplicationError
		if errors.As(err, &appErr) {
			return nil, appErr
		}

		return nil, exception.ApplicationError{
			Message:    err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	return req, nil
}

// NopDecoder is for endpoints whose input lives entirely in the URL.
func NopDecoder(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil //nolint:nilnil
}

// MakeHandlerFunc adapts an endpoint plus its decoder and encoder into a
// chi-mountable handler.
func MakeHandlerFunc(ep endpoint.Endpoint, decoder DecodeFunc, encoder EncodeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		request, err := decoder(ctx, r)
		if err != nil {
			ErrorResponse(ctx, err, w)

			return
		}

		response, err := ep(ctx, request)
		if err != nil {
			ErrorResponse(ctx, err, w)

			return
		}

		if err := encoder(ctx, w, response); err != nil {
			ErrorResponse(ctx, fmt.Errorf("encode response: %w", err), w)
		}
	}
}
