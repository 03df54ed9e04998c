package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bayneri/lossbudget/internal/budget"
	"github.com/go-chi/render"
)

const (
	CodeInvalidInput = "invalid_input"
	CodeUnknownKey   = "unknown_key"
	CodeOutOfRange   = "out_of_range"
	CodeNotFound     = "not_found"
	CodeInternal     = "internal"
)

var errBadBody = errors.New("request body is not valid JSON")

// ErrResponse is the body of every non-2xx API response. Segment is 1-based
// and omitted for link-wide problems.
type ErrResponse struct {
	HTTPStatusCode int    `json:"-"`
	Code           string `json:"code"`
	Message        string `json:"message"`
	Segment        int    `json:"segment,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func bindError(err error) error {
	var inputErr *budget.InputError
	if errors.As(err, &inputErr) {
		return err
	}
	return fmt.Errorf("%w: %v", errBadBody, err)
}

func errorFor(err error) *ErrResponse {
	var inputErr *budget.InputError
	var rangeErr *budget.RangeError
	var configErr *budget.ConfigError
	switch {
	case errors.As(err, &rangeErr):
		return &ErrResponse{HTTPStatusCode: http.StatusUnprocessableEntity, Code: CodeOutOfRange, Message: err.Error(), Segment: rangeErr.Segment}
	case errors.As(err, &inputErr):
		return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Code: CodeInvalidInput, Message: err.Error(), Segment: inputErr.Segment}
	case errors.As(err, &configErr):
		return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Code: CodeUnknownKey, Message: err.Error(), Segment: configErr.Segment}
	case errors.Is(err, errBadBody):
		return &ErrResponse{HTTPStatusCode: http.StatusBadRequest, Code: CodeInvalidInput, Message: err.Error()}
	default:
		return &ErrResponse{HTTPStatusCode: http.StatusInternalServerError, Code: CodeInternal, Message: err.Error()}
	}
}

func errNotFound(err error) *ErrResponse {
	return &ErrResponse{HTTPStatusCode: http.StatusNotFound, Code: CodeNotFound, Message: err.Error()}
}
