package httperr

import (
	"github.com/dmitrymomot/apikit/pkg/binder"
	"github.com/dmitrymomot/apikit/pkg/validator"
)

// ValidationDetail is one entry of a request validation response.
type ValidationDetail struct {
	Loc  validator.Loc  `json:"loc"`
	Msg  string         `json:"msg"`
	Type string         `json:"type"`
	Ctx  map[string]any `json:"ctx,omitempty"`
}

// ValidationResponse is the body of a 422 response: every error plus the
// request body as received.
type ValidationResponse struct {
	Detail []ValidationDetail `json:"detail"`
	Body   any                `json:"body"`
}

// ValidationBody builds the response body for a validation failure.
func ValidationBody(vf *binder.ValidationFailure) ValidationResponse {
	errs := vf.Errors()
	out := ValidationResponse{
		Detail: make([]ValidationDetail, len(errs)),
		Body:   vf.Body(),
	}
	for i, fe := range errs {
		out.Detail[i] = ValidationDetail{
			Loc:  fe.Loc,
			Msg:  fe.Message,
			Type: fe.Code(),
			Ctx:  fe.Context(),
		}
	}
	return out
}
