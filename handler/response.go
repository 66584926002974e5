package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrEncodeResponse is returned by Render when the body cannot be encoded.
// Nothing has been written to the client at that point.
var ErrEncodeResponse = errors.New("handler: failed to encode response")

// Response renders itself to an http.ResponseWriter. A handler returning a
// Response bypasses response shaping; deferred tasks still run after it.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// statusResponse is implemented by the responses of this package so the
// engine can record the status without inspecting the writer.
type statusResponse interface {
	Status() int
}

func statusOf(resp Response) int {
	if s, ok := resp.(statusResponse); ok {
		return s.Status()
	}
	return http.StatusOK
}

type jsonResponse struct {
	status  int
	headers map[string]string
	body    any
}

func (j *jsonResponse) Status() int { return j.status }

// Render encodes the body before touching the writer, so an unencodable
// value (NaN, Inf, channels) leaves the response unwritten.
func (j *jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(j.body); err != nil {
		return errors.Join(ErrEncodeResponse, err)
	}

	for k, v := range j.headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	_, err := buf.WriteTo(w)
	return err
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONHeaders adds response headers. Content-Type cannot be overridden.
func WithJSONHeaders(headers map[string]string) JSONOption {
	return func(r *jsonResponse) {
		if r.headers == nil {
			r.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			r.headers[k] = v
		}
	}
}

// JSON renders v as is, without validation or filtering against the
// declared response model.
//
//	return handler.JSON(map[string]any{"item_id": id}, handler.WithJSONStatus(http.StatusAccepted)), nil
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type emptyResponse int

func (e emptyResponse) Status() int { return int(e) }

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(int(e))
	return nil
}

// Empty writes 204 No Content.
func Empty() Response {
	return emptyResponse(http.StatusNoContent)
}

// EmptyWithStatus writes status without a body, e.g. 202 Accepted for work
// left to deferred tasks.
func EmptyWithStatus(status int) Response {
	return emptyResponse(status)
}
