package binder

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"sync"
)

const (
	// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
	DefaultMaxMemory = 10 << 20
	// DefaultMaxBodySize is the default maximum size for JSON request bodies (1MB).
	DefaultMaxBodySize = 1 << 20
)

// Request is the binder's view of an incoming request: opaque named lookups
// per source. The second result of each lookup reports presence.
type Request interface {
	Path(name string) (string, bool)
	Query(name string) ([]string, bool)
	Header(name string) ([]string, bool)
	Cookie(name string) (string, bool)
	Body(ctx context.Context) ([]byte, error)
	Form(name string) ([]string, bool)
	File(name string) (*multipart.FileHeader, bool)
}

// formErrorer is implemented by requests that can report why form data was
// not available.
type formErrorer interface {
	FormError() error
}

// PathExtractor returns the value of a path parameter, or "" when absent.
// chi.URLParam satisfies it.
type PathExtractor func(r *http.Request, name string) string

type requestOptions struct {
	maxMemory   int64
	maxBodySize int64
}

// RequestOption configures FromHTTP.
type RequestOption func(*requestOptions)

// WithMaxMemory sets the memory limit for multipart parsing; larger parts spill to disk.
func WithMaxMemory(n int64) RequestOption {
	return func(o *requestOptions) { o.maxMemory = n }
}

// WithMaxBodySize limits the size of a JSON body.
func WithMaxBodySize(n int64) RequestOption {
	return func(o *requestOptions) { o.maxBodySize = n }
}

type httpRequest struct {
	r    *http.Request
	path PathExtractor
	opts requestOptions

	queryOnce sync.Once
	query     url.Values

	bodyOnce sync.Once
	body     []byte
	bodyErr  error

	formOnce sync.Once
	form     map[string][]string
	files    map[string][]*multipart.FileHeader
	formErr  error
}

// FromHTTP adapts r to Request. path may be nil when the route has no path parameters.
func FromHTTP(r *http.Request, path PathExtractor, opts ...RequestOption) Request {
	o := requestOptions{
		maxMemory:   DefaultMaxMemory,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &httpRequest{r: r, path: path, opts: o}
}

func (h *httpRequest) Path(name string) (string, bool) {
	if h.path == nil {
		return "", false
	}
	v := h.path(h.r, name)
	return v, v != ""
}

func (h *httpRequest) Query(name string) ([]string, bool) {
	h.queryOnce.Do(func() { h.query = h.r.URL.Query() })
	v, ok := h.query[name]
	return v, ok && len(v) > 0
}

func (h *httpRequest) Header(name string) ([]string, bool) {
	v := h.r.Header.Values(name)
	return v, len(v) > 0
}

func (h *httpRequest) Cookie(name string) (string, bool) {
	c, err := h.r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Body reads the raw body once. Form-encoded requests have no JSON body; their
// content is available through Form and File.
func (h *httpRequest) Body(ctx context.Context) ([]byte, error) {
	h.bodyOnce.Do(func() {
		if h.r.Body == nil || isFormRequest(h.r) {
			return
		}
		data, err := readAll(ctx, h.r.Body, h.opts.maxBodySize)
		switch {
		case err == errLimitExceeded:
			h.bodyErr = fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, h.opts.maxBodySize)
		case err != nil:
			h.bodyErr = err
		default:
			h.body = data
		}
	})
	return h.body, h.bodyErr
}

func (h *httpRequest) Form(name string) ([]string, bool) {
	h.parseForm()
	v, ok := h.form[name]
	return v, ok && len(v) > 0
}

func (h *httpRequest) File(name string) (*multipart.FileHeader, bool) {
	h.parseForm()
	fhs := h.files[name]
	if len(fhs) == 0 {
		return nil, false
	}
	fh := fhs[0]
	fh.Filename = sanitizeFilename(fh.Filename)
	return fh, true
}

func (h *httpRequest) FormError() error {
	h.parseForm()
	return h.formErr
}

func (h *httpRequest) parseForm() {
	h.formOnce.Do(func() {
		mediaType, params, err := mime.ParseMediaType(h.r.Header.Get("Content-Type"))
		if err != nil {
			return
		}

		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := h.r.ParseForm(); err != nil {
				h.formErr = fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
				return
			}
			h.form = h.r.PostForm

		case "multipart/form-data":
			if !validBoundary(params["boundary"]) {
				h.formErr = fmt.Errorf("%w: invalid boundary parameter", ErrFailedToParseForm)
				return
			}
			if err := h.r.ParseMultipartForm(h.opts.maxMemory); err != nil {
				h.formErr = fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
				return
			}
			if h.r.MultipartForm != nil {
				h.form = h.r.MultipartForm.Value
				h.files = h.r.MultipartForm.File
			}
		}
	})
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

// validBoundary checks the multipart boundary against RFC 2046: 1 to 70
// characters from a restricted set.
func validBoundary(b string) bool {
	if b == "" || len(b) > 70 {
		return false
	}
	for _, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '\'' || c == '(' || c == ')' || c == '+' || c == '_' || c == ',' ||
			c == '-' || c == '.' || c == '/' || c == ':' || c == '=' || c == '?' || c == ' ':
		default:
			return false
		}
	}
	return b[len(b)-1] != ' '
}
