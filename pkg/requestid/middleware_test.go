package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/requestid"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, header, value string) (seen string, rec *httptest.ResponseRecorder) {
	t.Helper()

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/items/", nil)
	if value != "" {
		req.Header.Set(header, value)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "missing", header: "", keep: false},
		{name: "plain", header: "abc123", keep: true},
		{name: "dashes and underscores", header: "ABC-123_xyz", keep: true},
		{name: "uuid", header: "550e8400-e29b-41d4-a716-446655440000", keep: true},
		{name: "special characters", header: "item@42#q", keep: false},
		{name: "spaces", header: "item 42", keep: false},
		{name: "path separators", header: "items/42", keep: false},
		{name: "markup", header: "<script>alert(1)</script>", keep: false},
		{name: "too long", header: strings.Repeat("a", 129), keep: false},
		{name: "max length", header: strings.Repeat("a", 128), keep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			seen, rec := serve(t, requestid.Middleware, requestid.Header, tt.header)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(requestid.Header))
			if tt.keep {
				assert.Equal(t, tt.header, seen)
				return
			}
			assert.NotEqual(t, tt.header, seen)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
		})
	}
}

func TestNewOptions(t *testing.T) {
	t.Parallel()

	mw := requestid.New(
		requestid.WithHeader("X-Correlation-ID"),
		requestid.WithGenerator(func() string { return "generated-1" }),
	)

	t.Run("custom header is reused", func(t *testing.T) {
		t.Parallel()
		seen, rec := serve(t, mw, "X-Correlation-ID", "from-client")
		assert.Equal(t, "from-client", seen)
		assert.Equal(t, "from-client", rec.Header().Get("X-Correlation-ID"))
	})

	t.Run("default header is ignored", func(t *testing.T) {
		t.Parallel()
		seen, rec := serve(t, mw, requestid.Header, "ignored-header")
		assert.Equal(t, "generated-1", seen)
		assert.Equal(t, "generated-1", rec.Header().Get("X-Correlation-ID"))
		assert.Empty(t, rec.Header().Get(requestid.Header))
	})

	t.Run("empty values keep defaults", func(t *testing.T) {
		t.Parallel()
		seen, rec := serve(t, requestid.New(requestid.WithHeader(""), requestid.WithGenerator(nil)), requestid.Header, "")
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(requestid.Header))
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Equal(t, "req-7", requestid.FromContext(requestid.WithContext(context.Background(), "req-7")))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()
	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(requestid.WithContext(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.String())
}
