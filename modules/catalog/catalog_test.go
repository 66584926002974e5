package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/apikit/modules/catalog"
	"github.com/dmitrymomot/apikit/pkg/deferred"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) Write(_ context.Context, email, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, email+": "+message)
	return nil
}

func (r *recorder) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func newServer(t *testing.T, notifier catalog.Notifier, opts ...catalog.Option) http.Handler {
	t.Helper()

	reg, err := catalog.NewRegistry()
	require.NoError(t, err)

	if notifier == nil {
		notifier = &recorder{}
	}
	base := []catalog.Option{
		catalog.WithBcryptCost(bcrypt.MinCost),
		catalog.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	svc, err := catalog.New(reg, notifier, append(base, opts...)...)
	require.NoError(t, err)
	return svc.Handler()
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	reg, err := catalog.NewRegistry()
	require.NoError(t, err)

	_, err = catalog.New(reg, nil)
	assert.ErrorIs(t, err, catalog.ErrNoNotifier)
}

func TestRoot(t *testing.T) {
	t.Parallel()

	w := do(t, newServer(t, nil), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Hello":"World"}`, w.Body.String())
}

func TestReadItems(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	t.Run("all sources", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/items/?q=foo&q=bar&r=abc", nil)
		req.Header.Set("User-Agent", "tests")
		req.AddCookie(&http.Cookie{Name: "ads_id", Value: "ad-1"})

		w := do(t, h, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t,
			`{"items":[{"item_id":"Foo"},{"item_id":"Bar"}],"ads_id":"ad-1","User-Agent":"tests","q":["foo","bar"],"r":"abc"}`,
			strings.TrimSpace(w.Body.String()))
	})

	t.Run("short query", func(t *testing.T) {
		t.Parallel()

		w := do(t, h, httptest.NewRequest(http.MethodGet, "/items/?r=ab", nil))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"loc":["query","r"]`)
	})
}

func TestCreateItem(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	w := do(t, h, jsonRequest(http.MethodPost, "/items/", `{"name":"Foo","price":"35.4"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"Foo","description":null,"price":35.4,"tax":null,"tags":[]}`, w.Body.String())

	w = do(t, h, jsonRequest(http.MethodPost, "/items/", `{"name":"Foo","price":"cheap"}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Detail []struct {
			Loc  []any  `json:"loc"`
			Type string `json:"type"`
		} `json:"detail"`
		Body map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Detail, 1)
	assert.Equal(t, []any{"body", "price"}, body.Detail[0].Loc)
	assert.Equal(t, "type_error.float", body.Detail[0].Type)
	assert.Equal(t, map[string]any{"name": "Foo", "price": "cheap"}, body.Body)

	for _, price := range []string{`1e400`, `"-1e400"`} {
		w = do(t, h, jsonRequest(http.MethodPost, "/items/", `{"name":"Foo","price":`+price+`}`))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, price)

		var overflow struct {
			Detail []struct {
				Loc  []any  `json:"loc"`
				Type string `json:"type"`
			} `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overflow))
		require.Len(t, overflow.Detail, 1)
		assert.Equal(t, []any{"body", "price"}, overflow.Detail[0].Loc)
		assert.Equal(t, "type_error.float", overflow.Detail[0].Type)
	}
}

func TestCreateItemWithTax(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	w := do(t, h, jsonRequest(http.MethodPost, "/items/with-tax", `{"name":"Foo","price":35.4,"tax":3.2}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"name":"Foo","description":null,"price":35.4,"tax":3.2,"tags":[],"price_with_tax":38.6}`,
		w.Body.String())

	w = do(t, h, jsonRequest(http.MethodPost, "/items/with-tax", `{"name":"Foo","price":35.4}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "price_with_tax")
}

func TestReadItem(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "long",
			target:     "/items/5?item-query=foo",
			wantStatus: http.StatusOK,
			wantBody:   `{"item_id":5,"q":"foo","description":"This is an amazing item that has a long description"}`,
		},
		{
			name:       "short",
			target:     "/items/5?short=yes",
			wantStatus: http.StatusOK,
			wantBody:   `{"item_id":5}`,
		},
		{
			name:       "query omitted",
			target:     "/items/5",
			wantStatus: http.StatusOK,
			wantBody:   `{"item_id":5,"description":"This is an amazing item that has a long description"}`,
		},
		{
			name:       "disliked id",
			target:     "/items/3",
			wantStatus: http.StatusTeapot,
			wantBody:   `{"detail":"Nope! I don't like 3."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(t, h, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}

	t.Run("below minimum", func(t *testing.T) {
		t.Parallel()

		w := do(t, h, httptest.NewRequest(http.MethodGet, "/items/0", nil))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"loc":["path","item_id"]`)
	})
}

func TestUpdateItem(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	w := do(t, h, jsonRequest(http.MethodPut, "/items/7", `{"name":"Foo","price":1}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"item_name":"Foo","item_id":7}`, w.Body.String())

	w = do(t, h, jsonRequest(http.MethodPut, "/items/7/owner",
		`{"item":{"name":"Foo","price":1},"user":{"username":"dave"}}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"item_id":7,
		"item":{"name":"Foo","description":null,"price":1,"tax":null,"tags":[]},
		"user":{"username":"dave","full_name":null}
	}`, w.Body.String())

	w = do(t, h, jsonRequest(http.MethodPut, "/items/7/owner", `{"item":{"name":"Foo","price":1}}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"loc":["body","user"]`)
}

func TestResponseDirectives(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "exclude unset drops defaults",
			target:     "/items2/foo",
			wantStatus: http.StatusOK,
			wantBody:   `{"name":"Foo","price":50.2}`,
		},
		{
			name:       "exclude unset keeps explicit defaults",
			target:     "/items2/baz",
			wantStatus: http.StatusOK,
			wantBody:   `{"name":"Baz","description":null,"price":50.2,"tax":10.5,"tags":[]}`,
		},
		{
			name:       "include",
			target:     "/items/bar/name",
			wantStatus: http.StatusOK,
			wantBody:   `{"name":"Bar","description":"The bartenders"}`,
		},
		{
			name:       "exclude",
			target:     "/items/bar/public",
			wantStatus: http.StatusOK,
			wantBody:   `{"name":"Bar","description":"The bartenders","price":62,"tags":[]}`,
		},
		{
			name:       "list",
			target:     "/items2/",
			wantStatus: http.StatusOK,
			wantBody:   `[{"name":"Foo","description":"There comes my hero"},{"name":"Red","description":"It's my aeroplane"}]`,
		},
		{
			name:       "union car",
			target:     "/items3/item1",
			wantStatus: http.StatusOK,
			wantBody:   `{"description":"All my friends drive a low rider","type":"car"}`,
		},
		{
			name:       "union plane",
			target:     "/items3/item2",
			wantStatus: http.StatusOK,
			wantBody:   `{"description":"Music is my aeroplane, it's my aeroplane","type":"plane","size":5}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := do(t, h, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}

	t.Run("unknown item", func(t *testing.T) {
		t.Parallel()

		w := do(t, h, httptest.NewRequest(http.MethodGet, "/items2/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "There goes my error", w.Header().Get("X-Error"))
		assert.JSONEq(t, `{"detail":"Item not found"}`, w.Body.String())
	})
}

func TestGetModel(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/models/alexnet", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"model_name":"alexnet","message":"Deep Learning FTW!"}`, w.Body.String())

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/models/resnet", nil))
	assert.JSONEq(t, `{"model_name":"resnet","message":"Have some residuals"}`, w.Body.String())

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/models/vgg", nil))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"loc":["path","model_name"]`)
}

func TestCreateUser(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	h := newServer(t, nil, catalog.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	w := do(t, h, jsonRequest(http.MethodPost, "/user/",
		`{"username":"john","email":"john@example.com","password":"secret"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"john","email":"john@example.com","full_name":null}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "secret")
	assert.Contains(t, logs.String(), "user saved")
	assert.NotContains(t, logs.String(), "secret")

	w = do(t, h, jsonRequest(http.MethodPost, "/user/",
		`{"username":"john","email":"not-an-email","password":""}`))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"loc":["body","email"]`)
	assert.Contains(t, w.Body.String(), `"loc":["body","password"]`)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	form := url.Values{"username": {"john"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := do(t, h, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"john"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader("username=john"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = do(t, h, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"loc":["form","password"]`)
}

func multipartRequest(t *testing.T, target, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFiles(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil, catalog.WithMaxFileSize(16))

	w := do(t, h, multipartRequest(t, "/files/", "file", "a.txt", []byte("hello")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"file_size":5}`, w.Body.String())

	w = do(t, h, httptest.NewRequest(http.MethodPost, "/files/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"No file sent"}`, w.Body.String())

	w = do(t, h, multipartRequest(t, "/files/", "file", "empty.txt", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"No file sent"}`, w.Body.String())

	w = do(t, h, multipartRequest(t, "/files/", "file", "big.bin", bytes.Repeat([]byte("x"), 64)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, multipartRequest(t, "/uploadfile/", "file", "report.pdf", []byte("%PDF")))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"filename":"report.pdf"}`, w.Body.String())

	w = do(t, h, httptest.NewRequest(http.MethodPost, "/uploadfile/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"No upload file sent"}`, w.Body.String())
}

func TestUnicorns(t *testing.T) {
	t.Parallel()

	h := newServer(t, nil)

	w := do(t, h, httptest.NewRequest(http.MethodGet, "/unicorns/yolo", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.JSONEq(t, `{"message":"Oops! yolo did something. There goes a rainbow..."}`, w.Body.String())

	w = do(t, h, httptest.NewRequest(http.MethodGet, "/unicorns/sparkle", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unicorn_name":"sparkle"}`, w.Body.String())
}

func TestSendNotification(t *testing.T) {
	t.Parallel()

	t.Run("query and email in order", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		tracker := deferred.NewTracker()
		h := newServer(t, rec, catalog.WithTaskOptions(deferred.WithTracker(tracker)))

		w := do(t, h, httptest.NewRequest(http.MethodPost, "/send-notification/foo@example.com?q=some", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Message sent"}`, w.Body.String())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, tracker.Wait(ctx))

		assert.Equal(t, []string{
			"a: found query: some",
			"foo@example.com: message to foo@example.com",
		}, rec.Lines())
	})

	t.Run("file log", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "logs", "log.txt")
		fl, err := catalog.NewFileLog(path)
		require.NoError(t, err)

		h := newServer(t, fl)
		w := do(t, h, httptest.NewRequest(http.MethodPost, "/send-notification/foo@example.com", nil))
		require.Equal(t, http.StatusOK, w.Code)

		assert.Eventually(t, func() bool {
			data, err := os.ReadFile(path)
			return err == nil && string(data) == "notification for foo@example.com: message to foo@example.com\n"
		}, time.Second, 10*time.Millisecond)
	})
}

func TestFileLog(t *testing.T) {
	t.Parallel()

	_, err := catalog.NewFileLog("")
	assert.ErrorIs(t, err, catalog.ErrEmptyLogPath)

	path := filepath.Join(t.TempDir(), "log.txt")
	fl, err := catalog.NewFileLog(path)
	require.NoError(t, err)
	assert.Equal(t, path, fl.Path())

	require.NoError(t, fl.Write(context.Background(), "a", "one"))
	require.NoError(t, fl.Write(context.Background(), "b", "two"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "notification for a: one\nnotification for b: two\n", string(data))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fl.Write(ctx, "c", "three"), context.Canceled)
}
