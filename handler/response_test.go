package handler_test

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/binder"
	"github.com/dmitrymomot/apikit/pkg/shaper"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("simple data", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSON(map[string]string{"Hello": "World"})
		err := resp.Render(w, r)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, map[string]any{"Hello": "World"}, got)
	})

	t.Run("unencodable body writes nothing", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/items/", nil)

		resp := handler.JSON(map[string]any{"price": math.Inf(1)},
			handler.WithJSONStatus(http.StatusCreated),
			handler.WithJSONHeaders(map[string]string{"X-Item": "foo"}),
		)
		err := resp.Render(w, r)
		require.ErrorIs(t, err, handler.ErrEncodeResponse)

		assert.False(t, w.Flushed)
		assert.Empty(t, w.Header())
		assert.Empty(t, w.Body.String())
	})

	t.Run("with status and headers", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSON(
			map[string]string{"message": "Item not found"},
			handler.WithJSONStatus(http.StatusNotFound),
			handler.WithJSONHeaders(map[string]string{"X-Error": "There goes my error"}),
		)
		require.NoError(t, resp.Render(w, r))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "There goes my error", w.Header().Get("X-Error"))
		assert.JSONEq(t, `{"message":"Item not found"}`, w.Body.String())
	})

	t.Run("nil value", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, handler.JSON(nil).Render(w, r))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null\n", w.Body.String())
	})

	t.Run("content type cannot be overridden by headers", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		resp := handler.JSON([]int{1, 2}, handler.WithJSONHeaders(map[string]string{"Content-Type": "text/plain"}))
		require.NoError(t, resp.Render(w, r))
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `[1,2]`, w.Body.String())
	})
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp handler.Response
		want int
	}{
		{name: "no content", resp: handler.Empty(), want: http.StatusNoContent},
		{name: "accepted", resp: handler.EmptyWithStatus(http.StatusAccepted), want: http.StatusAccepted},
		{name: "reset content", resp: handler.EmptyWithStatus(http.StatusResetContent), want: http.StatusResetContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			require.NoError(t, tt.resp.Render(w, httptest.NewRequest(http.MethodDelete, "/items/1", nil)))
			assert.Equal(t, tt.want, w.Code)
			assert.Empty(t, w.Body.String())
			assert.Empty(t, w.Header().Get("Content-Type"))
		})
	}
}

func TestResponseBypassesShaping(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	h := e.wrap(func(ctx handler.Context, args binder.Values) (any, error) {
		return handler.JSON(map[string]any{"anything": true}, handler.WithJSONStatus(http.StatusAccepted)), nil
	}, handler.WithResponse(shaper.Single(e.item, shaper.None())))

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodPost, "/items/", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"anything":true}`, w.Body.String())

	h = e.wrap(func(ctx handler.Context, args binder.Values) (any, error) {
		return handler.Empty(), nil
	})
	w = httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodDelete, "/items/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
