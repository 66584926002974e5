package shaper_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/schema"
	"github.com/dmitrymomot/apikit/pkg/shaper"
	"github.com/dmitrymomot/apikit/pkg/validator"
	"github.com/dmitrymomot/apikit/pkg/variant"
)

type fixture struct {
	v     *validator.Validator
	item  *schema.ModelSpec
	user  *schema.ModelSpec
	out   *schema.ModelSpec
	plane *schema.ModelSpec
	car   *schema.ModelSpec
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	reg := schema.NewRegistry()
	item := reg.MustRegister(schema.Model("Item",
		schema.NewField("name", schema.String()),
		schema.NewField("description", schema.Optional(schema.String()), schema.Default(nil)),
		schema.NewField("price", schema.Float()),
		schema.NewField("tax", schema.Float(), schema.Default(10.5)),
		schema.NewField("tags", schema.ListOf(schema.String()), schema.Default([]any{})),
	))
	reg.MustRegister(schema.Model("Image",
		schema.NewField("url", schema.String()),
		schema.NewField("name", schema.String(), schema.Default("image")),
	))
	reg.MustRegister(schema.Model("Offer",
		schema.NewField("name", schema.String()),
		schema.NewField("images", schema.ListOf(schema.Ref("Image")), schema.Default([]any{})),
	))
	user := reg.MustRegister(schema.Model("UserIn",
		schema.NewField("username", schema.String()),
		schema.NewField("password", schema.String()),
		schema.NewField("email", schema.Email()),
		schema.NewField("full_name", schema.Optional(schema.String()), schema.Default(nil)),
	))
	out := reg.MustRegister(schema.Model("UserOut",
		schema.NewField("username", schema.String()),
		schema.NewField("email", schema.Email()),
		schema.NewField("full_name", schema.Optional(schema.String()), schema.Default(nil)),
	))
	reg.MustRegister(schema.Model("BaseItem",
		schema.NewField("description", schema.String()),
		schema.NewField("type", schema.String()),
	))
	car := reg.MustRegister(schema.Model("CarItem",
		schema.NewField("type", schema.String(), schema.Default("car")),
	).Extends("BaseItem"))
	plane := reg.MustRegister(schema.Model("PlaneItem",
		schema.NewField("type", schema.String(), schema.Default("plane")),
		schema.NewField("size", schema.Int()),
	).Extends("BaseItem"))
	require.NoError(t, reg.Seal())

	return fixture{v: validator.New(reg), item: item, user: user, out: out, plane: plane, car: car}
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

var items = map[string]map[string]any{
	"foo": {"name": "Foo", "price": 50.2},
	"bar": {"name": "Bar", "description": "The bartenders", "price": 62, "tax": 20.2},
	"baz": {"name": "Baz", "description": nil, "price": 50.2, "tax": 10.5, "tags": []any{}},
}

func TestShapeDirectives(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	tests := []struct {
		name string
		item string
		d    shaper.Directive
		want string
	}{
		{
			name: "none applies defaults in declaration order",
			item: "foo",
			d:    shaper.None(),
			want: `{"name":"Foo","description":null,"price":50.2,"tax":10.5,"tags":[]}`,
		},
		{
			name: "exclude unset keeps only supplied fields",
			item: "foo",
			d:    shaper.ExcludeUnset(),
			want: `{"name":"Foo","price":50.2}`,
		},
		{
			name: "exclude unset keeps explicit values equal to defaults",
			item: "baz",
			d:    shaper.ExcludeUnset(),
			want: `{"name":"Baz","description":null,"price":50.2,"tax":10.5,"tags":[]}`,
		},
		{
			name: "include",
			item: "bar",
			d:    shaper.Include("name", "description"),
			want: `{"name":"Bar","description":"The bartenders"}`,
		},
		{
			name: "exclude",
			item: "baz",
			d:    shaper.Exclude("tax"),
			want: `{"name":"Baz","description":null,"price":50.2,"tags":[]}`,
		},
		{
			name: "include unknown name yields empty object",
			item: "bar",
			d:    shaper.Include("nope"),
			want: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := shaper.Shape(items[tt.item], f.v, f.item, tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, toJSON(t, out))
		})
	}
}

func TestShapeIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for _, d := range []shaper.Directive{shaper.None(), shaper.ExcludeUnset(), shaper.Exclude("tax"), shaper.Include("name", "price")} {
		t.Run(d.String(), func(t *testing.T) {
			t.Parallel()
			once, err := shaper.Shape(items["bar"], f.v, f.item, d)
			require.NoError(t, err)
			twice, err := shaper.Shape(once, f.v, f.item, d)
			require.NoError(t, err)
			assert.Equal(t, toJSON(t, once), toJSON(t, twice))
		})
	}
}

func TestShapeIncludeComposesWithExcludeUnset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	unset, err := shaper.Shape(items["foo"], f.v, f.item, shaper.ExcludeUnset())
	require.NoError(t, err)
	out, err := shaper.Shape(unset, f.v, f.item, shaper.Include("name", "tax"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Foo"}`, toJSON(t, out))
}

func TestShapeNestedExcludeUnset(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	offer, err := f.v.Resolver().Resolve("Offer")
	require.NoError(t, err)

	raw := map[string]any{
		"name":   "Bundle",
		"images": []any{map[string]any{"url": "http://example.com/a.png"}},
	}

	out, err := shaper.Shape(raw, f.v, offer, shaper.ExcludeUnset())
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Bundle","images":[{"url":"http://example.com/a.png"}]}`, toJSON(t, out))

	out, err = shaper.Shape(raw, f.v, offer, shaper.None())
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Bundle","images":[{"url":"http://example.com/a.png","name":"image"}]}`, toJSON(t, out))
}

func TestShapeInputKinds(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	t.Run("struct via json", func(t *testing.T) {
		t.Parallel()
		type item struct {
			Name  string  `json:"name"`
			Price float64 `json:"price"`
			Extra string  `json:"extra"`
		}
		out, err := shaper.Shape(item{Name: "Foo", Price: 3, Extra: "dropped"}, f.v, f.item, shaper.ExcludeUnset())
		require.NoError(t, err)
		assert.Equal(t, `{"name":"Foo","price":3}`, toJSON(t, out))
	})

	t.Run("instance of another model drops undeclared fields", func(t *testing.T) {
		t.Parallel()
		in, errs := f.v.Model(map[string]any{
			"username": "john",
			"password": "secret",
			"email":    "john@example.com",
		}, f.user, nil)
		require.Empty(t, errs)

		out, err := shaper.Shape(in, f.v, f.out, shaper.None())
		require.NoError(t, err)
		assert.Equal(t, `{"username":"john","email":"john@example.com","full_name":null}`, toJSON(t, out))

		out, err = shaper.Shape(in, f.v, f.out, shaper.ExcludeUnset())
		require.NoError(t, err)
		assert.Equal(t, []string{"username", "email"}, out.Keys())
	})

	t.Run("invalid response is a server error", func(t *testing.T) {
		t.Parallel()
		_, err := shaper.Shape(map[string]any{"name": "Foo", "price": "cheap"}, f.v, f.item, shaper.None())
		require.Error(t, err)
		assert.ErrorIs(t, err, shaper.ErrResponseValidation)

		var rve *shaper.ResponseValidationError
		require.ErrorAs(t, err, &rve)
		assert.Equal(t, "Item", rve.Model)
		assert.True(t, rve.Errors.Has("response.price"))
	})

	t.Run("non object", func(t *testing.T) {
		t.Parallel()
		_, err := shaper.Shape("plain", f.v, f.item, shaper.None())
		assert.ErrorIs(t, err, shaper.ErrResponseValidation)
		_, err = shaper.Shape(nil, f.v, f.item, shaper.None())
		assert.ErrorIs(t, err, shaper.ErrResponseValidation)
	})
}

func TestDeclaration(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	t.Run("zero value passes through", func(t *testing.T) {
		t.Parallel()
		var d shaper.Declaration
		assert.True(t, d.IsZero())
		out, err := d.Shape(map[string]any{"Hello": "World"}, f.v)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"Hello": "World"}, out)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		d := shaper.List(f.item, shaper.None())
		out, err := d.Shape([]map[string]any{
			{"name": "Foo", "price": 1},
			{"name": "Red", "price": 2, "tags": []string{"a"}},
		}, f.v)
		require.NoError(t, err)
		assert.Equal(t,
			`[{"name":"Foo","description":null,"price":1,"tax":10.5,"tags":[]},{"name":"Red","description":null,"price":2,"tax":10.5,"tags":["a"]}]`,
			toJSON(t, out))

		out, err = d.Shape(nil, f.v)
		require.NoError(t, err)
		assert.Equal(t, `[]`, toJSON(t, out))
	})

	t.Run("list errors carry the index", func(t *testing.T) {
		t.Parallel()
		_, err := shaper.List(f.item, shaper.None()).Shape([]any{
			map[string]any{"name": "Foo", "price": 1},
			map[string]any{"name": "Bad"},
		}, f.v)
		var rve *shaper.ResponseValidationError
		require.ErrorAs(t, err, &rve)
		assert.True(t, rve.Errors.Has("response.1.price"))

		_, err = shaper.List(f.item, shaper.None()).Shape(map[string]any{}, f.v)
		assert.ErrorIs(t, err, shaper.ErrResponseValidation)
	})

	t.Run("union picks first matching variant", func(t *testing.T) {
		t.Parallel()
		d := shaper.Union(shaper.None(), f.plane, f.car)

		out, err := d.Shape(map[string]any{"description": "Music is my aeroplane", "type": "plane", "size": 5}, f.v)
		require.NoError(t, err)
		assert.Equal(t, `{"description":"Music is my aeroplane","type":"plane","size":5}`, toJSON(t, out))

		out, err = d.Shape(map[string]any{"description": "All my friends drive a low rider", "type": "car"}, f.v)
		require.NoError(t, err)
		assert.Equal(t, `{"description":"All my friends drive a low rider","type":"car"}`, toJSON(t, out))

		_, err = d.Shape(map[string]any{"type": "boat"}, f.v)
		assert.ErrorIs(t, err, variant.ErrNoMatchingVariant)
	})
}
