package schema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/apikit/pkg/schema"
)

func TestRegistryFlattening(t *testing.T) {
	t.Parallel()

	reg := schema.NewRegistry()
	reg.MustRegister(schema.Model("BaseItem",
		schema.NewField("description", schema.String()),
		schema.NewField("type", schema.String()),
	))

	t.Run("appends new fields after base fields", func(t *testing.T) {
		t.Parallel()
		m, err := reg.Resolve("BaseItem")
		require.NoError(t, err)
		assert.Equal(t, []string{"description", "type"}, m.FieldNames())
	})

	plane, err := reg.Register(schema.Model("PlaneItem",
		schema.NewField("type", schema.String(), schema.Default("plane")),
		schema.NewField("size", schema.Int()),
	).Extends("BaseItem"))
	require.NoError(t, err)

	t.Run("override replaces base field in place", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"description", "type", "size"}, plane.FieldNames())
		assert.Equal(t, "BaseItem", plane.Base())

		f, ok := plane.Field("type")
		require.True(t, ok)
		assert.True(t, f.HasDefault)
		assert.Equal(t, "plane", f.Default)
		assert.False(t, f.Required())
	})

	t.Run("base is unchanged", func(t *testing.T) {
		t.Parallel()
		base := reg.MustResolve("BaseItem")
		f, ok := base.Field("type")
		require.True(t, ok)
		assert.True(t, f.Required())
	})

	t.Run("fields are returned as copies", func(t *testing.T) {
		t.Parallel()
		fields := plane.Fields()
		fields[0].Name = "mutated"
		assert.Equal(t, "description", plane.Fields()[0].Name)
	})
}

func TestRegistryErrors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate field", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		_, err := reg.Register(schema.Model("Dup",
			schema.NewField("a", schema.String()),
			schema.NewField("a", schema.Int()),
		))
		require.Error(t, err)
		assert.True(t, errors.Is(err, schema.ErrDuplicateField))

		var dup *schema.DuplicateFieldError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "a", dup.Field)
	})

	t.Run("duplicate model", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		reg.MustRegister(schema.Model("A"))
		_, err := reg.Register(schema.Model("A"))
		assert.ErrorIs(t, err, schema.ErrDuplicateModel)
	})

	t.Run("unknown base", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		_, err := reg.Register(schema.Model("Car").Extends("Vehicle"))
		assert.ErrorIs(t, err, schema.ErrUnknownModel)
	})

	t.Run("unknown model on resolve", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		_, err := reg.Resolve("Nope")
		assert.ErrorIs(t, err, schema.ErrUnknownModel)
		assert.Panics(t, func() { reg.MustResolve("Nope") })
	})

	t.Run("empty names", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		_, err := reg.Register(schema.Model(""))
		assert.ErrorIs(t, err, schema.ErrEmptyModelName)
		_, err = reg.Register(schema.Model("X", schema.NewField("", schema.String())))
		assert.ErrorIs(t, err, schema.ErrEmptyFieldName)
	})
}

func TestRegistryCheckAndSeal(t *testing.T) {
	t.Parallel()

	t.Run("dangling references are reported together", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		reg.MustRegister(schema.Model("Order",
			schema.NewField("owner", schema.Ref("User")),
			schema.NewField("lines", schema.ListOf(schema.Ref("Line"))),
		))

		err := reg.Check()
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrUnknownModel)
		assert.Contains(t, err.Error(), `"User"`)
		assert.Contains(t, err.Error(), `"Line"`)

		assert.Error(t, reg.Seal())
	})

	t.Run("forward and self references resolve", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		reg.MustRegister(schema.Model("Node",
			schema.NewField("children", schema.ListOf(schema.Ref("Node")), schema.Default([]any{})),
			schema.NewField("meta", schema.Optional(schema.Ref("Meta")), schema.Default(nil)),
		))
		reg.MustRegister(schema.Model("Meta", schema.NewField("k", schema.String())))

		require.NoError(t, reg.Seal())
		_, err := reg.Register(schema.Model("Late"))
		assert.ErrorIs(t, err, schema.ErrRegistrySealed)
	})

	t.Run("models are listed in registration order", func(t *testing.T) {
		t.Parallel()
		reg := schema.NewRegistry()
		reg.MustRegister(schema.Model("B"))
		reg.MustRegister(schema.Model("A"))
		var names []string
		for _, m := range reg.Models() {
			names = append(names, m.Name())
		}
		assert.Equal(t, []string{"B", "A"}, names)
	})
}

func TestTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  schema.Type
		want string
	}{
		{"scalar", schema.Int(), "int"},
		{"nullable", schema.Optional(schema.String()), "string?"},
		{"list", schema.ListOf(schema.String()), "list[string]"},
		{"nested list of refs", schema.ListOf(schema.Optional(schema.Ref("Item"))), "list[Item?]"},
		{"enum", schema.Enum("alexnet", "resnet"), "enum(alexnet|resnet)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestConstraintName(t *testing.T) {
	t.Parallel()

	f := schema.NewField("n", schema.Int(), schema.Ge(1), schema.Lt(10), schema.MaxLength(3))
	require.Len(t, f.Constraints, 3)
	assert.Equal(t, "minimum", f.Constraints[0].Name())
	assert.Equal(t, "exclusive_maximum", f.Constraints[1].Name())
	assert.Equal(t, "max_length", f.Constraints[2].Name())
	assert.True(t, f.Constraints[2].IsLength())
}
