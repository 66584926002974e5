package schema

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ExtendsKey is the reserved key naming a model's base in a declaration document.
const ExtendsKey = "$extends"

var (
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	keyRe   = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
)

var scalarKinds = map[string]Kind{
	"string": KindString,
	"int":    KindInt,
	"float":  KindFloat,
	"bool":   KindBool,
	"email":  KindEmail,
	"bytes":  KindBytes,
	"any":    KindAny,
}

// fieldDecl is the YAML shape of one field. Constraints and default are read
// from the node directly so their order and presence survive decoding.
type fieldDecl struct {
	Type        string   `yaml:"type" validate:"required,typeexpr"`
	Nullable    bool     `yaml:"nullable"`
	Enum        []string `yaml:"enum" validate:"omitempty,unique,dive,required"`
	Alias       string   `yaml:"alias" validate:"omitempty,fieldkey"`
	Title       string   `yaml:"title" validate:"omitempty,max=200"`
	Description string   `yaml:"description"`
	Example     any      `yaml:"example"`
}

var declValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("typeexpr", func(fl validator.FieldLevel) bool {
		_, err := ParseType(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("fieldkey", func(fl validator.FieldLevel) bool {
		return keyRe.MatchString(fl.Field().String())
	})
	return v
})

// ParseType parses a type expression: a scalar name, list[<type>], or a model
// name, optionally followed by "?" for nullable.
func ParseType(expr string) (Type, error) {
	expr = strings.TrimSpace(expr)
	nullable := false
	if strings.HasSuffix(expr, "?") {
		nullable = true
		expr = strings.TrimSpace(strings.TrimSuffix(expr, "?"))
	}

	var t Type
	switch {
	case expr == "":
		return Type{}, fmt.Errorf("%w: empty type", ErrInvalidDeclaration)
	case strings.HasPrefix(expr, "list[") && strings.HasSuffix(expr, "]"):
		elem, err := ParseType(expr[len("list[") : len(expr)-1])
		if err != nil {
			return Type{}, err
		}
		t = ListOf(elem)
	default:
		if k, ok := scalarKinds[expr]; ok {
			t = Type{Kind: k}
		} else if identRe.MatchString(expr) {
			t = Ref(expr)
		} else {
			return Type{}, fmt.Errorf("%w: bad type %q", ErrInvalidDeclaration, expr)
		}
	}
	t.Nullable = nullable
	return t, nil
}

// ParseDeclarations reads model definitions from a YAML document, preserving
// the document order of models, fields and constraints.
func ParseDeclarations(data []byte) ([]ModelDef, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDeclaration, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping of models", ErrInvalidDeclaration)
	}

	defs := make([]ModelDef, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		def, err := parseModel(root.Content[i].Value, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseModel(name string, node *yaml.Node) (ModelDef, error) {
	if !identRe.MatchString(name) {
		return ModelDef{}, fmt.Errorf("%w: bad model name %q", ErrInvalidDeclaration, name)
	}
	def := ModelDef{Name: name}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return def, nil
	}
	if node.Kind != yaml.MappingNode {
		return ModelDef{}, fmt.Errorf("%w: model %q must be a mapping", ErrInvalidDeclaration, name)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if key == ExtendsKey {
			if !identRe.MatchString(val.Value) {
				return ModelDef{}, fmt.Errorf("%w: model %q: bad base %q", ErrInvalidDeclaration, name, val.Value)
			}
			def.Base = val.Value
			continue
		}
		f, err := parseField(key, val)
		if err != nil {
			return ModelDef{}, fmt.Errorf("model %q: %w", name, err)
		}
		def.Fields = append(def.Fields, f)
	}
	return def, nil
}

func parseField(name string, node *yaml.Node) (FieldSpec, error) {
	if !identRe.MatchString(name) {
		return FieldSpec{}, fmt.Errorf("%w: bad field name %q", ErrInvalidDeclaration, name)
	}
	// Shorthand: "price: float".
	if node.Kind == yaml.ScalarNode {
		t, err := ParseType(node.Value)
		if err != nil {
			return FieldSpec{}, fmt.Errorf("field %q: %w", name, err)
		}
		return NewField(name, t), nil
	}
	if node.Kind != yaml.MappingNode {
		return FieldSpec{}, fmt.Errorf("%w: field %q must be a mapping or a type", ErrInvalidDeclaration, name)
	}

	var decl fieldDecl
	if err := node.Decode(&decl); err != nil {
		return FieldSpec{}, fmt.Errorf("%w: field %q: %v", ErrInvalidDeclaration, name, err)
	}
	if err := declValidator().Struct(decl); err != nil {
		return FieldSpec{}, declError(name, err)
	}

	t, _ := ParseType(decl.Type)
	if len(decl.Enum) > 0 {
		if t.Kind != KindString || t.Model != "" {
			return FieldSpec{}, fmt.Errorf("%w: field %q: enum requires type string", ErrInvalidDeclaration, name)
		}
		t.Enum = decl.Enum
	}
	if decl.Nullable {
		t.Nullable = true
	}

	opts := []FieldOption{
		Alias(decl.Alias),
		Title(decl.Title),
		Description(decl.Description),
		Example(decl.Example),
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "default":
			var v any
			if err := val.Decode(&v); err != nil {
				return FieldSpec{}, fmt.Errorf("%w: field %q default: %v", ErrInvalidDeclaration, name, err)
			}
			opts = append(opts, Default(v))
		case "constraints":
			cs, err := parseConstraints(name, val)
			if err != nil {
				return FieldSpec{}, err
			}
			opts = append(opts, cs...)
		}
	}

	return NewField(name, t, opts...), nil
}

func parseConstraints(field string, node *yaml.Node) ([]FieldOption, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: field %q: constraints must be a mapping", ErrInvalidDeclaration, field)
	}
	v := declValidator()
	var opts []FieldOption
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if err := v.Var(key, "oneof=min_length max_length ge gt le lt"); err != nil {
			return nil, fmt.Errorf("%w: field %q: unknown constraint %q", ErrInvalidDeclaration, field, key)
		}
		var limit float64
		if err := node.Content[i+1].Decode(&limit); err != nil {
			return nil, fmt.Errorf("%w: field %q: constraint %s: %v", ErrInvalidDeclaration, field, key, err)
		}
		kind := ConstraintKind(key)
		if kind == MinLengthConstraint || kind == MaxLengthConstraint {
			if err := v.Var(limit, "gte=0"); err != nil {
				return nil, fmt.Errorf("%w: field %q: %s must not be negative", ErrInvalidDeclaration, field, key)
			}
		}
		opts = append(opts, constraint(kind, limit))
	}
	return opts, nil
}

func declError(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: field %q: %v", ErrInvalidDeclaration, field, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: field %q: %s", ErrInvalidDeclaration, field, strings.Join(msgs, ", "))
}

// RegisterAll registers defs, deferring models whose base appears later in the
// list until the base is registered.
func RegisterAll(reg *Registry, defs []ModelDef) error {
	pending := defs
	for len(pending) > 0 {
		var next []ModelDef
		for _, def := range pending {
			if def.Base != "" {
				if _, err := reg.Resolve(def.Base); err != nil {
					next = append(next, def)
					continue
				}
			}
			if _, err := reg.Register(def); err != nil {
				return err
			}
		}
		if len(next) == len(pending) {
			return &UnknownModelError{Name: next[0].Base, Referrer: next[0].Name}
		}
		pending = next
	}
	return nil
}

// LoadYAML parses a declaration document and registers every model in it.
func LoadYAML(r io.Reader, reg *Registry) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read declarations: %w", err)
	}
	defs, err := ParseDeclarations(data)
	if err != nil {
		return err
	}
	return RegisterAll(reg, defs)
}
