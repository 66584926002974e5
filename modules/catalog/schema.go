package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/dmitrymomot/apikit/pkg/schema"
)

//go:embed schema.yaml
var schemaYAML []byte

// ModelNames are the values accepted by GET /models/{model_name}.
var ModelNames = []string{"alexnet", "resnet", "lenet"}

// models holds the registered specs the routes declare responses with.
type models struct {
	item      *schema.ModelSpec
	item2     *schema.ModelSpec
	carItem   *schema.ModelSpec
	planeItem *schema.ModelSpec
	userOut   *schema.ModelSpec
	userInDB  *schema.ModelSpec
}

// NewRegistry loads the catalog models and seals the registry.
func NewRegistry() (*schema.Registry, error) {
	reg := schema.NewRegistry()
	if err := schema.LoadYAML(bytes.NewReader(schemaYAML), reg); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	if err := reg.Seal(); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return reg, nil
}

func resolveModels(reg schema.Resolver) (models, error) {
	var (
		m   models
		err error
	)
	for _, target := range []struct {
		name string
		dst  **schema.ModelSpec
	}{
		{"Item", &m.item},
		{"Item2", &m.item2},
		{"CarItem", &m.carItem},
		{"PlaneItem", &m.planeItem},
		{"UserOut", &m.userOut},
		{"UserInDB", &m.userInDB},
	} {
		if *target.dst, err = reg.Resolve(target.name); err != nil {
			return models{}, fmt.Errorf("catalog schema: %w", err)
		}
	}
	return m, nil
}
