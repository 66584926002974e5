// Package schema holds the declarative description of request and response
// models: field types, defaults, constraints and aliases, plus the registry
// that resolves models by name.
//
// Models are declared either in Go with the field builders or in a YAML
// document loaded with LoadYAML. Both forms produce a ModelDef that is
// compiled by Registry.Register. A model may derive from a base model; the
// registered ModelSpec is flattened so that base fields come first, a
// redeclared field replaces the base field in place, and new fields follow.
//
// Nested models are referenced by name and resolved through the registry at
// validation time, which allows forward and self references. Call
// Registry.Seal once every model is registered: it verifies that every
// reference resolves and freezes the registry for concurrent reads.
//
// # Usage
//
//	reg := schema.NewRegistry()
//	reg.MustRegister(schema.Model("Item",
//	    schema.NewField("name", schema.String()),
//	    schema.NewField("description", schema.Optional(schema.String()), schema.Default(nil)),
//	    schema.NewField("price", schema.Float(), schema.Gt(0)),
//	    schema.NewField("tags", schema.ListOf(schema.String()), schema.Default([]any{})),
//	))
//	if err := reg.Seal(); err != nil {
//	    log.Fatal(err)
//	}
//
// The same model in YAML:
//
//	Item:
//	  name: string
//	  description: {type: "string?", default: null}
//	  price: {type: float, constraints: {gt: 0}}
//	  tags: {type: "list[string]", default: []}
//
// Instance is a validated model value. It remembers which fields were
// explicitly supplied, which response shaping uses for exclude-unset. Ordered
// is the JSON object type emitted by shaping; it keeps keys in model order.
package schema
