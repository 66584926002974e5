// Package apikit declares HTTP endpoints by their parameters and response
// models instead of hand-written parsing and encoding.
//
// An endpoint lists the values it needs and where they come from (path,
// query, header, cookie, JSON body, form fields and file uploads), each with a
// type, a default and constraints. Every parameter is validated before the
// handler runs and all failures are reported together as one 422 response.
// The value the handler returns is validated against the declared response
// model and filtered (exclude-unset, include, exclude) before it is written.
//
// Key Features:
//
//   - Models declared in Go or YAML, with inheritance and nested references
//   - Coercion of string inputs to int, float, bool, email and lists
//   - Aggregated validation errors with locations such as ["body", "price"]
//   - Response shaping for single models, lists and unions
//   - Typed error-to-response mapping
//   - Tasks deferred until after the response is written
//
// Basic Usage:
//
//	reg := schema.NewRegistry()
//	item := reg.MustRegister(schema.Model("Item",
//		schema.NewField("name", schema.String()),
//		schema.NewField("price", schema.Float(), schema.Gt(0)),
//		schema.NewField("tax", schema.Optional(schema.Float()), schema.Default(nil)),
//	))
//	if err := reg.Seal(); err != nil {
//		return err
//	}
//
//	r.Post("/items/", handler.Wrap(createItem,
//		handler.WithParams(binder.Body("item", schema.Ref("Item"))),
//		handler.WithResponse(shaper.Single(item, shaper.None())),
//		handler.WithStatus(http.StatusCreated),
//		handler.WithValidator(validator.New(reg)),
//	))
//
// Packages:
//
//   - pkg/schema: field types, models, the registry and YAML declarations
//   - pkg/validator: coercion and constraint checks
//   - pkg/binder: reading parameters from requests
//   - pkg/shaper and pkg/variant: response shaping and union resolution
//   - pkg/httperr: error routing
//   - pkg/deferred: post-response tasks
//   - handler: the request pipeline tying them together
//
// modules/catalog and cmd/catalogd hold a complete example service.
package apikit
