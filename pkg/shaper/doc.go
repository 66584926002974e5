// Package shaper turns handler return values into response bodies that match a
// declared model.
//
// Shape validates the value against the model (defaults applied, undeclared
// keys dropped) and emits a *schema.Ordered whose keys follow declaration
// order. A Directive narrows the output:
//
//	shaper.Shape(item, v, itemModel, shaper.ExcludeUnset())        // only explicitly set fields
//	shaper.Shape(item, v, itemModel, shaper.Include("name", "description"))
//	shaper.Shape(item, v, itemModel, shaper.Exclude("tax"))
//
// Include and Exclude act on top-level fields; ExcludeUnset also applies to
// nested models. Shaping an already shaped value filters it again without
// re-validation, so Shape is idempotent.
//
// A Declaration binds the directive to an endpoint's response: Single, List,
// or Union, which picks the first accepting variant through package variant.
// Invalid response data is a server defect reported as
// *ResponseValidationError.
package shaper
