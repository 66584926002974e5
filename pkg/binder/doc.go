// Package binder resolves declared handler parameters from an HTTP request and
// validates them against their field specs.
//
// A parameter names its source (path, query, header, cookie, body, form or
// file) and carries a schema.FieldSpec with its type, default and
// constraints:
//
//	params := []binder.Param{
//	    binder.Path("item_id", schema.Int(), schema.Ge(1)),
//	    binder.Query("q", schema.Optional(schema.ListOf(schema.String())), schema.Default(nil)),
//	    binder.Header("user_agent", schema.Optional(schema.String()), schema.Default(nil)),
//	    binder.Body("item", schema.Ref("Item")),
//	}
//
// Binder.Bind evaluates every parameter and never stops at the first failure.
// Aggregate then either returns the validated Values or a single
// *ValidationFailure listing every error in declaration order, together with
// the decoded request body for diagnostics.
//
// # Sources
//
//   - Header names default to the parameter name with "_" replaced by "-",
//     so user_agent reads User-Agent. An alias overrides the lookup name.
//   - List-typed query, header and form parameters receive every value;
//     scalars receive the first.
//   - The JSON body is decoded once per request with numbers preserved. A
//     single body parameter receives the whole body unless it is wrapped in
//     Embed; with several body parameters each reads the member named after it.
//   - File parameters deliver either the content as []byte (FileBytes) or an
//     *UploadFile handle (FileHandle). Reads are bounded by WithMaxFileSize
//     and stop when the request context is cancelled.
//
// # Request adapter
//
// The binder reads requests through the Request interface. FromHTTP adapts an
// *http.Request; path parameters come from a PathExtractor such as
// chi.URLParam. Filenames of uploads are sanitized against path traversal.
//
// # Error Handling
//
// Per-parameter failures are validator.FieldError values located at
// [source, name, ...]. *ValidationFailure matches ErrValidationFailed and,
// through Unwrap, each validator sentinel. Bind itself only fails when the
// context is cancelled.
package binder
