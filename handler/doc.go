// Package handler turns declared parameters, a response model and a plain
// function into an http.HandlerFunc.
//
// # Core Concepts
//
// A HandlerFunc receives a Context and the validated parameters as
// binder.Values and returns the response value:
//
//	func createItem(ctx handler.Context, args binder.Values) (any, error) {
//		return args.Instance("item"), nil
//	}
//
//	r.Post("/items/", handler.Wrap(createItem,
//		handler.WithParams(binder.Body("item", schema.Ref("Item"))),
//		handler.WithResponse(shaper.Single(item, shaper.None())),
//		handler.WithStatus(http.StatusCreated),
//		handler.WithValidator(v),
//	))
//
// # Request Pipeline
//
// 1. Bind - every declared parameter is read and validated; nothing stops at
// the first failure.
// 2. Aggregate - failures become one *binder.ValidationFailure (422 by default).
// 3. Handle - the function runs only when every parameter is valid.
// 4. Shape - the value is validated and filtered against the declared
// response model. Returning a Response (JSON, Empty) skips this step.
// 5. Route errors - errors from any step go through the httperr.Router.
// 6. Deferred tasks - run after the handler's own response is written, never
// after an error response.
//
// # Response Types
//
//	handler.JSON(data)                                   // 200 OK, no shaping
//	handler.JSON(data, handler.WithJSONStatus(201))      // custom status
//	handler.JSON(data, handler.WithJSONHeaders(headers)) // extra headers
//	handler.Empty()                                      // 204 No Content
//
// # Context
//
// The Context interface extends context.Context with HTTP-specific methods:
//
//	ctx.Request()         // access HTTP request
//	ctx.ResponseWriter()  // access response writer
//	ctx.Tasks()           // deferred task queue of this request
//
// The queue is also stored in the request context, so helpers can reach it
// with deferred.FromContext.
//
// # Error Handling
//
// Client errors are logged at debug level, server errors and unmapped errors
// at error level with the request ID. Unmapped errors are answered with an
// opaque 500.
package handler
