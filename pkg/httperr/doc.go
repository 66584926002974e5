// Package httperr maps errors returned by binding, handlers and response
// shaping to HTTP responses.
//
// Applications register concrete error types at startup:
//
//	router := httperr.NewRouter()
//	httperr.MustRegister(router, http.StatusTeapot, func(_ *http.Request, e *UnicornError) any {
//		return map[string]string{"message": e.Error()}
//	})
//	router.Seal()
//
// Handle looks for a registered type anywhere in the wrapped error tree,
// outermost first. Without a mapping, a *binder.ValidationFailure becomes a 422
// with {"detail": [{"loc", "msg", "type", "ctx"}], "body": ...}, an HTTPError
// or *DetailError becomes its status with {"detail": ...} and its headers,
// and everything else becomes an opaque 500 with Result.Unhandled set so the
// caller logs it.
package httperr
