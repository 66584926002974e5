// Package catalog is a small item and user API built on the handler engine.
//
// Models are declared in schema.yaml and loaded with NewRegistry. Routes
// cover every parameter source (path, query, header, cookie, JSON body, form
// and file), response shaping directives, union responses, a custom error
// mapping and deferred notifications:
//
//	reg, err := catalog.NewRegistry()
//	if err != nil {
//		return err
//	}
//	notifier, _ := catalog.NewFileLog("log.txt")
//	svc, err := catalog.New(reg, notifier, catalog.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	r.Mount("/", svc.Handler())
//
// Notifications are written after the response by a Notifier: FileLog,
// pg.NotificationLog or redis.StreamLog.
package catalog
