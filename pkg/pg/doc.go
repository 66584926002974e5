// Package pg stores deferred notifications in PostgreSQL using the pgx/v5
// driver, with the table created by embedded goose migrations.
//
// # Building blocks
//
//   - Config is populated from environment variables via
//     github.com/caarlos0/env. Either PG_CONN_URL or the PG_USER, PG_PASSWORD,
//     PG_HOST and PG_DATABASE parts describe the database.
//   - Connect opens a *pgxpool.Pool, retrying with a growing delay until the
//     database answers a ping.
//   - Migrate runs the embedded migrations (or those in PG_MIGRATIONS_PATH)
//     through the database/sql bridge goose requires.
//   - NotificationLog writes and reads the notifications table.
//   - Healthcheck adapts a pool to an httpserver health probe.
//
// # Usage
//
//	cfg, err := config.Load[pg.Config]()
//	if err != nil {
//		return err
//	}
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		return err
//	}
//
//	notes := pg.NewNotificationLog(pool)
//	_ = notes.Write(ctx, "foo@example.com", "message to foo@example.com")
package pg
