// Package redis connects to Redis with go-redis and appends deferred
// notifications to a Redis stream.
//
// Connect retries the initial ping using Config; Healthcheck adapts a client
// to an httpserver health probe; StreamLog writes one XADD entry per
// notification with the fields "email" and "message", trimming the stream
// approximately to Config.StreamMaxLen.
//
// # Usage
//
//	cfg, err := config.Load[redis.Config]()
//	if err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	notes, err := redis.NewStreamLog(client, cfg)
//	if err != nil {
//		return err
//	}
//	_ = notes.Write(ctx, "foo@example.com", "message to foo@example.com")
//
// Entries can be consumed with XREAD or read back with StreamLog.Recent.
package redis
