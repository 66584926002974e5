package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
	ErrEmptyStream                  = errors.New("empty redis stream key")
	ErrStreamWrite                  = errors.New("failed to append to redis stream")
	ErrStreamRead                   = errors.New("failed to read redis stream")
)
