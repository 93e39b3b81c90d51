package policy

import "errors"

var (
	// ErrCacheMiss политика компании отсутствует в кэше
	ErrCacheMiss = errors.New("policy.cache: cache miss")

	ErrRedis  = errors.New("policy.cache: redis error")
	ErrDecode = errors.New("policy.cache: failed to decode cached policy")
)
