package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// tokenBucket refills at ARGV[1] tokens/s up to ARGV[2] and takes one token.
// Returns 1 when the request is allowed, 0 otherwise.
const tokenBucket = `
local key  = KEYS[1]
local rate = tonumber(ARGV[1])
local cap  = tonumber(ARGV[2])

local t = redis.call('TIME')
local now = (tonumber(t[1]) * 1000) + math.floor(tonumber(t[2]) / 1000)

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = cap
  ts = now
end

local elapsed = now - ts
if elapsed > 0 then
  tokens = math.min(cap, tokens + (elapsed / 1000.0) * rate)
end

local allowed = 0
if tokens >= 1.0 then
  tokens = tokens - 1.0
  allowed = 1
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now)
redis.call('PEXPIRE', key, math.ceil((cap / rate) * 1000.0))
return allowed
`

// RedisStore is a RateLimiterStore shared by every replica pointing at the
// same Redis. Redis errors let the request through.
type RedisStore struct {
	rdb     redis.Scripter
	script  *redis.Script
	prefix  string
	rate    rate.Limit
	burst   int
	timeout time.Duration
	log     *zap.Logger
}

func NewRedisStore(rdb redis.Scripter, prefix string, rps rate.Limit, burst int, log *zap.Logger) *RedisStore {
	if burst < 1 {
		burst = 1
	}
	return &RedisStore{
		rdb:     rdb,
		script:  redis.NewScript(tokenBucket),
		prefix:  prefix,
		rate:    rps,
		burst:   burst,
		timeout: 150 * time.Millisecond,
		log:     log.Named("ratelimit"),
	}
}

func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	allowed, err := s.script.Run(ctx, s.rdb, []string{s.prefix + ":" + identifier},
		strconv.FormatFloat(float64(s.rate), 'f', -1, 64),
		strconv.Itoa(s.burst),
	).Int()
	if err != nil {
		s.log.Warn("redis rate limit unavailable", zap.String("id", identifier), zap.Error(err))
		return true, nil
	}
	return allowed == 1, nil
}
