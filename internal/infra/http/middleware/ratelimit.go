package middleware

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterPrefix = "lead_outreach_limiter"

// NewLimiterStore returns a redis-backed store when redisURL is set, so
// limits are shared between replicas, and an in-process store otherwise.
func NewLimiterStore(redisURL string) (limiter.Store, error) {
	if redisURL == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterPrefix}), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	store, err := redisstore.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{Prefix: limiterPrefix})
	if err != nil {
		return nil, fmt.Errorf("create redis limiter store: %w", err)
	}
	return store, nil
}

// RateLimit limits requests per caller: the authenticated user when there
// is one, the client IP otherwise. name separates the counters of
// different limiters sharing a store.
func RateLimit(name, rate string, store limiter.Store) (func(http.Handler) http.Handler, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	instance := limiter.New(store, parsed, limiter.WithTrustForwardHeader(true))

	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(func(r *http.Request) string {
			if p, ok := PrincipalFrom(r.Context()); ok {
				return name + ":user:" + p.UserID
			}
			return name + ":ip:" + instance.GetIPKey(r)
		}),
		stdlibmw.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
		}),
		stdlibmw.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusInternalServerError, "rate limiter unavailable")
		}),
	)
	return mw.Handler, nil
}
