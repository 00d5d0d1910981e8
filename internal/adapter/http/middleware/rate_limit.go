package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	limiterlib "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterPrefix = "payhub:limiter"

// RateLimit limits requests per client IP.
//
// formatted follows the limiter notation ("300-M", "10-S"). An empty value disables limiting.
// A nil client keeps counters in process memory.
func RateLimit(formatted string, client redis.UniversalClient) (gin.HandlerFunc, error) {
	if formatted == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}

	rate, err := limiterlib.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}

	var store limiterlib.Store
	if client != nil {
		store, err = sredis.NewStoreWithOptions(client, limiterlib.StoreOptions{Prefix: limiterPrefix})
		if err != nil {
			return nil, fmt.Errorf("init redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiterlib.StoreOptions{Prefix: limiterPrefix})
	}

	return mgin.NewMiddleware(limiterlib.New(store, rate)), nil
}
