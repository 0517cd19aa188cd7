package rates

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmynk/splitsmart/internal/apperrors"
)

// DefaultTTL is how long a looked-up rate is reused.
const DefaultTTL = 10 * time.Minute

type cachedRate struct {
	rate      float64
	expiresAt time.Time
}

// Converter converts amounts with rates from a Provider, caching each pair
// for a TTL.
type Converter struct {
	provider Provider
	ttl      time.Duration
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cachedRate
}

// NewConverter creates a converter. A non-positive ttl disables caching.
func NewConverter(provider Provider, ttl time.Duration) *Converter {
	return &Converter{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
		cache:    make(map[string]cachedRate),
	}
}

// Convert returns amount expressed in to, along with the rate used. When
// from and to are the same currency the amount is returned unchanged and the
// rate is nil. A failed lookup is a RateUnavailable error.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) (float64, *float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil, nil
	}

	rate, err := c.rate(ctx, from, to)
	if err != nil {
		slog.Warn("Exchange rate lookup failed", "from", from, "to", to, "error", err)
		return 0, nil, apperrors.New(apperrors.RateUnavailable, "originalCurrency",
			"Could not get exchange rate for %s to %s", from, to)
	}
	return amount * rate, &rate, nil
}

func (c *Converter) rate(ctx context.Context, from, to string) (float64, error) {
	key := from + ":" + to

	if c.ttl > 0 {
		c.mu.Lock()
		entry, ok := c.cache[key]
		if ok && c.now().Before(entry.expiresAt) {
			c.mu.Unlock()
			return entry.rate, nil
		}
		delete(c.cache, key)
		c.mu.Unlock()
	}

	rate, err := c.provider.Rate(ctx, from, to)
	if err != nil {
		return 0, err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.cache[key] = cachedRate{rate: rate, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return rate, nil
}
