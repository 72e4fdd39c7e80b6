package agenda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/olharstudio/booking-assistant/internal/engine"
	"github.com/olharstudio/booking-assistant/pkg/logging"
)

const (
	openDatesKey    = "agenda:open_dates"
	defaultCacheTTL = 5 * time.Minute
)

// CachedGateway wraps a Gateway with a short-lived Redis cache for the open
// dates listing, the one query every date answer triggers. Slot lookups stay
// uncached: they must be fresh at confirmation time. Bookings and
// cancellations invalidate the cache so a just-filled date disappears within
// one conversation turn.
type CachedGateway struct {
	engine.Gateway
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCached wraps the inner gateway with the open-dates cache.
func NewCached(inner engine.Gateway, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedGateway {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedGateway{
		Gateway: inner,
		redis:   client,
		ttl:     ttl,
		logger:  logger,
	}
}

// OpenDates serves from the cache when possible. Cache failures fall back to
// the inner gateway; a broken cache must never break availability answers.
func (c *CachedGateway) OpenDates(ctx context.Context) ([]string, error) {
	data, err := c.redis.Get(ctx, openDatesKey).Bytes()
	if err == nil {
		var dates []string
		if jsonErr := json.Unmarshal(data, &dates); jsonErr == nil {
			return dates, nil
		}
		c.logger.Warn("discarding corrupt open-dates cache entry")
		_ = c.redis.Del(ctx, openDatesKey).Err()
	} else if err != redis.Nil {
		c.logger.Warn("open-dates cache read failed", "error", err)
	}

	dates, err := c.Gateway.OpenDates(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(dates); err == nil {
		if err := c.redis.Set(ctx, openDatesKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("open-dates cache write failed", "error", err)
		}
	}
	return dates, nil
}

// Book delegates and drops the cache on success so the freed or filled date
// listing is rebuilt on the next question.
func (c *CachedGateway) Book(ctx context.Context, req engine.BookingRequest) (engine.BookResult, error) {
	result, err := c.Gateway.Book(ctx, req)
	if err == nil && result == engine.BookBooked {
		c.invalidate(ctx)
	}
	return result, err
}

// Cancel delegates and drops the cache on success.
func (c *CachedGateway) Cancel(ctx context.Context, phone string) (bool, error) {
	ok, err := c.Gateway.Cancel(ctx, phone)
	if err == nil && ok {
		c.invalidate(ctx)
	}
	return ok, err
}

func (c *CachedGateway) invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, openDatesKey).Err(); err != nil {
		c.logger.Warn("open-dates cache invalidation failed", "error", err)
	}
}

var _ engine.Gateway = (*CachedGateway)(nil)
