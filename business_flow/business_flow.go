// Package businessflow contains the business logic for the application.
package businessflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/glintshop/customer-options/config"
	"github.com/glintshop/customer-options/utils"
)

// redisKey derives a namespaced cache key
func redisKey(cfg config.CacheConfig, parts ...string) string {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "customer_options"
	}
	return fmt.Sprintf("%s:%s", prefix, strings.Join(parts, ":"))
}

// activePriceCacheKey identifies one resolved price by its scope codes.
// A missing product scope is encoded as "-" so channel-wide and
// product-specific entries never collide.
func activePriceCacheKey(cfg config.CacheConfig, channelCode, optionCode, valueCode string, productCode *string) string {
	product := "-"
	if productCode != nil {
		product = *productCode
	}
	return redisKey(cfg, utils.ActivePriceCacheKey, channelCode, optionCode, valueCode, product)
}

// parseImportDate accepts ISO dates and full RFC3339 timestamps, always
// normalizing to UTC.
func parseImportDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(utils.ImportDateLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as date: %w", raw, err)
	}
	return t.UTC(), nil
}

// parseDateValue parses shopper-entered date values with timezone
// awareness: an RFC3339 timestamp keeps its offset, a bare date is read
// as midnight UTC.
func parseDateValue(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04:05 -07:00", raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(utils.ImportDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateValue, raw)
	}
	return t.UTC(), nil
}
