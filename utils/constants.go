package utils

import (
	"time"
)

// Price import constants
const (
	// PriceImportBatchSize is the number of successfully staged rows between flushes
	PriceImportBatchSize = 100

	// ImportDateLayout is the expected layout for valid_from / valid_to cells
	ImportDateLayout = "2006-01-02"
)

// Price cache constants
const (
	// ActivePriceCacheKey is the redis key prefix for resolved active prices
	ActivePriceCacheKey = "active_price"

	// ActivePriceCacheTTL is the default time-to-live for cached active prices (10 minutes)
	ActivePriceCacheTTL = 10 * time.Minute
)
