// Package dto contains data transfer objects exchanged between flows and callers
package dto

import (
	"github.com/shopspring/decimal"
)

// PriceImportRow is one unit of import describing a single price
// assignment. Dates arrive as raw strings; absent cells are nil.
type PriceImportRow struct {
	ProductCode             string           `json:"product_code"`
	ValidFrom               *string          `json:"valid_from,omitempty"`
	ValidTo                 *string          `json:"valid_to,omitempty"`
	CustomerOptionCode      string           `json:"customer_option_code"`
	CustomerOptionValueCode string           `json:"customer_option_value_code"`
	ChannelCode             string           `json:"channel_code"`
	Type                    string           `json:"type"`
	Amount                  *decimal.Decimal `json:"amount,omitempty"`
	Percent                 *decimal.Decimal `json:"percent,omitempty"`
}

// Violation is a structured business-rule validation failure.
type Violation struct {
	PropertyPath string `json:"property_path"`
	Message      string `json:"message"`
}

// PriceImportRowError explains one failed row. Violations is only set for
// constraint-violation failures; Message is always set.
type PriceImportRowError struct {
	Violations []Violation    `json:"violations,omitempty"`
	Data       PriceImportRow `json:"data"`
	Message    string         `json:"message"`
}

// PriceImportResult is the outcome of one batch import. Errors are keyed
// by product code; rows for the same product accumulate in input order.
// Immutable after the batch returns.
type PriceImportResult struct {
	ImportID  string                           `json:"import_id"`
	Succeeded int                              `json:"succeeded"`
	Failed    int                              `json:"failed"`
	Errors    map[string][]PriceImportRowError `json:"errors,omitempty"`
}
