// Package services provides collaborator services consumed by the business flows
package services

import (
	"context"
	"fmt"

	"github.com/glintshop/customer-options/app/dto"
	"github.com/glintshop/customer-options/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// PriceValidator runs entity-level validation over a product's candidate
// price set and reports zero or more violations. The candidate set is an
// explicit snapshot (the product's other prices plus the price under
// consideration) so validation never mutates the aggregate.
type PriceValidator interface {
	ValidatePrices(ctx context.Context, product *models.Product, prices []*models.CustomerOptionValuePrice) []dto.Violation
}

type priceValidator struct {
	validate *validator.Validate
}

// NewPriceValidator creates the default price validator
func NewPriceValidator() PriceValidator {
	return &priceValidator{
		validate: validator.New(),
	}
}

// ValidatePrices checks every candidate price individually and the set as
// a whole. Rules:
//   - Type must be one of the known price types (struct tag)
//   - fixed_amount prices need a non-negative Amount, percent prices a
//     non-negative Percent
//   - two prices for the same (value, channel) scope must not have
//     overlapping validity windows; a missing window counts as always
func (v *priceValidator) ValidatePrices(ctx context.Context, product *models.Product, prices []*models.CustomerOptionValuePrice) []dto.Violation {
	var violations []dto.Violation

	for i, price := range prices {
		path := fmt.Sprintf("prices[%d]", i)

		if err := v.validate.StructCtx(ctx, price); err != nil {
			if fieldErrors, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range fieldErrors {
					violations = append(violations, dto.Violation{
						PropertyPath: fmt.Sprintf("%s.%s", path, fe.Field()),
						Message:      fieldErrorMessage(fe),
					})
				}
			} else {
				violations = append(violations, dto.Violation{
					PropertyPath: path,
					Message:      err.Error(),
				})
			}
			continue
		}

		violations = append(violations, checkAmountFields(path, price)...)
	}

	violations = append(violations, checkOverlaps(prices)...)

	return violations
}

func checkAmountFields(path string, price *models.CustomerOptionValuePrice) []dto.Violation {
	var violations []dto.Violation

	switch price.Type {
	case models.PriceTypeFixedAmount:
		if price.Amount == nil {
			violations = append(violations, dto.Violation{
				PropertyPath: path + ".amount",
				Message:      "amount is required for fixed_amount prices",
			})
		} else if price.Amount.LessThan(decimal.Zero) {
			violations = append(violations, dto.Violation{
				PropertyPath: path + ".amount",
				Message:      "amount must not be negative",
			})
		}
	case models.PriceTypePercent:
		if price.Percent == nil {
			violations = append(violations, dto.Violation{
				PropertyPath: path + ".percent",
				Message:      "percent is required for percent prices",
			})
		} else if price.Percent.LessThan(decimal.Zero) {
			violations = append(violations, dto.Violation{
				PropertyPath: path + ".percent",
				Message:      "percent must not be negative",
			})
		}
	}

	return violations
}

// checkOverlaps flags pairs of prices in the same (value, channel,
// product) scope whose validity windows can both apply at once.
func checkOverlaps(prices []*models.CustomerOptionValuePrice) []dto.Violation {
	var violations []dto.Violation

	for i := 0; i < len(prices); i++ {
		for j := i + 1; j < len(prices); j++ {
			a, b := prices[i], prices[j]
			if a.CustomerOptionValueID != b.CustomerOptionValueID || a.ChannelID != b.ChannelID {
				continue
			}
			if !sameProductScope(a.ProductID, b.ProductID) {
				continue
			}

			ra, rb := a.DateValid(), b.DateValid()
			overlap := false
			switch {
			case ra == nil && rb == nil:
				overlap = true
			case ra == nil || rb == nil:
				// An open-ended price coexisting with a dated one is
				// ambiguous for the dated window
				overlap = true
			default:
				overlap = ra.Overlaps(rb)
			}

			if overlap {
				violations = append(violations, dto.Violation{
					PropertyPath: fmt.Sprintf("prices[%d].dateValid", j),
					Message:      "price validity overlaps another price for the same value and channel",
				})
			}
		}
	}

	return violations
}

func sameProductScope(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
