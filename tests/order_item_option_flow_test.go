package tests

import (
	"context"
	"testing"

	"github.com/glintshop/customer-options/app/dto"
	businessflow "github.com/glintshop/customer-options/business_flow"
	"github.com/glintshop/customer-options/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderItemEnv struct {
	products *fakeProductRepo
	options  *fakeOptionRepo
	values   *fakeValueRepo
	channels *fakeChannelRepo
	prices   *fakePriceRepo
	items    *fakeOrderItemRepo
	flow     businessflow.OrderItemOptionFlow
}

func newOrderItemEnv() *orderItemEnv {
	env := &orderItemEnv{
		products: newFakeProductRepo(),
		options:  newFakeOptionRepo(),
		values:   newFakeValueRepo(),
		channels: newFakeChannelRepo(),
		prices:   newFakePriceRepo(),
		items:    newFakeOrderItemRepo(),
	}

	env.products.add(1, "P1")
	env.channels.add(1, "WEB")
	env.options.add(1, "COLOR", models.OptionTypeSelect)
	env.options.add(2, "DELIVERY_DATE", models.OptionTypeDate)
	env.options.add(3, "ENGRAVING", models.OptionTypeText)
	env.values.add(1, "RED", 1)

	env.flow = businessflow.NewOrderItemOptionFlow(
		env.options, env.values, env.channels, env.products, env.prices,
		env.items, nil, nil,
	)
	return env
}

func (env *orderItemEnv) addPrice(productID *uint, amount int64, dr *models.DateRange) *models.CustomerOptionValuePrice {
	price := &models.CustomerOptionValuePrice{
		CustomerOptionValueID: 1,
		ChannelID:             1,
		ProductID:             productID,
		Type:                  models.PriceTypeFixedAmount,
		Amount:                dec(amount),
	}
	price.SetDateValid(dr)
	env.prices.upsert(price)
	return price
}

func TestCreateSelectOptionCopiesActivePrice(t *testing.T) {
	env := newOrderItemEnv()
	env.addPrice(nil, 500, nil)

	response, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "COLOR",
		Value:              "RED",
		ChannelCode:        "WEB",
	})
	require.NoError(t, err)

	option := response.Option
	assert.Equal(t, uint(42), option.OrderItemID)
	assert.Equal(t, "COLOR", option.CustomerOptionCode)
	assert.Equal(t, models.OptionTypeSelect, option.CustomerOptionType)
	require.NotNil(t, option.CustomerOptionValueCode)
	assert.Equal(t, "RED", *option.CustomerOptionValueCode)
	require.NotNil(t, option.PriceType)
	assert.Equal(t, models.PriceTypeFixedAmount, *option.PriceType)
	require.NotNil(t, option.FixedPrice)
	assert.Equal(t, "500", *option.FixedPrice)
}

func TestCreateSelectOptionPrefersProductPrice(t *testing.T) {
	env := newOrderItemEnv()
	productID := uint(1)
	env.addPrice(nil, 500, nil)
	env.addPrice(&productID, 300, nil)

	response, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "COLOR",
		Value:              "RED",
		ChannelCode:        "WEB",
		ProductCode:        strPtr("P1"),
	})
	require.NoError(t, err)

	require.NotNil(t, response.Option.FixedPrice)
	assert.Equal(t, "300", *response.Option.FixedPrice)
}

func TestCreateSelectOptionWithoutPrice(t *testing.T) {
	env := newOrderItemEnv()

	response, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "COLOR",
		Value:              "RED",
		ChannelCode:        "WEB",
	})
	require.NoError(t, err)

	assert.Nil(t, response.Option.PriceType)
	assert.Nil(t, response.Option.FixedPrice)
	assert.Nil(t, response.Option.PricePercent)
}

func TestCreateSelectOptionRejectsUnknownValue(t *testing.T) {
	env := newOrderItemEnv()

	_, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "COLOR",
		Value:              "MAGENTA",
		ChannelCode:        "WEB",
	})
	require.Error(t, err)
	assert.True(t, businessflow.IsCustomerOptionValueNotFound(err))
}

func TestCreateDateOptionNormalizesValue(t *testing.T) {
	env := newOrderItemEnv()

	response, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "DELIVERY_DATE",
		Value:              "2021-05-10",
		ChannelCode:        "WEB",
	})
	require.NoError(t, err)

	assert.Equal(t, "2021-05-10T00:00:00Z", response.Option.OptionValue)
	assert.Nil(t, response.Option.CustomerOptionValueCode)
}

func TestCreateDateOptionKeepsOffset(t *testing.T) {
	env := newOrderItemEnv()

	response, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "DELIVERY_DATE",
		Value:              "2021-05-10T14:30:00+02:00",
		ChannelCode:        "WEB",
	})
	require.NoError(t, err)

	assert.Equal(t, "2021-05-10T14:30:00+02:00", response.Option.OptionValue)
}

func TestCreateDateOptionRejectsGarbage(t *testing.T) {
	env := newOrderItemEnv()

	_, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "DELIVERY_DATE",
		Value:              "next tuesday",
		ChannelCode:        "WEB",
	})
	require.Error(t, err)
	assert.True(t, businessflow.IsInvalidDateValue(err))
}

func TestCreateTextOptionStoresRawValue(t *testing.T) {
	env := newOrderItemEnv()

	response, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "ENGRAVING",
		Value:              "To Sam, with love",
		ChannelCode:        "WEB",
	})
	require.NoError(t, err)

	assert.Equal(t, "To Sam, with love", response.Option.OptionValue)
	assert.Nil(t, response.Option.CustomerOptionValueCode)
	assert.Nil(t, response.Option.PriceType)
}

func TestCreateRejectsUnknownOption(t *testing.T) {
	env := newOrderItemEnv()

	_, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "GIFT_WRAP",
		Value:              "yes",
		ChannelCode:        "WEB",
	})
	require.Error(t, err)
	assert.True(t, businessflow.IsCustomerOptionNotFound(err))
}

func TestListForOrderItem(t *testing.T) {
	env := newOrderItemEnv()
	ctx := context.Background()

	for _, value := range []string{"RED"} {
		_, err := env.flow.CreateForOrderItem(ctx, &dto.CreateOrderItemOptionRequest{
			OrderItemID:        42,
			CustomerOptionCode: "COLOR",
			Value:              value,
			ChannelCode:        "WEB",
		})
		require.NoError(t, err)
	}
	_, err := env.flow.CreateForOrderItem(ctx, &dto.CreateOrderItemOptionRequest{
		OrderItemID:        43,
		CustomerOptionCode: "ENGRAVING",
		Value:              "other item",
		ChannelCode:        "WEB",
	})
	require.NoError(t, err)

	items, err := env.flow.ListForOrderItem(ctx, 42)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "COLOR", items[0].CustomerOptionCode)

	_, err = env.flow.ListForOrderItem(ctx, 0)
	require.Error(t, err)
}

func TestExpiredPriceIsNotCopied(t *testing.T) {
	env := newOrderItemEnv()

	past := mustRange(t, "2020-01-01", "2020-01-31")
	env.addPrice(nil, 500, past)

	response, err := env.flow.CreateForOrderItem(context.Background(), &dto.CreateOrderItemOptionRequest{
		OrderItemID:        42,
		CustomerOptionCode: "COLOR",
		Value:              "RED",
		ChannelCode:        "WEB",
	})
	require.NoError(t, err)

	assert.Nil(t, response.Option.PriceType)
	assert.Nil(t, response.Option.FixedPrice)
}
