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

func newOptionFlow() (businessflow.CustomerOptionFlow, *fakeOptionRepo, *fakeValueRepo) {
	options := newFakeOptionRepo()
	values := newFakeValueRepo()
	return businessflow.NewCustomerOptionFlow(options, values), options, values
}

func TestListOptionTypesCatalog(t *testing.T) {
	flow, _, _ := newOptionFlow()

	response := flow.ListOptionTypes(context.Background())
	require.NotNil(t, response)
	assert.Len(t, response.Items, 11)

	byType := make(map[string]dto.OptionTypeItem)
	for _, item := range response.Items {
		byType[item.Type] = item
	}

	sel := byType[models.OptionTypeSelect]
	assert.True(t, sel.IsSelect)
	assert.False(t, sel.IsDate)
	assert.Equal(t, "choice", sel.Widget)
	assert.Empty(t, sel.Configuration)

	date := byType[models.OptionTypeDatetime]
	assert.True(t, date.IsDate)
	assert.Equal(t, "datetime", date.Widget)
	assert.Contains(t, date.Configuration, "min_date")

	text := byType[models.OptionTypeText]
	assert.Equal(t, "number", text.Configuration["max_length"].Kind)
}

func TestCreateCustomerOptionSeedsConfiguration(t *testing.T) {
	flow, options, _ := newOptionFlow()

	response, err := flow.CreateCustomerOption(context.Background(), &dto.CreateCustomerOptionRequest{
		Code:     "engraving",
		Name:     "Engraving",
		Type:     models.OptionTypeText,
		Required: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "engraving", response.Option.Code)
	assert.True(t, response.Option.Required)
	assert.Contains(t, response.Option.Configuration, "min_length")
	assert.Contains(t, response.Option.Configuration, "max_length")
	assert.Empty(t, response.Option.ValueCodes)

	stored, err := options.ByCode(context.Background(), "engraving")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.OptionTypeText, stored.Type)
}

func TestCreateSelectOptionCreatesValues(t *testing.T) {
	flow, _, values := newOptionFlow()

	response, err := flow.CreateCustomerOption(context.Background(), &dto.CreateCustomerOptionRequest{
		Code:   "color",
		Name:   "Color",
		Type:   models.OptionTypeSelect,
		Values: []string{"red", "green", "blue"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"red", "green", "blue"}, response.Option.ValueCodes)

	stored, err := values.ListByOption(context.Background(), response.Option.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestCreateCustomerOptionRejectsUnknownType(t *testing.T) {
	flow, _, _ := newOptionFlow()

	_, err := flow.CreateCustomerOption(context.Background(), &dto.CreateCustomerOptionRequest{
		Code: "color",
		Name: "Color",
		Type: "radio",
	})
	require.Error(t, err)
	assert.True(t, businessflow.IsInvalidOptionType(err))
}

func TestCreateCustomerOptionRejectsDuplicateCode(t *testing.T) {
	flow, _, _ := newOptionFlow()
	ctx := context.Background()

	_, err := flow.CreateCustomerOption(ctx, &dto.CreateCustomerOptionRequest{
		Code: "color",
		Name: "Color",
		Type: models.OptionTypeSelect,
	})
	require.NoError(t, err)

	_, err = flow.CreateCustomerOption(ctx, &dto.CreateCustomerOptionRequest{
		Code: "color",
		Name: "Colour",
		Type: models.OptionTypeSelect,
	})
	require.Error(t, err)
	assert.True(t, businessflow.IsOptionCodeTaken(err))
}

func TestCreateCustomerOptionRequiresCodeAndName(t *testing.T) {
	flow, _, _ := newOptionFlow()

	_, err := flow.CreateCustomerOption(context.Background(), &dto.CreateCustomerOptionRequest{
		Type: models.OptionTypeText,
	})
	require.Error(t, err)
}

func TestListCustomerOptionsIncludesValues(t *testing.T) {
	flow, _, _ := newOptionFlow()
	ctx := context.Background()

	_, err := flow.CreateCustomerOption(ctx, &dto.CreateCustomerOptionRequest{
		Code:   "color",
		Name:   "Color",
		Type:   models.OptionTypeSelect,
		Values: []string{"red", "blue"},
	})
	require.NoError(t, err)

	_, err = flow.CreateCustomerOption(ctx, &dto.CreateCustomerOptionRequest{
		Code: "engraving",
		Name: "Engraving",
		Type: models.OptionTypeText,
	})
	require.NoError(t, err)

	response, err := flow.ListCustomerOptions(ctx)
	require.NoError(t, err)
	require.Len(t, response.Items, 2)

	byCode := make(map[string]dto.CustomerOptionDTO)
	for _, item := range response.Items {
		byCode[item.Code] = item
	}
	assert.ElementsMatch(t, []string{"red", "blue"}, byCode["color"].ValueCodes)
	assert.Empty(t, byCode["engraving"].ValueCodes)
}
