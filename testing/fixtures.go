// Package testing provides test utilities and database setup for testing the pricing system
package testing

import (
	"fmt"
	"math/rand"

	"github.com/glintshop/customer-options/models"
	"github.com/glintshop/customer-options/utils"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestChannel creates a sales channel with a random code suffix
func (tf *TestFixtures) CreateTestChannel() (*models.Channel, error) {
	channel := &models.Channel{
		Code:         fmt.Sprintf("WEB_%06d", rand.Intn(1000000)),
		Name:         "Web Store",
		CurrencyCode: "USD",
	}
	if err := tf.DB.DB.Create(channel).Error; err != nil {
		return nil, fmt.Errorf("failed to create test channel: %w", err)
	}
	return channel, nil
}

// CreateTestProduct creates a product with a random code suffix
func (tf *TestFixtures) CreateTestProduct() (*models.Product, error) {
	product := &models.Product{
		Code: fmt.Sprintf("PRODUCT_%06d", rand.Intn(1000000)),
		Name: "Test Product",
	}
	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}
	return product, nil
}

// CreateTestCustomerOption creates an option of the given type with its
// default configuration
func (tf *TestFixtures) CreateTestCustomerOption(optionType string) (*models.CustomerOption, error) {
	configuration := make(map[string]any)
	for key, opt := range models.DefaultConfiguration(optionType) {
		configuration[key] = opt.Default
	}

	option := &models.CustomerOption{
		Code:          fmt.Sprintf("OPTION_%06d", rand.Intn(1000000)),
		Name:          "Test Option",
		Type:          optionType,
		Required:      utils.ToPtr(false),
		Configuration: configuration,
	}
	if err := tf.DB.DB.Create(option).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer option: %w", err)
	}
	return option, nil
}

// CreateTestCustomerOptionValue creates a value under the given option
func (tf *TestFixtures) CreateTestCustomerOptionValue(option *models.CustomerOption) (*models.CustomerOptionValue, error) {
	value := &models.CustomerOptionValue{
		Code:             fmt.Sprintf("VALUE_%06d", rand.Intn(1000000)),
		Name:             "Test Value",
		CustomerOptionID: option.ID,
	}
	if err := tf.DB.DB.Create(value).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer option value: %w", err)
	}
	return value, nil
}

// CreateTestPrice creates a fixed amount price for the value and channel,
// optionally scoped to a product and a validity window
func (tf *TestFixtures) CreateTestPrice(value *models.CustomerOptionValue, channel *models.Channel, product *models.Product, dateRange *models.DateRange) (*models.CustomerOptionValuePrice, error) {
	amount := decimal.NewFromInt(int64(rand.Intn(10000)) + 100)

	price := &models.CustomerOptionValuePrice{
		CustomerOptionValueID: value.ID,
		ChannelID:             channel.ID,
		Type:                  models.PriceTypeFixedAmount,
		Amount:                &amount,
	}
	if product != nil {
		price.ProductID = &product.ID
	}
	price.SetDateValid(dateRange)

	if err := tf.DB.DB.Create(price).Error; err != nil {
		return nil, fmt.Errorf("failed to create test price: %w", err)
	}
	return price, nil
}

// CreateTestPricingScenario creates a channel, product, select option with
// one value. Covers the common setup for resolver and import tests.
func (tf *TestFixtures) CreateTestPricingScenario() (*models.Channel, *models.Product, *models.CustomerOption, *models.CustomerOptionValue, error) {
	channel, err := tf.CreateTestChannel()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	product, err := tf.CreateTestProduct()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	option, err := tf.CreateTestCustomerOption(models.OptionTypeSelect)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	value, err := tf.CreateTestCustomerOptionValue(option)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return channel, product, option, value, nil
}
