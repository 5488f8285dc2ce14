package tests

import (
	"testing"
	"time"

	"github.com/glintshop/customer-options/models"
	"github.com/glintshop/customer-options/repository"
	testingutil "github.com/glintshop/customer-options/testing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withDB runs fn against a throwaway postgres database, skipping the test
// when no server is reachable.
func withDB(t *testing.T, fn func(t *testing.T, tdb *testingutil.TestDB)) {
	t.Helper()

	tdb, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	defer func() {
		if cleanupErr := tdb.TeardownTestDB(); cleanupErr != nil {
			t.Logf("warning: failed to cleanup test database: %v", cleanupErr)
		}
	}()

	fn(t, tdb)
}

func TestProductRepositoryByCode(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(tdb)
		repo := repository.NewProductRepository(tdb.DB)

		created, err := fixtures.CreateTestProduct()
		require.NoError(t, err)

		found, err := repo.ByCode(ctx, created.Code)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.NotEqual(t, "", found.UUID.String())

		missing, err := repo.ByCode(ctx, "NO_SUCH_PRODUCT")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestCustomerOptionValueRepositoryScopesByOption(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(tdb)
		repo := repository.NewCustomerOptionValueRepository(tdb.DB)

		optionA, err := fixtures.CreateTestCustomerOption(models.OptionTypeSelect)
		require.NoError(t, err)
		optionB, err := fixtures.CreateTestCustomerOption(models.OptionTypeSelect)
		require.NoError(t, err)

		valueA, err := fixtures.CreateTestCustomerOptionValue(optionA)
		require.NoError(t, err)

		found, err := repo.ByCodeAndOption(ctx, valueA.Code, optionA.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, valueA.ID, found.ID)

		// Same code under a different option does not match
		other, err := repo.ByCodeAndOption(ctx, valueA.Code, optionB.ID)
		require.NoError(t, err)
		assert.Nil(t, other)

		list, err := repo.ListByOption(ctx, optionA.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestPriceRepositoryScopeQueries(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(tdb)
		repo := repository.NewCustomerOptionValuePriceRepository(tdb.DB)

		channel, product, _, value, err := fixtures.CreateTestPricingScenario()
		require.NoError(t, err)

		channelWide, err := fixtures.CreateTestPrice(value, channel, nil, nil)
		require.NoError(t, err)
		productScoped, err := fixtures.CreateTestPrice(value, channel, product, nil)
		require.NoError(t, err)

		// Nil product matches only channel-wide rows
		rows, err := repo.ByValueChannelProduct(ctx, value.ID, channel.ID, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, channelWide.ID, rows[0].ID)

		rows, err = repo.ByValueChannelProduct(ctx, value.ID, channel.ID, &product.ID)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, productScoped.ID, rows[0].ID)

		byProduct, err := repo.ListByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Len(t, byProduct, 1)
	})
}

func TestPriceRepositoryActiveResolution(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(tdb)
		repo := repository.NewCustomerOptionValuePriceRepository(tdb.DB)

		channel, product, _, value, err := fixtures.CreateTestPricingScenario()
		require.NoError(t, err)

		now := time.Now().UTC()
		window, err := models.NewDateRange(now.AddDate(0, 0, -1), now.AddDate(0, 0, 1))
		require.NoError(t, err)

		channelWide, err := fixtures.CreateTestPrice(value, channel, nil, nil)
		require.NoError(t, err)
		productScoped, err := fixtures.CreateTestPrice(value, channel, product, window)
		require.NoError(t, err)

		// Product-specific beats channel-wide
		active, err := repo.ActiveForValueChannel(ctx, value.ID, channel.ID, &product.ID, now)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, productScoped.ID, active.ID)

		// Without a product the channel-wide price applies
		active, err = repo.ActiveForValueChannel(ctx, value.ID, channel.ID, nil, now)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, channelWide.ID, active.ID)

		// Outside the window the product-specific price falls away
		active, err = repo.ActiveForValueChannel(ctx, value.ID, channel.ID, &product.ID, now.AddDate(0, 1, 0))
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, channelWide.ID, active.ID)
	})
}

func TestPriceIdentityTupleIsUnique(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		fixtures := testingutil.NewTestFixtures(tdb)

		channel, product, _, value, err := fixtures.CreateTestPricingScenario()
		require.NoError(t, err)

		// Null columns never collide in a postgres unique index, so the
		// guarantee only holds for fully bound tuples
		window, err := models.NewDateRange(
			time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2021, 5, 31, 0, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)

		_, err = fixtures.CreateTestPrice(value, channel, product, window)
		require.NoError(t, err)

		amount := decimal.NewFromInt(999)
		duplicate := &models.CustomerOptionValuePrice{
			CustomerOptionValueID: value.ID,
			ChannelID:             channel.ID,
			ProductID:             &product.ID,
			Type:                  models.PriceTypeFixedAmount,
			Amount:                &amount,
		}
		duplicate.SetDateValid(window)
		err = tdb.DB.Create(duplicate).Error
		assert.Error(t, err, "identity tuple must be unique")
	})
}

func TestGormUnitOfWorkFlushBatches(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(tdb)
		repo := repository.NewCustomerOptionValuePriceRepository(tdb.DB)
		uow := repository.NewGormUnitOfWork(tdb.DB)

		channel, product, _, value, err := fixtures.CreateTestPricingScenario()
		require.NoError(t, err)

		amount := decimal.NewFromInt(100)
		price := &models.CustomerOptionValuePrice{
			CustomerOptionValueID: value.ID,
			ChannelID:             channel.ID,
			ProductID:             &product.ID,
			Type:                  models.PriceTypeFixedAmount,
			Amount:                &amount,
		}

		uow.Stage(price)
		assert.Equal(t, 1, uow.StagedCount())

		require.NoError(t, uow.Flush(ctx))
		assert.Equal(t, 0, uow.StagedCount())
		assert.NotZero(t, price.ID)

		// Staging the persisted entity again updates it in place
		updated := decimal.NewFromInt(200)
		price.Amount = &updated
		uow.Stage(price)
		require.NoError(t, uow.Flush(ctx))

		count, err := repo.Count(ctx, models.CustomerOptionValuePriceFilter{
			CustomerOptionValueID: &value.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		stored, err := repo.ByID(ctx, price.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.True(t, stored.Amount.Equal(updated))
	})
}

func TestOrderItemOptionRepositoryListByOrderItem(t *testing.T) {
	withDB(t, func(t *testing.T, tdb *testingutil.TestDB) {
		ctx := testingutil.CreateTestContext()
		fixtures := testingutil.NewTestFixtures(tdb)
		repo := repository.NewOrderItemOptionRepository(tdb.DB)

		option, err := fixtures.CreateTestCustomerOption(models.OptionTypeText)
		require.NoError(t, err)

		for _, orderItemID := range []uint{7, 7, 8} {
			item := &models.OrderItemOption{
				OrderItemID:        orderItemID,
				CustomerOptionID:   option.ID,
				CustomerOptionCode: option.Code,
				CustomerOptionType: option.Type,
				OptionValue:        "engraved text",
			}
			require.NoError(t, repo.Save(ctx, item))
		}

		items, err := repo.ListByOrderItem(ctx, 7)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}
