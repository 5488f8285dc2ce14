package businessflow

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/glintshop/customer-options/app/dto"
	"github.com/glintshop/customer-options/app/services"
	"github.com/glintshop/customer-options/config"
	"github.com/glintshop/customer-options/models"
	"github.com/glintshop/customer-options/repository"
	"github.com/glintshop/customer-options/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PriceImportFlow imports option value price assignments in bulk. A batch
// never fails as a whole because of bad rows: every row is processed, row
// failures are collected in the result, and only a collaborator-level
// fault (a failed flush) aborts the batch.
type PriceImportFlow interface {
	Import(ctx context.Context, rows []dto.PriceImportRow) (*dto.PriceImportResult, error)
	ImportFromCSV(ctx context.Context, r io.Reader) (*dto.PriceImportResult, error)
	ImportFromExcel(ctx context.Context, r io.Reader) (*dto.PriceImportResult, error)
}

type PriceImportFlowImpl struct {
	productRepo repository.ProductRepository
	optionRepo  repository.CustomerOptionRepository
	valueRepo   repository.CustomerOptionValueRepository
	channelRepo repository.ChannelRepository
	priceRepo   repository.CustomerOptionValuePriceRepository
	validator   services.PriceValidator
	uow         repository.UnitOfWork
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	batchSize   int
}

func NewPriceImportFlow(
	productRepo repository.ProductRepository,
	optionRepo repository.CustomerOptionRepository,
	valueRepo repository.CustomerOptionValueRepository,
	channelRepo repository.ChannelRepository,
	priceRepo repository.CustomerOptionValuePriceRepository,
	validator services.PriceValidator,
	uow repository.UnitOfWork,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	batchSize int,
) PriceImportFlow {
	if batchSize <= 0 {
		batchSize = utils.PriceImportBatchSize
	}
	return &PriceImportFlowImpl{
		productRepo: productRepo,
		optionRepo:  optionRepo,
		valueRepo:   valueRepo,
		channelRepo: channelRepo,
		priceRepo:   priceRepo,
		validator:   validator,
		uow:         uow,
		rc:          rc,
		cacheConfig: cacheConfig,
		batchSize:   batchSize,
	}
}

// batchState is the working memory of one Import invocation: the
// memoized product lookups and every price staged so far. Later rows
// must see earlier staged prices even before they are flushed, both for
// find-or-create matching and for aggregate validation.
type batchState struct {
	products map[string]*models.Product
	staged   []*models.CustomerOptionValuePrice
}

func newBatchState() *batchState {
	return &batchState{products: make(map[string]*models.Product)}
}

// track remembers a staged price once; re-staging the same entity in a
// later row must not duplicate it in the snapshot.
func (s *batchState) track(price *models.CustomerOptionValuePrice) {
	for _, known := range s.staged {
		if known == price {
			return
		}
	}
	s.staged = append(s.staged, price)
}

// contains reports whether the row is already part of the staged set,
// either as the same entity or as a flushed copy with the same ID.
func (s *batchState) contains(row *models.CustomerOptionValuePrice) bool {
	for _, known := range s.staged {
		if known == row || (row.ID != 0 && known.ID == row.ID) {
			return true
		}
	}
	return false
}

// stagedForScope returns staged prices for the exact (value, channel,
// product) scope.
func (s *batchState) stagedForScope(valueID, channelID uint, productID *uint) []*models.CustomerOptionValuePrice {
	var out []*models.CustomerOptionValuePrice
	for _, price := range s.staged {
		if price.CustomerOptionValueID == valueID && price.ChannelID == channelID && productScopeEqual(price.ProductID, productID) {
			out = append(out, price)
		}
	}
	return out
}

// stagedForProduct returns staged prices scoped to the product.
func (s *batchState) stagedForProduct(productID uint) []*models.CustomerOptionValuePrice {
	var out []*models.CustomerOptionValuePrice
	for _, price := range s.staged {
		if price.ProductID != nil && *price.ProductID == productID {
			out = append(out, price)
		}
	}
	return out
}

func productScopeEqual(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Import processes rows in order. Products are looked up through a
// memoized cache living for this invocation only. Successfully staged
// rows are flushed every batchSize successes and once at the end.
func (f *PriceImportFlowImpl) Import(ctx context.Context, rows []dto.PriceImportRow) (*dto.PriceImportResult, error) {
	start := utils.UTCNow()

	state := newBatchState()
	touchedKeys := make(map[string]struct{})

	succeeded := 0
	failed := 0
	errorsByProduct := make(map[string][]dto.PriceImportRowError)

	for _, row := range rows {
		cacheKey, err := f.processRow(ctx, row, state)
		if err == nil {
			succeeded++
			importRowsTotal.WithLabelValues(outcomeSucceeded).Inc()
			if cacheKey != "" {
				touchedKeys[cacheKey] = struct{}{}
			}
			if succeeded%f.batchSize == 0 {
				if flushErr := f.uow.Flush(ctx); flushErr != nil {
					return nil, NewBusinessError("PRICE_IMPORT_FLUSH_FAILED", "Failed to flush staged prices", flushErr)
				}
				importFlushesTotal.Inc()
			}
			continue
		}

		failed++
		importRowsTotal.WithLabelValues(rowOutcomeLabel(err)).Inc()
		errorsByProduct[row.ProductCode] = append(errorsByProduct[row.ProductCode], rowError(row, err))
	}

	if err := f.uow.Flush(ctx); err != nil {
		return nil, NewBusinessError("PRICE_IMPORT_FLUSH_FAILED", "Failed to flush staged prices", err)
	}
	importFlushesTotal.Inc()

	f.invalidatePriceCache(ctx, touchedKeys)
	importDuration.Observe(utils.UTCNow().Sub(start).Seconds())

	result := &dto.PriceImportResult{
		ImportID:  uuid.New().String(),
		Succeeded: succeeded,
		Failed:    failed,
	}
	if len(errorsByProduct) > 0 {
		result.Errors = errorsByProduct
	}
	return result, nil
}

// processRow handles a single row and returns the cache key of the
// touched price tuple. Any returned error is a row-level failure; the
// row has staged nothing when it fails.
func (f *PriceImportFlowImpl) processRow(ctx context.Context, row dto.PriceImportRow, state *batchState) (string, error) {
	product, err := f.getProduct(ctx, row.ProductCode, state.products)
	if err != nil {
		return "", err
	}
	if product == nil {
		return "", NewBusinessErrorf("PRICE_IMPORT_PRODUCT_NOT_FOUND",
			`Product with code "%s" not found`, ErrProductNotFound, row.ProductCode)
	}

	// A date range exists only when both bounds are present
	var dateRange *models.DateRange
	if row.ValidFrom != nil && row.ValidTo != nil {
		validFrom, err := parseImportDate(*row.ValidFrom)
		if err != nil {
			return "", NewBusinessError("PRICE_IMPORT_INVALID_DATE", err.Error(), err)
		}
		validTo, err := parseImportDate(*row.ValidTo)
		if err != nil {
			return "", NewBusinessError("PRICE_IMPORT_INVALID_DATE", err.Error(), err)
		}
		dateRange, err = models.NewDateRange(validFrom, validTo)
		if err != nil {
			return "", NewBusinessError("PRICE_IMPORT_INVALID_DATE_RANGE", err.Error(), err)
		}
	}

	price, err := f.getPrice(ctx, row.CustomerOptionCode, row.CustomerOptionValueCode, row.ChannelCode, product, dateRange, state)
	if err != nil {
		return "", err
	}

	price.SetDateValid(dateRange)
	price.Type = row.Type
	price.Amount = row.Amount
	price.Percent = row.Percent

	// Validate against an explicit snapshot: the product's other prices,
	// persisted or staged earlier in this batch, plus this candidate. The
	// real aggregate is never mutated before validation passes.
	candidates, err := f.candidateSet(ctx, product, price, state)
	if err != nil {
		return "", err
	}
	if violations := f.validator.ValidatePrices(ctx, product, candidates); len(violations) > 0 {
		return "", &ConstraintViolationError{Violations: violations}
	}

	f.uow.Stage(price)
	state.track(price)

	var cacheKey string
	if f.cacheConfig != nil {
		productCode := row.ProductCode
		cacheKey = activePriceCacheKey(*f.cacheConfig, row.ChannelCode, row.CustomerOptionCode, row.CustomerOptionValueCode, &productCode)
	}
	return cacheKey, nil
}

// getProduct memoizes product lookups for the duration of one import
// call, including negative results.
func (f *PriceImportFlowImpl) getProduct(ctx context.Context, code string, products map[string]*models.Product) (*models.Product, error) {
	if product, ok := products[code]; ok {
		return product, nil
	}
	product, err := f.productRepo.ByCode(ctx, code)
	if err != nil {
		return nil, NewBusinessErrorf("PRICE_IMPORT_PRODUCT_LOOKUP_FAILED",
			`Failed to look up product with code "%s"`, err, code)
	}
	products[code] = product
	return product, nil
}

// getPrice finds the price matching (value, channel, product) and the
// exact date range, or constructs a fresh entity when none exists. The
// candidates span persisted rows and rows staged earlier in this batch,
// so one batch never creates two entities for one identity tuple. More
// than one match is a data-integrity failure, not a tie to break.
func (f *PriceImportFlowImpl) getPrice(ctx context.Context, optionCode, valueCode, channelCode string, product *models.Product, dateRange *models.DateRange, state *batchState) (*models.CustomerOptionValuePrice, error) {
	option, err := f.optionRepo.ByCode(ctx, optionCode)
	if err != nil {
		return nil, err
	}
	if option == nil {
		return nil, NewBusinessErrorf("PRICE_IMPORT_OPTION_NOT_FOUND",
			`CustomerOption with code "%s" not found`, ErrCustomerOptionNotFound, optionCode)
	}

	value, err := f.valueRepo.ByCodeAndOption(ctx, valueCode, option.ID)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, NewBusinessErrorf("PRICE_IMPORT_VALUE_NOT_FOUND",
			`CustomerOptionValue with code "%s" not found`, ErrCustomerOptionValueNotFound, valueCode)
	}

	channel, err := f.channelRepo.ByCode(ctx, channelCode)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, NewBusinessErrorf("PRICE_IMPORT_CHANNEL_NOT_FOUND",
			`Channel with code "%s" not found`, ErrChannelNotFound, channelCode)
	}

	persisted, err := f.priceRepo.ByValueChannelProduct(ctx, value.ID, channel.ID, &product.ID)
	if err != nil {
		return nil, err
	}

	candidates := state.stagedForScope(value.ID, channel.ID, &product.ID)
	for _, row := range persisted {
		if state.contains(row) {
			continue
		}
		candidates = append(candidates, row)
	}

	var matches []*models.CustomerOptionValuePrice
	for _, candidate := range candidates {
		if models.DateRangesEqual(candidate.DateValid(), dateRange) {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 0:
		return &models.CustomerOptionValuePrice{
			CustomerOptionValueID: value.ID,
			ChannelID:             channel.ID,
			ProductID:             &product.ID,
		}, nil
	case 1:
		return matches[0], nil
	default:
		return nil, NewBusinessErrorf("PRICE_IMPORT_AMBIGUOUS_PRICE",
			`Multiple prices exist for value "%s" in channel "%s"`, ErrAmbiguousPrice, valueCode, channelCode)
	}
}

// candidateSet builds the validation snapshot: all prices scoped to the
// product — persisted ones plus those staged earlier in this batch —
// except the candidate's own stored or staged copy, plus the candidate.
func (f *PriceImportFlowImpl) candidateSet(ctx context.Context, product *models.Product, price *models.CustomerOptionValuePrice, state *batchState) ([]*models.CustomerOptionValuePrice, error) {
	existing, err := f.priceRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	candidates := make([]*models.CustomerOptionValuePrice, 0, len(existing)+1)
	for _, row := range state.stagedForProduct(product.ID) {
		if row == price {
			continue
		}
		candidates = append(candidates, row)
	}
	for _, row := range existing {
		if row == price || (price.ID != 0 && row.ID == price.ID) {
			continue
		}
		if state.contains(row) {
			continue
		}
		candidates = append(candidates, row)
	}
	return append(candidates, price), nil
}

func (f *PriceImportFlowImpl) invalidatePriceCache(ctx context.Context, keys map[string]struct{}) {
	if f.rc == nil || len(keys) == 0 {
		return
	}
	flat := make([]string, 0, len(keys))
	for key := range keys {
		flat = append(flat, key)
	}
	// Best effort; a stale cache entry expires on its own TTL
	_ = f.rc.Del(ctx, flat...).Err()
}

func rowError(row dto.PriceImportRow, err error) dto.PriceImportRowError {
	rowErr := dto.PriceImportRowError{Data: row, Message: err.Error()}

	var cve *ConstraintViolationError
	if errors.As(err, &cve) {
		rowErr.Violations = cve.Violations
	}

	var be *BusinessError
	if errors.As(err, &be) {
		rowErr.Message = be.Message
	}
	return rowErr
}

func rowOutcomeLabel(err error) string {
	switch {
	case IsConstraintViolation(err):
		return outcomeViolation
	case errors.Is(err, models.ErrInvalidDateRange):
		return outcomeInvalid
	case IsProductNotFound(err), IsCustomerOptionNotFound(err), IsCustomerOptionValueNotFound(err), IsChannelNotFound(err):
		return outcomeNotFound
	default:
		return outcomeError
	}
}

// Import file columns, matched against the header row
const (
	columnProductCode             = "product_code"
	columnValidFrom               = "valid_from"
	columnValidTo                 = "valid_to"
	columnCustomerOptionCode      = "customer_option_code"
	columnCustomerOptionValueCode = "customer_option_value_code"
	columnChannelCode             = "channel_code"
	columnType                    = "type"
	columnAmount                  = "amount"
	columnPercent                 = "percent"
)

var requiredColumns = []string{
	columnProductCode,
	columnCustomerOptionCode,
	columnCustomerOptionValueCode,
	columnChannelCode,
	columnType,
}

// ImportFromCSV decodes a header-driven CSV file and imports its rows.
func (f *PriceImportFlowImpl) ImportFromCSV(ctx context.Context, r io.Reader) (*dto.PriceImportResult, error) {
	if r == nil {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_REQUIRED", "Import file is required", nil)
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_INVALID", "Failed to read CSV file", err)
	}

	rows, err := recordsToRows(records)
	if err != nil {
		return nil, err
	}
	return f.Import(ctx, rows)
}

// ImportFromExcel decodes the first sheet of an XLSX workbook and imports
// its rows. The first row must be the header.
func (f *PriceImportFlowImpl) ImportFromExcel(ctx context.Context, r io.Reader) (*dto.PriceImportResult, error) {
	if r == nil {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_REQUIRED", "Import file is required", nil)
	}

	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_INVALID", "Failed to read Excel file", err)
	}
	defer func() { _ = xl.Close() }()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_EMPTY", "Workbook has no sheets", ErrEmptyImportFile)
	}

	records, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_INVALID", "Failed to read Excel rows", err)
	}

	rows, err := recordsToRows(records)
	if err != nil {
		return nil, err
	}
	return f.Import(ctx, rows)
}

// recordsToRows maps raw string records onto import rows using the
// header for column positions. Blank cells become nil fields.
func recordsToRows(records [][]string) ([]dto.PriceImportRow, error) {
	if len(records) == 0 {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_EMPTY", "Import file has no header row", ErrEmptyImportFile)
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := header[name]; !ok {
			return nil, NewBusinessErrorf("PRICE_IMPORT_COLUMN_MISSING",
				`Import file is missing the "%s" column`, ErrMissingImportField, name)
		}
	}

	cell := func(record []string, name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	optional := func(record []string, name string) *string {
		if v := cell(record, name); v != "" {
			return &v
		}
		return nil
	}

	rows := make([]dto.PriceImportRow, 0, len(records)-1)
	for i, record := range records[1:] {
		row := dto.PriceImportRow{
			ProductCode:             cell(record, columnProductCode),
			ValidFrom:               optional(record, columnValidFrom),
			ValidTo:                 optional(record, columnValidTo),
			CustomerOptionCode:      cell(record, columnCustomerOptionCode),
			CustomerOptionValueCode: cell(record, columnCustomerOptionValueCode),
			ChannelCode:             cell(record, columnChannelCode),
			Type:                    cell(record, columnType),
		}

		if raw := cell(record, columnAmount); raw != "" {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, NewBusinessErrorf("PRICE_IMPORT_FILE_INVALID",
					`Row %d has a malformed amount "%s"`, err, i+2, raw)
			}
			row.Amount = &amount
		}
		if raw := cell(record, columnPercent); raw != "" {
			percent, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, NewBusinessErrorf("PRICE_IMPORT_FILE_INVALID",
					`Row %d has a malformed percent "%s"`, err, i+2, raw)
			}
			row.Percent = &percent
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, NewBusinessError("PRICE_IMPORT_FILE_EMPTY", "Import file contains no data rows", ErrEmptyImportFile)
	}
	return rows, nil
}
