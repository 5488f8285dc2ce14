package businessflow

import (
	"context"
	"time"

	"github.com/glintshop/customer-options/app/dto"
	"github.com/glintshop/customer-options/models"
	"github.com/glintshop/customer-options/repository"
	"github.com/glintshop/customer-options/utils"
	"github.com/go-playground/validator/v10"
)

// CustomerOptionFlow is the admin surface over the option type catalog
// and the configured customer options.
type CustomerOptionFlow interface {
	ListOptionTypes(ctx context.Context) *dto.ListOptionTypesResponse
	CreateCustomerOption(ctx context.Context, req *dto.CreateCustomerOptionRequest) (*dto.CreateCustomerOptionResponse, error)
	ListCustomerOptions(ctx context.Context) (*dto.ListCustomerOptionsResponse, error)
}

type CustomerOptionFlowImpl struct {
	optionRepo repository.CustomerOptionRepository
	valueRepo  repository.CustomerOptionValueRepository
	validate   *validator.Validate
}

func NewCustomerOptionFlow(
	optionRepo repository.CustomerOptionRepository,
	valueRepo repository.CustomerOptionValueRepository,
) CustomerOptionFlow {
	return &CustomerOptionFlowImpl{
		optionRepo: optionRepo,
		valueRepo:  valueRepo,
		validate:   validator.New(),
	}
}

// ListOptionTypes enumerates the closed type catalog with each type's
// widget and default configuration schema.
func (f *CustomerOptionFlowImpl) ListOptionTypes(ctx context.Context) *dto.ListOptionTypesResponse {
	types := models.AllOptionTypes()
	items := make([]dto.OptionTypeItem, 0, len(types))

	for _, t := range types {
		schema := models.DefaultConfiguration(t)
		configuration := make(map[string]dto.ConfigOptionDTO, len(schema))
		for key, opt := range schema {
			configuration[key] = dto.ConfigOptionDTO{Kind: opt.Kind, Default: opt.Default}
		}
		items = append(items, dto.OptionTypeItem{
			Type:          t,
			Widget:        models.FormWidget(t),
			IsSelect:      models.IsSelectType(t),
			IsDate:        models.IsDateType(t),
			Configuration: configuration,
		})
	}

	return &dto.ListOptionTypesResponse{
		Message: "Option types listed",
		Items:   items,
	}
}

// CreateCustomerOption creates an option with a code-unique check, seeds
// its configuration from the type's defaults, and creates the supplied
// values for select types.
func (f *CustomerOptionFlowImpl) CreateCustomerOption(ctx context.Context, req *dto.CreateCustomerOptionRequest) (*dto.CreateCustomerOptionResponse, error) {
	if err := f.validate.StructCtx(ctx, req); err != nil {
		return nil, NewBusinessError("CUSTOMER_OPTION_INVALID_REQUEST", "Invalid customer option request", err)
	}
	if !models.IsValidOptionType(req.Type) {
		return nil, NewBusinessErrorf("CUSTOMER_OPTION_INVALID_TYPE",
			`Option type "%s" is not supported`, ErrInvalidOptionType, req.Type)
	}

	existing, err := f.optionRepo.ByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewBusinessErrorf("CUSTOMER_OPTION_CODE_TAKEN",
			`CustomerOption with code "%s" already exists`, ErrOptionCodeTaken, req.Code)
	}

	configuration := make(map[string]any)
	for key, opt := range models.DefaultConfiguration(req.Type) {
		configuration[key] = opt.Default
	}

	option := &models.CustomerOption{
		Code:          req.Code,
		Name:          req.Name,
		Type:          req.Type,
		Required:      utils.ToPtr(req.Required),
		Configuration: configuration,
	}
	if err := f.optionRepo.Save(ctx, option); err != nil {
		return nil, NewBusinessError("CUSTOMER_OPTION_SAVE_FAILED", "Failed to save customer option", err)
	}

	var valueCodes []string
	if models.IsSelectType(req.Type) {
		for _, code := range req.Values {
			value := &models.CustomerOptionValue{
				Code:             code,
				Name:             code,
				CustomerOptionID: option.ID,
			}
			if err := f.valueRepo.Save(ctx, value); err != nil {
				return nil, NewBusinessErrorf("CUSTOMER_OPTION_VALUE_SAVE_FAILED",
					`Failed to save option value "%s"`, err, code)
			}
			valueCodes = append(valueCodes, code)
		}
	}

	out := toCustomerOptionDTO(option)
	out.ValueCodes = valueCodes

	return &dto.CreateCustomerOptionResponse{
		Message: "Customer option created",
		Option:  out,
	}, nil
}

// ListCustomerOptions returns all configured options with their values.
func (f *CustomerOptionFlowImpl) ListCustomerOptions(ctx context.Context) (*dto.ListCustomerOptionsResponse, error) {
	options, err := f.optionRepo.ByFilter(ctx, models.CustomerOptionFilter{}, "code ASC", 0, 0)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CustomerOptionDTO, 0, len(options))
	for _, option := range options {
		out := toCustomerOptionDTO(option)
		if models.IsSelectType(option.Type) {
			values, err := f.valueRepo.ListByOption(ctx, option.ID)
			if err != nil {
				return nil, err
			}
			for _, value := range values {
				out.ValueCodes = append(out.ValueCodes, value.Code)
			}
		}
		items = append(items, out)
	}

	return &dto.ListCustomerOptionsResponse{
		Message: "Customer options listed",
		Items:   items,
	}, nil
}

func toCustomerOptionDTO(option *models.CustomerOption) dto.CustomerOptionDTO {
	return dto.CustomerOptionDTO{
		ID:            option.ID,
		Code:          option.Code,
		Name:          option.Name,
		Type:          option.Type,
		Required:      utils.IsTrue(option.Required),
		Configuration: option.Configuration,
		CreatedAt:     option.CreatedAt.UTC().Format(time.RFC3339),
	}
}
