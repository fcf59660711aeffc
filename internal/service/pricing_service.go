package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
	"github.com/shaed-rp/Endera/internal/repository"

	"go.uber.org/zap"
)

// 税费常量（估算值：固定 8% 税率 + 固定手续费，不做辖区级税务计算）
const (
	estimatedTaxRate = 0.08
	processingFee    = 500.0
)

// PricingService 计价引擎接口
type PricingService interface {
	// ComputeBreakdown 计算完整报价分解，并把 base/options/total 写通到会话缓存。
	// 输入不变时重复调用结果完全一致，不会重复累加任何组成部分
	ComputeBreakdown(ctx context.Context, sessionID, tier string) (*domain.PricingBreakdown, error)
	// Estimate 无会话参与的快速估价（chassisID 和 bodyID 必填）
	Estimate(ctx context.Context, chassisID, bodyID, fuelType, tier string) (*domain.PricingEstimate, error)
	// OptionPricing 单个选装项的当前价格
	OptionPricing(ctx context.Context, optionID, tier string) (*OptionPricingResponse, error)
}

// OptionPricingResponse 单个选装项价格响应
type OptionPricingResponse struct {
	OptionID    string  `json:"optionId"`
	OptionCode  string  `json:"optionCode"`
	OptionName  string  `json:"optionName"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	IsCredit    bool    `json:"isCredit"`
	IsNoCharge  bool    `json:"isNoCharge"`
	UserType    string  `json:"userType"`
}

// pricingService 计价引擎实现
type pricingService struct {
	sessions   repository.SessionsRepository
	selections repository.SelectionsRepository
	catalog    repository.CatalogRepository
	bodyRule   BodyPricingRule
	locks      *SessionLocks
	timeout    time.Duration
	logger     *zap.Logger
}

// NewPricingService 创建计价引擎
// locks 必须与 SelectionService 共用同一实例：计价的写通更新
// 与选择写入在同一会话内串行，防止缓存丢更新
func NewPricingService(
	sessions repository.SessionsRepository,
	selections repository.SelectionsRepository,
	catalog repository.CatalogRepository,
	bodyRule BodyPricingRule,
	locks *SessionLocks,
	timeout time.Duration,
	logger *zap.Logger,
) PricingService {
	return &pricingService{
		sessions:   sessions,
		selections: selections,
		catalog:    catalog,
		bodyRule:   bodyRule,
		locks:      locks,
		timeout:    timeout,
		logger:     logger,
	}
}

// normalizeTier dealer 以外一律按 customer 计价
func normalizeTier(tier string) string {
	if tier == TierDealer {
		return TierDealer
	}
	return TierCustomer
}

func tierPrice(tier string, dealerInvoice, suggestedRetail float64) float64 {
	if tier == TierDealer {
		return dealerInvoice
	}
	return suggestedRetail
}

func (s *pricingService) ComputeBreakdown(ctx context.Context, sessionID, tier string) (*domain.PricingBreakdown, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", errs.ErrInvalid)
	}
	tier = normalizeTier(tier)

	mu := s.locks.acquire(sessionID)
	mu.Lock()
	defer mu.Unlock()

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	session, err := s.sessions.GetSession(tctx, sessionID)
	if err != nil {
		if !isExpectedErr(err) {
			s.logger.Error("failed to get session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil, storeErr("get session", err)
	}

	lctx, lcancel := withTimeout(ctx, s.timeout)
	selections, err := s.selections.ListSelections(lctx, sessionID)
	lcancel()
	if err != nil {
		s.logger.Error("failed to list selections", zap.String("session_id", sessionID), zap.Error(err))
		return nil, storeErr("list selections", err)
	}

	breakdown := &domain.PricingBreakdown{
		Chassis:        domain.PricingComponent{Description: "Base Chassis"},
		FuelConversion: domain.PricingComponent{Description: "Fuel System"},
		Body:           domain.PricingComponent{Description: "Body Configuration"},
		Options:        domain.OptionsComponent{Description: "Selected Options", Items: []domain.OptionLineItem{}},
	}

	if err := s.priceChassis(ctx, session, tier, breakdown); err != nil {
		return nil, err
	}
	if err := s.priceFuelConversion(ctx, session, breakdown); err != nil {
		return nil, err
	}
	if err := s.priceBody(ctx, session, breakdown); err != nil {
		return nil, err
	}
	if err := s.priceOptions(ctx, selections, tier, breakdown); err != nil {
		return nil, err
	}

	breakdown.Subtotal = breakdown.Chassis.Price +
		breakdown.Chassis.DestinationCharge +
		breakdown.FuelConversion.Price +
		breakdown.Body.Price +
		breakdown.Options.Price
	breakdown.Taxes = breakdown.Subtotal * estimatedTaxRate
	breakdown.Fees = processingFee
	breakdown.Total = breakdown.Subtotal + breakdown.Taxes + breakdown.Fees

	// 写通缓存：base = 底盘 + 燃料改装 + 车身（不含目的地运费）
	basePrice := breakdown.Chassis.Price + breakdown.FuelConversion.Price + breakdown.Body.Price
	upd := repository.SessionUpdate{
		BasePrice:    &basePrice,
		OptionsPrice: &breakdown.Options.Price,
		TotalPrice:   &breakdown.Total,
	}
	uctx, ucancel := withTimeout(ctx, s.timeout)
	defer ucancel()
	if _, err := s.sessions.UpdateSession(uctx, sessionID, upd); err != nil {
		s.logger.Error("failed to write back session pricing", zap.String("session_id", sessionID), zap.Error(err))
		return nil, storeErr("update session", err)
	}

	return breakdown, nil
}

func (s *pricingService) priceChassis(ctx context.Context, session *domain.ConfigurationSession, tier string, b *domain.PricingBreakdown) error {
	if session.SelectedChassisID == "" {
		return nil
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	pricing, err := s.catalog.GetChassisPricing(tctx, session.SelectedChassisID)
	if err != nil {
		s.logger.Error("failed to get chassis pricing", zap.Error(err))
		return storeErr("get chassis pricing", err)
	}
	if pricing == nil {
		// 无当前价格记录：组成部分保持 0（目录缺失是正常结果）
		return nil
	}

	b.Chassis.Price = tierPrice(tier, pricing.DealerInvoicePrice, pricing.SuggestedRetailPrice)
	b.Chassis.DestinationCharge = pricing.DestinationDeliveryCharge

	cctx, ccancel := withTimeout(ctx, s.timeout)
	defer ccancel()
	chassis, err := s.catalog.GetChassis(cctx, session.SelectedChassisID)
	if err != nil {
		s.logger.Error("failed to get chassis", zap.Error(err))
		return storeErr("get chassis", err)
	}
	if chassis != nil {
		b.Chassis.Description = fmt.Sprintf("%s %g\" WB", chassis.SeriesCode, chassis.WheelbaseInches)
		b.Chassis.Details = chassis.ModelDescription
	}
	return nil
}

func (s *pricingService) priceFuelConversion(ctx context.Context, session *domain.ConfigurationSession, b *domain.PricingBreakdown) error {
	if session.SelectedChassisID == "" || session.SelectedFuelType == "" {
		return nil
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	fuel, err := s.catalog.GetChassisFuelCompatibility(tctx, session.SelectedChassisID, session.SelectedFuelType)
	if err != nil {
		s.logger.Error("failed to get chassis-fuel compatibility", zap.Error(err))
		return storeErr("get chassis-fuel compatibility", err)
	}
	if fuel == nil {
		return nil
	}

	b.FuelConversion.Price = fuel.BasePriceAdjustment
	b.FuelConversion.Description = fuel.FuelName
	b.FuelConversion.Provider = fuel.ProviderName
	b.FuelConversion.RequiresConversion = fuel.RequiresConversion
	return nil
}

func (s *pricingService) priceBody(ctx context.Context, session *domain.ConfigurationSession, b *domain.PricingBreakdown) error {
	if session.SelectedBodyID == "" {
		return nil
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	body, err := s.catalog.GetBodyConfiguration(tctx, session.SelectedBodyID)
	if err != nil {
		s.logger.Error("failed to get body configuration", zap.Error(err))
		return storeErr("get body configuration", err)
	}
	if body == nil {
		return nil
	}

	b.Body.Price = s.bodyRule.Price(body)
	b.Body.Description = body.ConfigName
	b.Body.Details = fmt.Sprintf("%d passengers, %d wheelchair positions",
		body.PassengerCapacity, body.WheelchairPositions)
	b.Body.FuelType = body.FuelType
	b.Body.RangeMiles = body.ElectricRangeMiles
	return nil
}

func (s *pricingService) priceOptions(ctx context.Context, selections []domain.Selection, tier string, b *domain.PricingBreakdown) error {
	for _, sel := range selections {
		if sel.Type != domain.SelectionOption {
			continue
		}

		octx, ocancel := withTimeout(ctx, s.timeout)
		option, err := s.catalog.GetOption(octx, sel.ItemID)
		ocancel()
		if err != nil {
			s.logger.Error("failed to get option", zap.String("option_id", sel.ItemID), zap.Error(err))
			return storeErr("get option", err)
		}

		pctx, pcancel := withTimeout(ctx, s.timeout)
		pricing, err := s.catalog.GetOptionPricing(pctx, sel.ItemID)
		pcancel()
		if err != nil {
			s.logger.Error("failed to get option pricing", zap.String("option_id", sel.ItemID), zap.Error(err))
			return storeErr("get option pricing", err)
		}

		// 目录里已不存在的选装项跳过，不影响其余行
		if option == nil || pricing == nil {
			continue
		}

		price := tierPrice(tier, pricing.DealerInvoicePrice, pricing.SuggestedRetailPrice)
		unitPrice := math.Abs(price)
		if pricing.IsCredit {
			unitPrice = -unitPrice
		}
		totalPrice := unitPrice * float64(sel.Quantity)

		b.Options.Items = append(b.Options.Items, domain.OptionLineItem{
			Code:       option.OptionCode,
			Name:       option.OptionName,
			Quantity:   sel.Quantity,
			UnitPrice:  unitPrice,
			TotalPrice: totalPrice,
			IsCredit:   pricing.IsCredit,
			IsNoCharge: pricing.IsNoCharge,
		})
		b.Options.Price += totalPrice
	}
	return nil
}

func (s *pricingService) Estimate(ctx context.Context, chassisID, bodyID, fuelType, tier string) (*domain.PricingEstimate, error) {
	if chassisID == "" || bodyID == "" {
		return nil, fmt.Errorf("chassis_id and body_id are required: %w", errs.ErrInvalid)
	}
	tier = normalizeTier(tier)

	estimate := &domain.PricingEstimate{}

	tctx, cancel := withTimeout(ctx, s.timeout)
	pricing, err := s.catalog.GetChassisPricing(tctx, chassisID)
	cancel()
	if err != nil {
		s.logger.Error("failed to get chassis pricing", zap.Error(err))
		return nil, storeErr("get chassis pricing", err)
	}
	if pricing != nil {
		estimate.Chassis = tierPrice(tier, pricing.DealerInvoicePrice, pricing.SuggestedRetailPrice)
	}

	if fuelType != "" {
		fctx, fcancel := withTimeout(ctx, s.timeout)
		fuel, err := s.catalog.GetChassisFuelCompatibility(fctx, chassisID, fuelType)
		fcancel()
		if err != nil {
			s.logger.Error("failed to get chassis-fuel compatibility", zap.Error(err))
			return nil, storeErr("get chassis-fuel compatibility", err)
		}
		if fuel != nil {
			estimate.FuelConversion = fuel.BasePriceAdjustment
		}
	}

	bctx, bcancel := withTimeout(ctx, s.timeout)
	body, err := s.catalog.GetBodyConfiguration(bctx, bodyID)
	bcancel()
	if err != nil {
		s.logger.Error("failed to get body configuration", zap.Error(err))
		return nil, storeErr("get body configuration", err)
	}
	if body != nil {
		estimate.Body = s.bodyRule.Price(body)
	}

	estimate.EstimatedTotal = estimate.Chassis + estimate.FuelConversion + estimate.Body
	return estimate, nil
}

func (s *pricingService) OptionPricing(ctx context.Context, optionID, tier string) (*OptionPricingResponse, error) {
	if optionID == "" {
		return nil, fmt.Errorf("option_id is required: %w", errs.ErrInvalid)
	}
	tier = normalizeTier(tier)

	octx, ocancel := withTimeout(ctx, s.timeout)
	option, err := s.catalog.GetOption(octx, optionID)
	ocancel()
	if err != nil {
		s.logger.Error("failed to get option", zap.String("option_id", optionID), zap.Error(err))
		return nil, storeErr("get option", err)
	}

	pctx, pcancel := withTimeout(ctx, s.timeout)
	pricing, err := s.catalog.GetOptionPricing(pctx, optionID)
	pcancel()
	if err != nil {
		s.logger.Error("failed to get option pricing", zap.String("option_id", optionID), zap.Error(err))
		return nil, storeErr("get option pricing", err)
	}

	if option == nil || pricing == nil {
		return nil, fmt.Errorf("option pricing %s: %w", optionID, errs.ErrNotFound)
	}

	return &OptionPricingResponse{
		OptionID:    option.ID,
		OptionCode:  option.OptionCode,
		OptionName:  option.OptionName,
		Description: option.Description,
		Price:       tierPrice(tier, pricing.DealerInvoicePrice, pricing.SuggestedRetailPrice),
		IsCredit:    pricing.IsCredit,
		IsNoCharge:  pricing.IsNoCharge,
		UserType:    tier,
	}, nil
}
