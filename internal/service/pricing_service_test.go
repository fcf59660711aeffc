package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
	"github.com/shaed-rp/Endera/internal/repository"
)

const (
	testOptionLiftID   = "33333333-3333-3333-3333-333333333333"
	testOptionCreditID = "44444444-4444-4444-4444-444444444444"
)

func seedPricingCatalog() *repository.MemoryCatalogRepo {
	catalog := repository.NewMemoryCatalogRepo()
	catalog.PutChassis(domain.Chassis{
		ID: testChassisID, SeriesCode: "E450", WheelbaseInches: 158,
		ModelDescription: "E-450 DRW", IsActive: true,
	}, domain.ChassisPricing{
		ChassisID:                 testChassisID,
		DealerInvoicePrice:        98000,
		SuggestedRetailPrice:      110000,
		DestinationDeliveryCharge: 2000,
		IsCurrent:                 true,
	})
	catalog.PutBody(domain.BodyConfiguration{
		ID: testBodyID, ConfigName: "14-Passenger Shuttle",
		PassengerCapacity: 14, WheelchairPositions: 2,
		FuelType: "Electric", ElectricRangeMiles: 150,
	})
	catalog.PutFuelCompatibility(domain.ChassisFuelCompatibility{
		ChassisID: testChassisID, FuelCode: "EV", FuelName: "Electric",
		AvailabilityStatus: domain.FuelAvailable, BasePriceAdjustment: 0,
	})
	catalog.PutOption(domain.VehicleOption{
		ID: testOptionLiftID, OptionCode: "LIFT-ADA", OptionName: "ADA Wheelchair Lift",
	}, domain.OptionPricing{
		OptionID: testOptionLiftID, DealerInvoicePrice: 5200, SuggestedRetailPrice: 6000, IsCurrent: true,
	})
	catalog.PutOption(domain.VehicleOption{
		ID: testOptionCreditID, OptionCode: "CRD-FLEET", OptionName: "Fleet Program Credit",
	}, domain.OptionPricing{
		OptionID: testOptionCreditID, DealerInvoicePrice: 500, SuggestedRetailPrice: 500,
		IsCredit: true, IsCurrent: true,
	})
	return catalog
}

func newPricingFixture(t *testing.T) (PricingService, SelectionService, *repository.MemorySessionsRepo, string) {
	t.Helper()
	sessions := repository.NewMemorySessionsRepo()
	selections := repository.NewMemorySelectionsRepo()
	catalog := seedPricingCatalog()
	locks := NewSessionLocks()
	logger := zap.NewNop()

	pricing := NewPricingService(sessions, selections, catalog, StandardBodyPricing{}, locks, time.Second, logger)
	selectionSvc := NewSelectionService(sessions, selections, locks, time.Second, logger)

	sessionSvc := NewSessionService(sessions, selections, time.Second, logger)
	resp, err := sessionSvc.Create(context.Background(), CreateSessionRequest{})
	require.NoError(t, err)
	return pricing, selectionSvc, sessions, resp.SessionID
}

func configureFullVehicle(t *testing.T, selections SelectionService, sessionID string) {
	t.Helper()
	ctx := context.Background()
	_, err := selections.Add(ctx, sessionID, AddSelectionRequest{Type: domain.SelectionChassis, ItemID: testChassisID})
	require.NoError(t, err)
	_, err = selections.Add(ctx, sessionID, AddSelectionRequest{Type: domain.SelectionBody, ItemID: testBodyID})
	require.NoError(t, err)
	_, err = selections.Add(ctx, sessionID, AddSelectionRequest{Type: domain.SelectionFuel, ItemID: "fuel-ev", ItemCode: "EV"})
	require.NoError(t, err)
	_, err = selections.Add(ctx, sessionID, AddSelectionRequest{Type: domain.SelectionOption, ItemID: testOptionLiftID, Quantity: 1})
	require.NoError(t, err)
	_, err = selections.Add(ctx, sessionID, AddSelectionRequest{Type: domain.SelectionOption, ItemID: testOptionCreditID, Quantity: 1})
	require.NoError(t, err)
}

func TestPricingService_CustomerBreakdown(t *testing.T) {
	pricing, selections, sessions, sessionID := newPricingFixture(t)
	configureFullVehicle(t, selections, sessionID)

	b, err := pricing.ComputeBreakdown(context.Background(), sessionID, TierCustomer)
	require.NoError(t, err)

	require.InDelta(t, 110000, b.Chassis.Price, 0.001)
	require.InDelta(t, 2000, b.Chassis.DestinationCharge, 0.001)
	require.InDelta(t, 0, b.FuelConversion.Price, 0.001)
	// 45000 基准 + 25000 电驱 + 15000 长续航 + 8000 无障碍
	require.InDelta(t, 93000, b.Body.Price, 0.001)

	require.Len(t, b.Options.Items, 2)
	require.InDelta(t, 6000, b.Options.Items[0].TotalPrice, 0.001)
	require.True(t, b.Options.Items[1].IsCredit)
	require.InDelta(t, -500, b.Options.Items[1].TotalPrice, 0.001)
	require.InDelta(t, 5500, b.Options.Price, 0.001)

	require.InDelta(t, 210500, b.Subtotal, 0.001)
	require.InDelta(t, 16840, b.Taxes, 0.001)
	require.InDelta(t, 500, b.Fees, 0.001)
	require.InDelta(t, 227840, b.Total, 0.001)

	// 写通缓存：base 不含目的地运费
	session, err := sessions.GetSession(context.Background(), sessionID)
	require.NoError(t, err)
	require.InDelta(t, 203000, session.BasePrice, 0.001)
	require.InDelta(t, 5500, session.OptionsPrice, 0.001)
	require.InDelta(t, 227840, session.TotalPrice, 0.001)
}

func TestPricingService_DealerBreakdown(t *testing.T) {
	pricing, selections, _, sessionID := newPricingFixture(t)
	configureFullVehicle(t, selections, sessionID)

	b, err := pricing.ComputeBreakdown(context.Background(), sessionID, TierDealer)
	require.NoError(t, err)

	require.InDelta(t, 98000, b.Chassis.Price, 0.001)
	require.InDelta(t, 4700, b.Options.Price, 0.001)
	require.InDelta(t, 197700, b.Subtotal, 0.001)
}

func TestPricingService_UnknownTierDefaultsToCustomer(t *testing.T) {
	pricing, selections, _, sessionID := newPricingFixture(t)
	configureFullVehicle(t, selections, sessionID)

	b, err := pricing.ComputeBreakdown(context.Background(), sessionID, "wholesale")
	require.NoError(t, err)
	require.InDelta(t, 110000, b.Chassis.Price, 0.001)
}

func TestPricingService_Idempotent(t *testing.T) {
	pricing, selections, sessions, sessionID := newPricingFixture(t)
	configureFullVehicle(t, selections, sessionID)

	b1, err := pricing.ComputeBreakdown(context.Background(), sessionID, TierCustomer)
	require.NoError(t, err)
	b2, err := pricing.ComputeBreakdown(context.Background(), sessionID, TierCustomer)
	require.NoError(t, err)

	// 输入不变时重复计价不得累加任何组成部分
	require.Equal(t, b1.Subtotal, b2.Subtotal)
	require.Equal(t, b1.Total, b2.Total)
	require.Len(t, b2.Options.Items, len(b1.Options.Items))

	session, err := sessions.GetSession(context.Background(), sessionID)
	require.NoError(t, err)
	require.InDelta(t, b1.Total, session.TotalPrice, 0.001)
}

func TestPricingService_EmptySession(t *testing.T) {
	pricing, _, _, sessionID := newPricingFixture(t)

	b, err := pricing.ComputeBreakdown(context.Background(), sessionID, TierCustomer)
	require.NoError(t, err)
	require.InDelta(t, 0, b.Subtotal, 0.001)
	require.InDelta(t, 0, b.Taxes, 0.001)
	require.InDelta(t, 500, b.Fees, 0.001)
	require.InDelta(t, 500, b.Total, 0.001)
}

func TestPricingService_MissingCatalogOptionSkipped(t *testing.T) {
	pricing, selections, _, sessionID := newPricingFixture(t)
	_, err := selections.Add(context.Background(), sessionID, AddSelectionRequest{
		Type: domain.SelectionOption, ItemID: "deleted-option",
	})
	require.NoError(t, err)

	b, err := pricing.ComputeBreakdown(context.Background(), sessionID, TierCustomer)
	require.NoError(t, err)
	require.Empty(t, b.Options.Items)
}

func TestPricingService_Estimate(t *testing.T) {
	pricing, _, _, _ := newPricingFixture(t)

	est, err := pricing.Estimate(context.Background(), testChassisID, testBodyID, "EV", TierCustomer)
	require.NoError(t, err)
	require.InDelta(t, 110000, est.Chassis, 0.001)
	require.InDelta(t, 93000, est.Body, 0.001)
	require.InDelta(t, 203000, est.EstimatedTotal, 0.001)
}

func TestPricingService_EstimateRequiresChassisAndBody(t *testing.T) {
	pricing, _, _, _ := newPricingFixture(t)

	_, err := pricing.Estimate(context.Background(), testChassisID, "", "", TierCustomer)
	require.ErrorIs(t, err, errs.ErrInvalid)
	_, err = pricing.Estimate(context.Background(), "", testBodyID, "", TierCustomer)
	require.ErrorIs(t, err, errs.ErrInvalid)
}

func TestPricingService_OptionPricing(t *testing.T) {
	pricing, _, _, _ := newPricingFixture(t)

	resp, err := pricing.OptionPricing(context.Background(), testOptionLiftID, TierDealer)
	require.NoError(t, err)
	require.Equal(t, "LIFT-ADA", resp.OptionCode)
	require.InDelta(t, 5200, resp.Price, 0.001)
	require.Equal(t, TierDealer, resp.UserType)

	_, err = pricing.OptionPricing(context.Background(), "no-such-option", TierCustomer)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
