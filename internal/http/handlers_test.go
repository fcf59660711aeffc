package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/repository"
	"github.com/shaed-rp/Endera/internal/service"
	"github.com/shaed-rp/Endera/internal/store"
)

const (
	testChassisID = "11111111-1111-1111-1111-111111111111"
	testBodyID    = "22222222-2222-2222-2222-222222222222"
	testOptionID  = "33333333-3333-3333-3333-333333333333"
)

type apiFixture struct {
	router   *Router
	sessions *repository.MemorySessionsRepo
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	logger := zap.NewNop()

	catalog := repository.NewMemoryCatalogRepo()
	catalog.PutChassis(domain.Chassis{
		ID: testChassisID, SeriesCode: "E450", WheelbaseInches: 158,
		ModelDescription: "E-450 DRW", IsActive: true,
	}, domain.ChassisPricing{
		DealerInvoicePrice:        98000,
		SuggestedRetailPrice:      110000,
		DestinationDeliveryCharge: 2000,
	})
	catalog.PutBody(domain.BodyConfiguration{
		ID: testBodyID, ConfigCode: "SHTL-14", ConfigName: "14-Passenger Shuttle",
		PassengerCapacity: 14, WheelchairPositions: 2,
		FuelType: "Electric", ElectricRangeMiles: 150,
	})
	catalog.PutBodyCompatibility(domain.ChassisBodyCompatibility{
		ChassisID: testChassisID, BodyID: testBodyID, IsCompatible: true,
	})
	catalog.PutFuelCompatibility(domain.ChassisFuelCompatibility{
		ChassisID: testChassisID, FuelCode: "EV", FuelName: "Electric",
		AvailabilityStatus: domain.FuelAvailable,
	})
	catalog.PutOption(domain.VehicleOption{
		ID: testOptionID, OptionCode: "LIFT-ADA", OptionName: "ADA Wheelchair Lift",
	}, domain.OptionPricing{
		DealerInvoicePrice: 5200, SuggestedRetailPrice: 6000,
	})

	sessions := repository.NewMemorySessionsRepo()
	selections := repository.NewMemorySelectionsRepo()
	validations := repository.NewMemoryValidationsRepo()
	saved := repository.NewMemorySavedConfigurationsRepo()
	locks := service.NewSessionLocks()
	timeout := time.Second

	sessionSvc := service.NewSessionService(sessions, selections, timeout, logger)
	selectionSvc := service.NewSelectionService(sessions, selections, locks, timeout, logger)
	validationSvc := service.NewValidationService(sessions, validations, catalog, timeout, logger)
	pricingSvc := service.NewPricingService(sessions, selections, catalog,
		service.StandardBodyPricing{}, locks, timeout, logger)
	shareSvc := service.NewShareService(sessions, selections, saved,
		store.NewMemoryKV(), time.Hour, timeout, logger)

	router := NewRouter(logger)
	router.RegisterConfiguratorRoutes(
		NewSessionHandler(sessionSvc, selectionSvc, validationSvc, logger),
		NewPricingHandler(pricingSvc, nil, logger),
		NewConfigurationHandler(shareSvc, logger),
	)
	router.RegisterCatalogRoutes(NewCatalogHandler(catalog, logger))

	return &apiFixture{router: router, sessions: sessions}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, "expected success envelope, got error: %s", envelope.Error)
	return envelope.Data
}

func createTestSession(t *testing.T, f *apiFixture) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/config/api/v1/sessions", map[string]string{"userType": "customer"})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeData(t, rec)
	return data["sessionId"].(string)
}
