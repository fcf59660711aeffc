package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/repository"
)

const (
	testChassisID = "11111111-1111-1111-1111-111111111111"
	testBodyID    = "22222222-2222-2222-2222-222222222222"
)

func seedValidationCatalog() *repository.MemoryCatalogRepo {
	catalog := repository.NewMemoryCatalogRepo()
	catalog.PutChassis(domain.Chassis{ID: testChassisID, SeriesCode: "E450", IsActive: true},
		domain.ChassisPricing{ChassisID: testChassisID, IsCurrent: true})
	catalog.PutBody(domain.BodyConfiguration{ID: testBodyID, ConfigName: "Shuttle"})
	catalog.PutBodyCompatibility(domain.ChassisBodyCompatibility{
		ChassisID: testChassisID, BodyID: testBodyID, IsCompatible: true,
	})
	catalog.PutFuelCompatibility(domain.ChassisFuelCompatibility{
		ChassisID: testChassisID, FuelCode: "EV", FuelName: "Electric",
		AvailabilityStatus: domain.FuelAvailable,
	})
	catalog.PutFuelCompatibility(domain.ChassisFuelCompatibility{
		ChassisID: testChassisID, FuelCode: "CNG", FuelName: "Compressed Natural Gas",
		AvailabilityStatus: "Discontinued",
	})
	return catalog
}

func newValidationFixture(catalog repository.CatalogRepository, validations repository.ValidationsRepository) (ValidationService, *repository.MemorySessionsRepo) {
	sessions := repository.NewMemorySessionsRepo()
	svc := NewValidationService(sessions, validations, catalog, time.Second, zap.NewNop())
	return svc, sessions
}

func putTestSession(t *testing.T, sessions *repository.MemorySessionsRepo, chassisID, bodyID, fuelType string) string {
	t.Helper()
	now := time.Now().UTC()
	id := fmt.Sprintf("s-%s-%s-%s", chassisID, bodyID, fuelType)
	require.NoError(t, sessions.CreateSession(context.Background(), &domain.ConfigurationSession{
		ID:                id,
		CurrentStep:       domain.StepReview,
		Status:            domain.StatusActive,
		SelectedChassisID: chassisID,
		SelectedBodyID:    bodyID,
		SelectedFuelType:  fuelType,
		CreatedAt:         now,
		ExpiresAt:         now.Add(SessionTTL),
	}))
	return id
}

func TestValidationService_EmptySession(t *testing.T) {
	validations := repository.NewMemoryValidationsRepo()
	svc, sessions := newValidationFixture(seedValidationCatalog(), validations)
	id := putTestSession(t, sessions, "", "", "")

	outcome, err := svc.Validate(context.Background(), id)
	require.NoError(t, err)
	// 部分填写不算非法：没有可评估的规则就没有结果
	require.True(t, outcome.IsValid)
	require.Empty(t, outcome.Results)
	require.Empty(t, validations.Records())
}

func TestValidationService_Compatible(t *testing.T) {
	validations := repository.NewMemoryValidationsRepo()
	svc, sessions := newValidationFixture(seedValidationCatalog(), validations)
	id := putTestSession(t, sessions, testChassisID, testBodyID, "EV")

	outcome, err := svc.Validate(context.Background(), id)
	require.NoError(t, err)
	require.True(t, outcome.IsValid)
	require.Len(t, outcome.Results, 2)

	require.Equal(t, domain.ValidationPassed, outcome.Results[0].Status)
	require.Equal(t, "Chassis and body are compatible", outcome.Results[0].Message)
	require.Equal(t, domain.ValidationPassed, outcome.Results[1].Status)
	require.Equal(t, "Fuel type is compatible with chassis", outcome.Results[1].Message)

	// 通过的结果同样进审计
	require.Len(t, validations.Records(), 2)
}

func TestValidationService_IncompatibleBody(t *testing.T) {
	validations := repository.NewMemoryValidationsRepo()
	svc, sessions := newValidationFixture(seedValidationCatalog(), validations)
	// 目录里没有对应兼容记录的车身：缺行视同不兼容
	id := putTestSession(t, sessions, testChassisID, "99999999-9999-9999-9999-999999999999", "")

	outcome, err := svc.Validate(context.Background(), id)
	require.NoError(t, err)
	require.False(t, outcome.IsValid)
	require.Len(t, outcome.Results, 1)
	require.Equal(t, domain.ValidationError, outcome.Results[0].Status)
	require.Equal(t, domain.CodeIncompatibleChassisBody, outcome.Results[0].Code)
	require.Equal(t, "Selected chassis and body are not compatible", outcome.Results[0].Message)
}

func TestValidationService_FuelNotAvailable(t *testing.T) {
	validations := repository.NewMemoryValidationsRepo()
	svc, sessions := newValidationFixture(seedValidationCatalog(), validations)
	// 记录存在但 availability_status 不是 Available
	id := putTestSession(t, sessions, testChassisID, "", "CNG")

	outcome, err := svc.Validate(context.Background(), id)
	require.NoError(t, err)
	require.False(t, outcome.IsValid)
	require.Len(t, outcome.Results, 1)
	require.Equal(t, domain.CodeIncompatibleFuelType, outcome.Results[0].Code)
	require.Equal(t, "Selected fuel type is not available for this chassis", outcome.Results[0].Message)
}

// failingValidationsRepo 写入永远失败的审计存储
type failingValidationsRepo struct{}

func (failingValidationsRepo) AddValidationRecord(context.Context, *domain.ValidationRecord) error {
	return fmt.Errorf("disk full")
}

func TestValidationService_AuditFailureDoesNotChangeOutcome(t *testing.T) {
	svc, sessions := newValidationFixture(seedValidationCatalog(), failingValidationsRepo{})
	id := putTestSession(t, sessions, testChassisID, testBodyID, "EV")

	outcome, err := svc.Validate(context.Background(), id)
	require.NoError(t, err)
	require.True(t, outcome.IsValid)
	require.Len(t, outcome.Results, 2)
}
