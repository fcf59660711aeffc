package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
	"github.com/shaed-rp/Endera/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ValidationService 兼容性校验服务接口。
// 校验是纯评估：不修改会话也不修改选择记录；
// 部分填写的配置不算非法（规则只在所需字段齐备时评估）
type ValidationService interface {
	Validate(ctx context.Context, sessionID string) (*ValidationOutcome, error)
}

// ValidationOutcome 一次校验的整体结果
// IsValid = 没有任何 status=error 的规则结果
type ValidationOutcome struct {
	IsValid bool                      `json:"isValid"`
	Results []domain.ValidationResult `json:"validationResults"`
}

// validationService 兼容性校验服务实现
type validationService struct {
	sessions    repository.SessionsRepository
	validations repository.ValidationsRepository
	catalog     repository.CatalogRepository
	timeout     time.Duration
	logger      *zap.Logger
}

// NewValidationService 创建兼容性校验服务
func NewValidationService(
	sessions repository.SessionsRepository,
	validations repository.ValidationsRepository,
	catalog repository.CatalogRepository,
	timeout time.Duration,
	logger *zap.Logger,
) ValidationService {
	return &validationService{
		sessions:    sessions,
		validations: validations,
		catalog:     catalog,
		timeout:     timeout,
		logger:      logger,
	}
}

func (s *validationService) Validate(ctx context.Context, sessionID string) (*ValidationOutcome, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", errs.ErrInvalid)
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	session, err := s.sessions.GetSession(tctx, sessionID)
	if err != nil {
		if !isExpectedErr(err) {
			s.logger.Error("failed to get session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil, storeErr("get session", err)
	}

	var results []domain.ValidationResult

	// 规则一：底盘-车身兼容（两者都已选择时评估；记录缺失或标记不兼容都算失败）
	if session.SelectedChassisID != "" && session.SelectedBodyID != "" {
		cctx, ccancel := withTimeout(ctx, s.timeout)
		compat, err := s.catalog.GetChassisBodyCompatibility(cctx, session.SelectedChassisID, session.SelectedBodyID)
		ccancel()
		if err != nil {
			s.logger.Error("failed to look up chassis-body compatibility", zap.Error(err))
			return nil, storeErr("get chassis-body compatibility", err)
		}

		if compat == nil || !compat.IsCompatible {
			results = append(results, domain.ValidationResult{
				Type:    domain.ValidationCompatibility,
				Status:  domain.ValidationError,
				Code:    domain.CodeIncompatibleChassisBody,
				Message: "Selected chassis and body are not compatible",
			})
		} else {
			results = append(results, domain.ValidationResult{
				Type:    domain.ValidationCompatibility,
				Status:  domain.ValidationPassed,
				Message: "Chassis and body are compatible",
			})
		}
	}

	// 规则二：底盘-燃料兼容（需存在匹配记录且 availability_status = Available）
	if session.SelectedChassisID != "" && session.SelectedFuelType != "" {
		fctx, fcancel := withTimeout(ctx, s.timeout)
		fuel, err := s.catalog.GetChassisFuelCompatibility(fctx, session.SelectedChassisID, session.SelectedFuelType)
		fcancel()
		if err != nil {
			s.logger.Error("failed to look up chassis-fuel compatibility", zap.Error(err))
			return nil, storeErr("get chassis-fuel compatibility", err)
		}

		if fuel == nil || fuel.AvailabilityStatus != domain.FuelAvailable {
			results = append(results, domain.ValidationResult{
				Type:    domain.ValidationFuelCompatibility,
				Status:  domain.ValidationError,
				Code:    domain.CodeIncompatibleFuelType,
				Message: "Selected fuel type is not available for this chassis",
			})
		} else {
			results = append(results, domain.ValidationResult{
				Type:    domain.ValidationFuelCompatibility,
				Status:  domain.ValidationPassed,
				Message: "Fuel type is compatible with chassis",
			})
		}
	}

	// 审计入库是尽力而为：失败只记日志，绝不改变校验结论
	now := time.Now().UTC()
	for _, r := range results {
		rec := &domain.ValidationRecord{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			Type:      r.Type,
			Status:    r.Status,
			ErrorCode: r.Code,
			Message:   r.Message,
			CreatedAt: now,
		}
		actx, acancel := withTimeout(ctx, s.timeout)
		if err := s.validations.AddValidationRecord(actx, rec); err != nil {
			s.logger.Warn("failed to record validation result",
				zap.String("session_id", sessionID),
				zap.String("type", r.Type),
				zap.Error(err))
		}
		acancel()
	}

	outcome := &ValidationOutcome{IsValid: true, Results: results}
	for _, r := range results {
		if r.Status == domain.ValidationError {
			outcome.IsValid = false
			break
		}
	}
	return outcome, nil
}
