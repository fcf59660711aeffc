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

// SessionService 配置会话服务接口（生命周期管理）
type SessionService interface {
	// Create 新建会话：随机 token、step=chassis_selection、status=active、30 天有效期
	Create(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error)
	// Get 获取会话及其全部选择；不存在返回 ErrNotFound，
	// 超过有效期返回 ErrExpired（两者必须可区分）
	Get(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error)
	// Update 部分更新：只应用请求中非 nil 的字段，缺席字段绝不清零
	Update(ctx context.Context, sessionID string, req UpdateSessionRequest) (*domain.ConfigurationSession, error)
	// Complete / Abandon 显式状态迁移，仅允许从 active 出发
	Complete(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error)
	Abandon(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error)
}

// CreateSessionRequest 创建会话请求
type CreateSessionRequest struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`
	UserType  string `json:"userType"` // 缺省 customer
}

// CreateSessionResponse 创建会话响应
type CreateSessionResponse struct {
	SessionID    string    `json:"sessionId"`
	SessionToken string    `json:"sessionToken"`
	CurrentStep  string    `json:"currentStep"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// UpdateSessionRequest 会话部分更新请求（apply-if-present，逐字段）
//   - CurrentStep:       步骤指针，允许回退且不重置后续选择
//   - SelectedChassisID / SelectedBodyID / SelectedFuelType: 当前选择
//   - BasePrice / OptionsPrice / TotalPrice: 价格缓存（一般由计价引擎写通）
type UpdateSessionRequest struct {
	CurrentStep       *string  `json:"currentStep"`
	SelectedChassisID *string  `json:"selectedChassisId"`
	SelectedBodyID    *string  `json:"selectedBodyId"`
	SelectedFuelType  *string  `json:"selectedFuelType"`
	BasePrice         *float64 `json:"basePrice"`
	OptionsPrice      *float64 `json:"optionsPrice"`
	TotalPrice        *float64 `json:"totalPrice"`
}

// sessionService 配置会话服务实现
type sessionService struct {
	sessions   repository.SessionsRepository
	selections repository.SelectionsRepository
	timeout    time.Duration
	logger     *zap.Logger
}

// NewSessionService 创建配置会话服务
func NewSessionService(
	sessions repository.SessionsRepository,
	selections repository.SelectionsRepository,
	timeout time.Duration,
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		sessions:   sessions,
		selections: selections,
		timeout:    timeout,
		logger:     logger,
	}
}

func validStep(step string) bool {
	switch step {
	case domain.StepChassisSelection, domain.StepBodySelection,
		domain.StepOptionsSelection, domain.StepReview:
		return true
	}
	return false
}

func (s *sessionService) Create(ctx context.Context, req CreateSessionRequest) (*CreateSessionResponse, error) {
	token, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}

	userType := req.UserType
	if userType == "" {
		userType = TierCustomer
	}

	now := time.Now().UTC()
	session := &domain.ConfigurationSession{
		ID:           uuid.NewString(),
		SessionToken: token,
		UserEmail:    req.UserEmail,
		UserName:     req.UserName,
		UserPhone:    req.UserPhone,
		UserType:     userType,
		CurrentStep:  domain.StepChassisSelection,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		ExpiresAt:    now.Add(SessionTTL),
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.sessions.CreateSession(tctx, session); err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		return nil, storeErr("create session", err)
	}

	s.logger.Info("configuration session created",
		zap.String("session_id", session.ID),
		zap.String("user_type", session.UserType))

	return &CreateSessionResponse{
		SessionID:    session.ID,
		SessionToken: session.SessionToken,
		CurrentStep:  session.CurrentStep,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	selections, err := s.selections.ListSelections(tctx, sessionID)
	if err != nil {
		s.logger.Error("failed to list selections", zap.String("session_id", sessionID), zap.Error(err))
		return nil, storeErr("list selections", err)
	}
	session.Selections = selections
	return session, nil
}

// loadSession 读取并惰性判定过期：过期即返回 ErrExpired（区别于 ErrNotFound），
// 状态落库是尽力而为，失败不影响判定结果
func (s *sessionService) loadSession(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error) {
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

	if session.Expired(time.Now().UTC()) {
		if session.Status == domain.StatusActive {
			expired := domain.StatusExpired
			uctx, ucancel := withTimeout(ctx, s.timeout)
			defer ucancel()
			if _, err := s.sessions.UpdateSession(uctx, sessionID, repository.SessionUpdate{Status: &expired}); err != nil {
				s.logger.Warn("failed to persist expired status", zap.String("session_id", sessionID), zap.Error(err))
			}
		}
		return nil, fmt.Errorf("session %s: %w", sessionID, errs.ErrExpired)
	}
	return session, nil
}

func (s *sessionService) Update(ctx context.Context, sessionID string, req UpdateSessionRequest) (*domain.ConfigurationSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", errs.ErrInvalid)
	}
	if req.CurrentStep != nil && !validStep(*req.CurrentStep) {
		return nil, fmt.Errorf("unknown current_step %q: %w", *req.CurrentStep, errs.ErrInvalid)
	}

	upd := repository.SessionUpdate{
		CurrentStep:       req.CurrentStep,
		SelectedChassisID: req.SelectedChassisID,
		SelectedBodyID:    req.SelectedBodyID,
		SelectedFuelType:  req.SelectedFuelType,
		BasePrice:         req.BasePrice,
		OptionsPrice:      req.OptionsPrice,
		TotalPrice:        req.TotalPrice,
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	session, err := s.sessions.UpdateSession(tctx, sessionID, upd)
	if err != nil {
		if !isExpectedErr(err) {
			s.logger.Error("failed to update session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil, storeErr("update session", err)
	}
	return session, nil
}

func (s *sessionService) Complete(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error) {
	return s.transition(ctx, sessionID, domain.StatusCompleted)
}

func (s *sessionService) Abandon(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error) {
	return s.transition(ctx, sessionID, domain.StatusAbandoned)
}

// transition 显式状态迁移；expired / completed 没有出边
func (s *sessionService) transition(ctx context.Context, sessionID, target string) (*domain.ConfigurationSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.StatusActive {
		return nil, fmt.Errorf("no transition from %s to %s: %w", session.Status, target, errs.ErrInvalid)
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	updated, err := s.sessions.UpdateSession(tctx, sessionID, repository.SessionUpdate{Status: &target})
	if err != nil {
		s.logger.Error("failed to transition session", zap.String("session_id", sessionID), zap.Error(err))
		return nil, storeErr("update session", err)
	}
	s.logger.Info("session status changed",
		zap.String("session_id", sessionID), zap.String("status", target))
	return updated, nil
}
