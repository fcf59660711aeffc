package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
	"github.com/shaed-rp/Endera/internal/repository"
	"github.com/shaed-rp/Endera/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShareService 配置保存/分享服务接口。
// 分享 token 即访问能力：GetByToken 不做任何额外授权；
// 快照在保存瞬间定格，之后会话再怎么变都不影响已发出的快照
type ShareService interface {
	Save(ctx context.Context, req SaveConfigurationRequest) (*SaveConfigurationResponse, error)
	GetByToken(ctx context.Context, shareToken string) (*domain.SavedConfiguration, error)
}

// SaveConfigurationRequest 保存配置请求
type SaveConfigurationRequest struct {
	SessionID  string `json:"sessionId"`
	Name       string `json:"configurationName"`
	UserEmail  string `json:"userEmail"`
	IsFavorite bool   `json:"isFavorite"`
}

// SaveConfigurationResponse 保存配置响应
type SaveConfigurationResponse struct {
	ConfigurationID string `json:"configurationId"`
	ShareToken      string `json:"shareToken"`
}

// shareService 配置保存/分享服务实现
type shareService struct {
	sessions   repository.SessionsRepository
	selections repository.SelectionsRepository
	saved      repository.SavedConfigurationsRepository
	cache      store.KV // 可为 nil（无 Redis 时直接走存储）
	cacheTTL   time.Duration
	timeout    time.Duration
	logger     *zap.Logger
}

// NewShareService 创建配置保存/分享服务
func NewShareService(
	sessions repository.SessionsRepository,
	selections repository.SelectionsRepository,
	saved repository.SavedConfigurationsRepository,
	cache store.KV,
	cacheTTL time.Duration,
	timeout time.Duration,
	logger *zap.Logger,
) ShareService {
	return &shareService{
		sessions:   sessions,
		selections: selections,
		saved:      saved,
		cache:      cache,
		cacheTTL:   cacheTTL,
		timeout:    timeout,
		logger:     logger,
	}
}

func shareCacheKey(token string) string { return "share:" + token }

func (s *shareService) Save(ctx context.Context, req SaveConfigurationRequest) (*SaveConfigurationResponse, error) {
	if req.SessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", errs.ErrInvalid)
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	session, err := s.sessions.GetSession(tctx, req.SessionID)
	if err != nil {
		if !isExpectedErr(err) {
			s.logger.Error("failed to get session", zap.String("session_id", req.SessionID), zap.Error(err))
		}
		return nil, storeErr("get session", err)
	}

	lctx, lcancel := withTimeout(ctx, s.timeout)
	selections, err := s.selections.ListSelections(lctx, req.SessionID)
	lcancel()
	if err != nil {
		s.logger.Error("failed to list selections", zap.String("session_id", req.SessionID), zap.Error(err))
		return nil, storeErr("list selections", err)
	}

	snapshot, err := json.Marshal(domain.ConfigurationSnapshot{
		ChassisID:  session.SelectedChassisID,
		BodyID:     session.SelectedBodyID,
		FuelType:   session.SelectedFuelType,
		Selections: selections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	token, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}

	sc := &domain.SavedConfiguration{
		ID:         uuid.NewString(),
		ShareToken: token,
		Name:       req.Name,
		UserEmail:  req.UserEmail,
		SessionID:  req.SessionID,
		Snapshot:   snapshot,
		TotalPrice: session.TotalPrice,
		IsFavorite: req.IsFavorite,
		CreatedAt:  time.Now().UTC(),
	}

	cctx, ccancel := withTimeout(ctx, s.timeout)
	defer ccancel()
	if err := s.saved.CreateSavedConfiguration(cctx, sc); err != nil {
		s.logger.Error("failed to save configuration", zap.String("session_id", req.SessionID), zap.Error(err))
		return nil, storeErr("create saved configuration", err)
	}

	s.cacheSet(sc)  // 快照不可变，保存即可预热缓存
	s.logger.Info("configuration saved",
		zap.String("configuration_id", sc.ID),
		zap.String("session_id", req.SessionID))

	return &SaveConfigurationResponse{ConfigurationID: sc.ID, ShareToken: sc.ShareToken}, nil
}

func (s *shareService) GetByToken(ctx context.Context, shareToken string) (*domain.SavedConfiguration, error) {
	if shareToken == "" {
		return nil, fmt.Errorf("share_token is required: %w", errs.ErrInvalid)
	}

	if s.cache != nil {
		val, err := s.cache.Get(ctx, shareCacheKey(shareToken))
		if err == nil {
			var sc domain.SavedConfiguration
			if uerr := json.Unmarshal([]byte(val), &sc); uerr == nil {
				return &sc, nil
			}
			// 缓存内容损坏：当作未命中，走存储
		} else if !errors.Is(err, store.ErrMiss) {
			s.logger.Warn("share cache get failed", zap.Error(err))
		}
	}

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	sc, err := s.saved.GetSavedConfigurationByToken(tctx, shareToken)
	if err != nil {
		if !isExpectedErr(err) {
			s.logger.Error("failed to get saved configuration", zap.Error(err))
		}
		return nil, storeErr("get saved configuration", err)
	}

	s.cacheSet(sc)
	return sc, nil
}

// cacheSet 尽力而为的缓存写入（独立短超时，失败只记日志）
func (s *shareService) cacheSet(sc *domain.SavedConfiguration) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(sc)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, shareCacheKey(sc.ShareToken), string(payload), s.cacheTTL); err != nil {
		s.logger.Warn("share cache set failed", zap.Error(err))
	}
}
