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

// SelectionService 选择记录服务接口
type SelectionService interface {
	// Add 追加一条选择记录（历史保留，不覆盖同类型旧记录）；
	// chassis/body/fuel 类型同时推进会话上的 selected_* 字段（最新者生效）
	Add(ctx context.Context, sessionID string, req AddSelectionRequest) (*domain.Selection, error)
	// Remove 删除同时匹配 (sessionID, selectionID) 的单条记录；
	// 属于其他会话的 selectionID 不会删除任何数据，返回 ErrNotFound
	Remove(ctx context.Context, sessionID, selectionID string) error
}

// AddSelectionRequest 追加选择请求
type AddSelectionRequest struct {
	Type      string  `json:"selectionType"`
	ItemID    string  `json:"selectedItemId"`
	ItemCode  string  `json:"selectedItemCode"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// selectionService 选择记录服务实现
type selectionService struct {
	sessions   repository.SessionsRepository
	selections repository.SelectionsRepository
	locks      *SessionLocks
	timeout    time.Duration
	logger     *zap.Logger
}

// NewSelectionService 创建选择记录服务
// locks 必须与 PricingService 共用同一实例（会话内写操作串行化）
func NewSelectionService(
	sessions repository.SessionsRepository,
	selections repository.SelectionsRepository,
	locks *SessionLocks,
	timeout time.Duration,
	logger *zap.Logger,
) SelectionService {
	return &selectionService{
		sessions:   sessions,
		selections: selections,
		locks:      locks,
		timeout:    timeout,
		logger:     logger,
	}
}

func validSelectionType(t string) bool {
	switch t {
	case domain.SelectionChassis, domain.SelectionBody, domain.SelectionFuel, domain.SelectionOption:
		return true
	}
	return false
}

func (s *selectionService) Add(ctx context.Context, sessionID string, req AddSelectionRequest) (*domain.Selection, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required: %w", errs.ErrInvalid)
	}
	if !validSelectionType(req.Type) {
		return nil, fmt.Errorf("unknown selection_type %q: %w", req.Type, errs.ErrInvalid)
	}
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

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
	if session.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("session %s: %w", sessionID, errs.ErrExpired)
	}

	sel := &domain.Selection{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Type:       req.Type,
		ItemID:     req.ItemID,
		ItemCode:   req.ItemCode,
		Quantity:   quantity,
		UnitPrice:  req.UnitPrice,
		TotalPrice: req.UnitPrice * float64(quantity),
		IsValid:    true,
		CreatedAt:  time.Now().UTC(),
	}

	actx, acancel := withTimeout(ctx, s.timeout)
	defer acancel()
	if err := s.selections.AddSelection(actx, sel); err != nil {
		s.logger.Error("failed to add selection", zap.String("session_id", sessionID), zap.Error(err))
		return nil, storeErr("add selection", err)
	}

	// chassis/body/fuel 推进会话当前选择
	var upd repository.SessionUpdate
	switch req.Type {
	case domain.SelectionChassis:
		upd.SelectedChassisID = &sel.ItemID
	case domain.SelectionBody:
		upd.SelectedBodyID = &sel.ItemID
	case domain.SelectionFuel:
		upd.SelectedFuelType = &sel.ItemCode
	default:
		return sel, nil
	}

	uctx, ucancel := withTimeout(ctx, s.timeout)
	defer ucancel()
	if _, err := s.sessions.UpdateSession(uctx, sessionID, upd); err != nil {
		s.logger.Error("failed to advance session selection", zap.String("session_id", sessionID), zap.Error(err))
		return nil, storeErr("update session", err)
	}
	return sel, nil
}

func (s *selectionService) Remove(ctx context.Context, sessionID, selectionID string) error {
	if sessionID == "" || selectionID == "" {
		return fmt.Errorf("session_id and selection_id are required: %w", errs.ErrInvalid)
	}

	mu := s.locks.acquire(sessionID)
	mu.Lock()
	defer mu.Unlock()

	tctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.selections.DeleteSelection(tctx, sessionID, selectionID); err != nil {
		if !isExpectedErr(err) {
			s.logger.Error("failed to delete selection",
				zap.String("session_id", sessionID),
				zap.String("selection_id", selectionID),
				zap.Error(err))
		}
		return storeErr("delete selection", err)
	}
	return nil
}
