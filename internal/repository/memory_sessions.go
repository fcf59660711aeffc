package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
)

// MemorySessionsRepo 内存版会话存储（DB 不可用时的回退实现，也用于单元测试）
type MemorySessionsRepo struct {
	mu       sync.RWMutex
	sessions map[string]domain.ConfigurationSession // sessionID -> session
}

func NewMemorySessionsRepo() *MemorySessionsRepo {
	return &MemorySessionsRepo{sessions: map[string]domain.ConfigurationSession{}}
}

// 确保实现了接口
var _ SessionsRepository = (*MemorySessionsRepo)(nil)

func (r *MemorySessionsRepo) CreateSession(_ context.Context, s *domain.ConfigurationSession) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("session with id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	cp.Selections = nil
	cp.Version = 1
	r.sessions[s.ID] = cp
	return nil
}

func (r *MemorySessionsRepo) GetSession(_ context.Context, sessionID string) (*domain.ConfigurationSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, errs.ErrNotFound)
	}
	cp := s
	return &cp, nil
}

func (r *MemorySessionsRepo) UpdateSession(_ context.Context, sessionID string, upd SessionUpdate) (*domain.ConfigurationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, errs.ErrNotFound)
	}

	changed := false
	if upd.CurrentStep != nil {
		s.CurrentStep = *upd.CurrentStep
		changed = true
	}
	if upd.Status != nil {
		s.Status = *upd.Status
		changed = true
	}
	if upd.SelectedChassisID != nil {
		s.SelectedChassisID = *upd.SelectedChassisID
		changed = true
	}
	if upd.SelectedBodyID != nil {
		s.SelectedBodyID = *upd.SelectedBodyID
		changed = true
	}
	if upd.SelectedFuelType != nil {
		s.SelectedFuelType = *upd.SelectedFuelType
		changed = true
	}
	if upd.BasePrice != nil {
		s.BasePrice = *upd.BasePrice
		changed = true
	}
	if upd.OptionsPrice != nil {
		s.OptionsPrice = *upd.OptionsPrice
		changed = true
	}
	if upd.TotalPrice != nil {
		s.TotalPrice = *upd.TotalPrice
		changed = true
	}
	if changed {
		s.Version++
	}
	r.sessions[sessionID] = s
	cp := s
	return &cp, nil
}
