package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
)

// MemorySelectionsRepo 内存版选择记录存储
type MemorySelectionsRepo struct {
	mu         sync.RWMutex
	selections map[string][]domain.Selection // sessionID -> 按插入顺序
}

func NewMemorySelectionsRepo() *MemorySelectionsRepo {
	return &MemorySelectionsRepo{selections: map[string][]domain.Selection{}}
}

// 确保实现了接口
var _ SelectionsRepository = (*MemorySelectionsRepo)(nil)

func (r *MemorySelectionsRepo) AddSelection(_ context.Context, sel *domain.Selection) error {
	if sel == nil || sel.ID == "" || sel.SessionID == "" {
		return fmt.Errorf("selection with id and session_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections[sel.SessionID] = append(r.selections[sel.SessionID], *sel)
	return nil
}

func (r *MemorySelectionsRepo) ListSelections(_ context.Context, sessionID string) ([]domain.Selection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.selections[sessionID]
	if len(src) == 0 {
		return nil, nil
	}
	out := make([]domain.Selection, len(src))
	copy(out, src)
	return out, nil
}

func (r *MemorySelectionsRepo) DeleteSelection(_ context.Context, sessionID, selectionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.selections[sessionID]
	for i, s := range list {
		if s.ID == selectionID {
			r.selections[sessionID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("selection %s in session %s: %w", selectionID, sessionID, errs.ErrNotFound)
}
