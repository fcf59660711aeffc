package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaed-rp/Endera/internal/domain"
)

// MemoryValidationsRepo 内存版校验审计存储
type MemoryValidationsRepo struct {
	mu      sync.RWMutex
	records []domain.ValidationRecord
}

func NewMemoryValidationsRepo() *MemoryValidationsRepo {
	return &MemoryValidationsRepo{}
}

// 确保实现了接口
var _ ValidationsRepository = (*MemoryValidationsRepo)(nil)

func (r *MemoryValidationsRepo) AddValidationRecord(_ context.Context, rec *domain.ValidationRecord) error {
	if rec == nil || rec.SessionID == "" {
		return fmt.Errorf("validation record with session_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

// Records 返回审计记录副本（测试用）
func (r *MemoryValidationsRepo) Records() []domain.ValidationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ValidationRecord, len(r.records))
	copy(out, r.records)
	return out
}
