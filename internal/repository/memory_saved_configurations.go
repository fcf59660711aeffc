package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
)

// MemorySavedConfigurationsRepo 内存版已保存配置存储
type MemorySavedConfigurationsRepo struct {
	mu      sync.RWMutex
	byToken map[string]domain.SavedConfiguration
}

func NewMemorySavedConfigurationsRepo() *MemorySavedConfigurationsRepo {
	return &MemorySavedConfigurationsRepo{byToken: map[string]domain.SavedConfiguration{}}
}

// 确保实现了接口
var _ SavedConfigurationsRepository = (*MemorySavedConfigurationsRepo)(nil)

func (r *MemorySavedConfigurationsRepo) CreateSavedConfiguration(_ context.Context, sc *domain.SavedConfiguration) error {
	if sc == nil || sc.ShareToken == "" {
		return fmt.Errorf("saved configuration with share_token is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sc
	// 快照内容拷贝一份，避免调用方后续修改穿透到已保存数据
	cp.Snapshot = append([]byte(nil), sc.Snapshot...)
	r.byToken[sc.ShareToken] = cp
	return nil
}

func (r *MemorySavedConfigurationsRepo) GetSavedConfigurationByToken(_ context.Context, shareToken string) (*domain.SavedConfiguration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sc, ok := r.byToken[shareToken]
	if !ok {
		return nil, fmt.Errorf("saved configuration: %w", errs.ErrNotFound)
	}
	cp := sc
	cp.Snapshot = append([]byte(nil), sc.Snapshot...)
	return &cp, nil
}
