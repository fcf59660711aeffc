package repository

import (
	"context"

	"github.com/shaed-rp/Endera/internal/domain"
)

// SavedConfigurationsRepository 已保存配置存储接口（仅插入 + 按 token 查询）
type SavedConfigurationsRepository interface {
	CreateSavedConfiguration(ctx context.Context, sc *domain.SavedConfiguration) error
	// GetSavedConfigurationByToken 未命中返回 errs.ErrNotFound
	GetSavedConfigurationByToken(ctx context.Context, shareToken string) (*domain.SavedConfiguration, error)
}
