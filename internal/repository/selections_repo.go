package repository

import (
	"context"

	"github.com/shaed-rp/Endera/internal/domain"
)

// SelectionsRepository 选择记录存储接口（按会话追加 / 删除单条）
type SelectionsRepository interface {
	AddSelection(ctx context.Context, sel *domain.Selection) error
	// ListSelections 按插入顺序（created_at, id）返回会话的全部选择
	ListSelections(ctx context.Context, sessionID string) ([]domain.Selection, error)
	// DeleteSelection 同时匹配 selectionID 和 sessionID 才删除；
	// 跨会话的 selectionID 命中 0 行，返回 errs.ErrNotFound。
	// 这个双键约束是正确性不变式，不是优化
	DeleteSelection(ctx context.Context, sessionID, selectionID string) error
}
