package repository

import (
	"context"

	"github.com/shaed-rp/Endera/internal/domain"
)

// SessionUpdate 会话部分更新（apply-if-present 契约）
// nil 指针 = 不触碰该字段，绝不重置为零值
//   - CurrentStep:       流程步骤指针（允许回退导航）
//   - SelectedChassisID: 最近一次底盘选择
//   - SelectedBodyID:    最近一次车身选择
//   - SelectedFuelType:  最近一次燃料选择
//   - Status:            会话状态（service 层负责状态机约束）
//   - BasePrice / OptionsPrice / TotalPrice: 计价引擎的写通缓存
type SessionUpdate struct {
	CurrentStep       *string
	Status            *string
	SelectedChassisID *string
	SelectedBodyID    *string
	SelectedFuelType  *string
	BasePrice         *float64
	OptionsPrice      *float64
	TotalPrice        *float64
}

// SessionsRepository 配置会话存储接口
// 未命中返回 errs.ErrNotFound（与目录查询不同，会话缺失是调用方错误）
type SessionsRepository interface {
	CreateSession(ctx context.Context, s *domain.ConfigurationSession) error
	GetSession(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error)
	UpdateSession(ctx context.Context, sessionID string, upd SessionUpdate) (*domain.ConfigurationSession, error)
}
