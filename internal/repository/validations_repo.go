package repository

import (
	"context"

	"github.com/shaed-rp/Endera/internal/domain"
)

// ValidationsRepository 校验审计存储接口（仅插入，不修改不删除）
type ValidationsRepository interface {
	AddValidationRecord(ctx context.Context, rec *domain.ValidationRecord) error
}
