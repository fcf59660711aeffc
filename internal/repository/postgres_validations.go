package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shaed-rp/Endera/internal/domain"
)

// PostgresValidationsRepository 校验审计Repository实现
type PostgresValidationsRepository struct {
	db *sql.DB
}

// NewPostgresValidationsRepository 创建校验审计Repository
func NewPostgresValidationsRepository(db *sql.DB) *PostgresValidationsRepository {
	return &PostgresValidationsRepository{db: db}
}

// 确保实现了接口
var _ ValidationsRepository = (*PostgresValidationsRepository)(nil)

// AddValidationRecord 追加一条审计记录（通过/失败都记录）
func (r *PostgresValidationsRepository) AddValidationRecord(ctx context.Context, rec *domain.ValidationRecord) error {
	if rec == nil {
		return fmt.Errorf("validation record is required")
	}

	query := `
		INSERT INTO configuration_validations (
			id, session_id, validation_type, validation_status,
			error_code, error_message, created_at
		) VALUES (
			$1::uuid, $2::uuid, $3, $4, NULLIF($5, ''), $6, $7
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.SessionID, rec.Type, rec.Status, rec.ErrorCode, rec.Message, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add validation record: %w", err)
	}
	return nil
}
