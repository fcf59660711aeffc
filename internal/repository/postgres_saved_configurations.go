package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
)

// PostgresSavedConfigurationsRepository 已保存配置Repository实现
type PostgresSavedConfigurationsRepository struct {
	db *sql.DB
}

// NewPostgresSavedConfigurationsRepository 创建已保存配置Repository
func NewPostgresSavedConfigurationsRepository(db *sql.DB) *PostgresSavedConfigurationsRepository {
	return &PostgresSavedConfigurationsRepository{db: db}
}

// 确保实现了接口
var _ SavedConfigurationsRepository = (*PostgresSavedConfigurationsRepository)(nil)

// CreateSavedConfiguration 插入不可变快照
func (r *PostgresSavedConfigurationsRepository) CreateSavedConfiguration(ctx context.Context, sc *domain.SavedConfiguration) error {
	if sc == nil {
		return fmt.Errorf("saved configuration is required")
	}

	query := `
		INSERT INTO saved_configurations (
			id, share_token, configuration_name, user_email, session_id,
			configuration_data, total_price, is_favorite, created_at
		) VALUES (
			$1::uuid, $2, $3, NULLIF($4, ''), $5::uuid, $6::jsonb, $7, $8, $9
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		sc.ID, sc.ShareToken, sc.Name, sc.UserEmail, sc.SessionID,
		string(sc.Snapshot), sc.TotalPrice, sc.IsFavorite, sc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create saved configuration: %w", err)
	}
	return nil
}

// GetSavedConfigurationByToken 按分享 token 获取快照
func (r *PostgresSavedConfigurationsRepository) GetSavedConfigurationByToken(ctx context.Context, shareToken string) (*domain.SavedConfiguration, error) {
	if shareToken == "" {
		return nil, fmt.Errorf("share_token is required")
	}

	query := `
		SELECT
			id::text,
			share_token,
			COALESCE(configuration_name, '') as configuration_name,
			COALESCE(user_email, '') as user_email,
			session_id::text,
			COALESCE(configuration_data, '{}'::jsonb) as configuration_data,
			COALESCE(total_price, 0) as total_price,
			is_favorite,
			created_at
		FROM saved_configurations
		WHERE share_token = $1
	`

	var sc domain.SavedConfiguration
	var snapshotRaw json.RawMessage
	err := r.db.QueryRowContext(ctx, query, shareToken).Scan(
		&sc.ID, &sc.ShareToken, &sc.Name, &sc.UserEmail, &sc.SessionID,
		&snapshotRaw, &sc.TotalPrice, &sc.IsFavorite, &sc.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("saved configuration: %w", errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get saved configuration: %w", err)
	}
	sc.Snapshot = snapshotRaw
	return &sc, nil
}
