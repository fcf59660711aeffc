package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
)

// PostgresSessionsRepository 配置会话Repository实现
type PostgresSessionsRepository struct {
	db *sql.DB
}

// NewPostgresSessionsRepository 创建配置会话Repository
func NewPostgresSessionsRepository(db *sql.DB) *PostgresSessionsRepository {
	return &PostgresSessionsRepository{db: db}
}

// 确保实现了接口
var _ SessionsRepository = (*PostgresSessionsRepository)(nil)

const sessionColumns = `
	id::text,
	session_token,
	COALESCE(user_email, '') as user_email,
	COALESCE(user_name, '') as user_name,
	COALESCE(user_phone, '') as user_phone,
	COALESCE(user_type, 'customer') as user_type,
	current_step,
	session_status,
	COALESCE(selected_chassis_id::text, '') as selected_chassis_id,
	COALESCE(selected_body_id::text, '') as selected_body_id,
	COALESCE(selected_fuel_type, '') as selected_fuel_type,
	COALESCE(base_price, 0) as base_price,
	COALESCE(options_price, 0) as options_price,
	COALESCE(total_price, 0) as total_price,
	version,
	created_at,
	expires_at`

func scanSession(row *sql.Row) (*domain.ConfigurationSession, error) {
	var s domain.ConfigurationSession
	err := row.Scan(
		&s.ID,
		&s.SessionToken,
		&s.UserEmail,
		&s.UserName,
		&s.UserPhone,
		&s.UserType,
		&s.CurrentStep,
		&s.Status,
		&s.SelectedChassisID,
		&s.SelectedBodyID,
		&s.SelectedFuelType,
		&s.BasePrice,
		&s.OptionsPrice,
		&s.TotalPrice,
		&s.Version,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession 插入新会话（id、token、过期时间均由 service 层生成）
func (r *PostgresSessionsRepository) CreateSession(ctx context.Context, s *domain.ConfigurationSession) error {
	if s == nil {
		return fmt.Errorf("session is required")
	}

	query := `
		INSERT INTO configuration_sessions (
			id, session_token, user_email, user_name, user_phone, user_type,
			current_step, session_status, version, created_at, expires_at
		) VALUES (
			$1::uuid, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), $6,
			$7, $8, 1, $9, $10
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.SessionToken, s.UserEmail, s.UserName, s.UserPhone, s.UserType,
		s.CurrentStep, s.Status, s.CreatedAt, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession 按 id 获取会话（不含 selections）
func (r *PostgresSessionsRepository) GetSession(ctx context.Context, sessionID string) (*domain.ConfigurationSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	query := fmt.Sprintf(`SELECT %s FROM configuration_sessions WHERE id = $1::uuid`, sessionColumns)

	s, err := scanSession(r.db.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", sessionID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// UpdateSession 部分更新（只更新 upd 中非 nil 的字段）
func (r *PostgresSessionsRepository) UpdateSession(ctx context.Context, sessionID string, upd SessionUpdate) (*domain.ConfigurationSession, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	// 构建UPDATE语句
	updates := []string{}
	args := []any{sessionID}
	argIdx := 2

	add := func(col string, v any) {
		updates = append(updates, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, v)
		argIdx++
	}

	if upd.CurrentStep != nil {
		add("current_step", *upd.CurrentStep)
	}
	if upd.Status != nil {
		add("session_status", *upd.Status)
	}
	if upd.SelectedChassisID != nil {
		updates = append(updates, fmt.Sprintf("selected_chassis_id = NULLIF($%d, '')::uuid", argIdx))
		args = append(args, *upd.SelectedChassisID)
		argIdx++
	}
	if upd.SelectedBodyID != nil {
		updates = append(updates, fmt.Sprintf("selected_body_id = NULLIF($%d, '')::uuid", argIdx))
		args = append(args, *upd.SelectedBodyID)
		argIdx++
	}
	if upd.SelectedFuelType != nil {
		add("selected_fuel_type", *upd.SelectedFuelType)
	}
	if upd.BasePrice != nil {
		add("base_price", *upd.BasePrice)
	}
	if upd.OptionsPrice != nil {
		add("options_price", *upd.OptionsPrice)
	}
	if upd.TotalPrice != nil {
		add("total_price", *upd.TotalPrice)
	}

	if len(updates) == 0 {
		// 没有待更新字段时退化为读取
		return r.GetSession(ctx, sessionID)
	}
	updates = append(updates, "version = version + 1")

	query := fmt.Sprintf(`
		UPDATE configuration_sessions
		SET %s
		WHERE id = $1::uuid
		RETURNING %s
	`, strings.Join(updates, ", "), sessionColumns)

	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", sessionID, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return s, nil
}
