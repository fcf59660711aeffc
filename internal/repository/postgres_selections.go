package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shaed-rp/Endera/internal/domain"
	"github.com/shaed-rp/Endera/internal/errs"
)

// PostgresSelectionsRepository 选择记录Repository实现
type PostgresSelectionsRepository struct {
	db *sql.DB
}

// NewPostgresSelectionsRepository 创建选择记录Repository
func NewPostgresSelectionsRepository(db *sql.DB) *PostgresSelectionsRepository {
	return &PostgresSelectionsRepository{db: db}
}

// 确保实现了接口
var _ SelectionsRepository = (*PostgresSelectionsRepository)(nil)

// AddSelection 追加一条选择记录（不覆盖同类型历史记录）
func (r *PostgresSelectionsRepository) AddSelection(ctx context.Context, sel *domain.Selection) error {
	if sel == nil {
		return fmt.Errorf("selection is required")
	}

	query := `
		INSERT INTO configuration_selections (
			id, session_id, selection_type, selected_item_id, selected_item_code,
			quantity, unit_price, total_price, is_valid, created_at
		) VALUES (
			$1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		sel.ID, sel.SessionID, sel.Type, sel.ItemID, sel.ItemCode,
		sel.Quantity, sel.UnitPrice, sel.TotalPrice, sel.IsValid, sel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add selection: %w", err)
	}
	return nil
}

// ListSelections 按插入顺序返回会话的全部选择
func (r *PostgresSelectionsRepository) ListSelections(ctx context.Context, sessionID string) ([]domain.Selection, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session_id is required")
	}

	query := `
		SELECT
			id::text,
			session_id::text,
			selection_type,
			COALESCE(selected_item_id, '') as selected_item_id,
			COALESCE(selected_item_code, '') as selected_item_code,
			quantity,
			COALESCE(unit_price, 0) as unit_price,
			COALESCE(total_price, 0) as total_price,
			is_valid,
			created_at
		FROM configuration_selections
		WHERE session_id = $1::uuid
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	defer rows.Close()

	var selections []domain.Selection
	for rows.Next() {
		var s domain.Selection
		if err := rows.Scan(
			&s.ID, &s.SessionID, &s.Type, &s.ItemID, &s.ItemCode,
			&s.Quantity, &s.UnitPrice, &s.TotalPrice, &s.IsValid, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selections: %w", err)
	}
	return selections, nil
}

// DeleteSelection 删除同时匹配 (session_id, id) 的单条记录。
// WHERE 子句的双键匹配保证拿着别的会话的 selectionID 删不掉任何数据
func (r *PostgresSelectionsRepository) DeleteSelection(ctx context.Context, sessionID, selectionID string) error {
	if sessionID == "" || selectionID == "" {
		return fmt.Errorf("session_id and selection_id are required")
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM configuration_selections WHERE id = $1::uuid AND session_id = $2::uuid`,
		selectionID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("selection %s in session %s: %w", selectionID, sessionID, errs.ErrNotFound)
	}
	return nil
}
