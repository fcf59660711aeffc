package domain

import "time"

// SelectionType 取值
const (
	SelectionChassis = "chassis"
	SelectionBody    = "body"
	SelectionFuel    = "fuel"
	SelectionOption  = "option"
)

// Selection 选择记录（对应 configuration_selections 表）
// 每个会话内按插入顺序追加，不做原地修改；同类型可并存，
// 会话上的 selected_* 字段只反映该类型最近一次选择
type Selection struct {
	ID        string    `db:"id" json:"selectionId"`
	SessionID string    `db:"session_id" json:"sessionId"`
	Type      string    `db:"selection_type" json:"selectionType"`
	ItemID    string    `db:"selected_item_id" json:"selectedItemId"`
	ItemCode  string    `db:"selected_item_code" json:"selectedItemCode"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UnitPrice float64   `db:"unit_price" json:"unitPrice"`
	TotalPrice float64  `db:"total_price" json:"totalPrice"`
	IsValid   bool      `db:"is_valid" json:"isValid"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
