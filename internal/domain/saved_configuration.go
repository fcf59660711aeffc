package domain

import (
	"encoding/json"
	"time"
)

// ConfigurationSnapshot 保存时刻的会话快照内容（保存后不可变）
type ConfigurationSnapshot struct {
	ChassisID  string      `json:"chassis_id"`
	BodyID     string      `json:"body_id"`
	FuelType   string      `json:"fuel_type"`
	Selections []Selection `json:"selections"`
}

// SavedConfiguration 已保存配置（对应 saved_configurations 表，仅插入）
// ShareToken 是唯一的对外访问凭证，不从任何顺序 id 派生
type SavedConfiguration struct {
	ID         string          `db:"id" json:"configurationId"`
	ShareToken string          `db:"share_token" json:"shareToken"`
	Name       string          `db:"configuration_name" json:"configurationName"`
	UserEmail  string          `db:"user_email" json:"userEmail"`
	SessionID  string          `db:"session_id" json:"sessionId"`
	Snapshot   json.RawMessage `db:"configuration_data" json:"configurationData"`
	TotalPrice float64         `db:"total_price" json:"totalPrice"`
	IsFavorite bool            `db:"is_favorite" json:"isFavorite"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}
