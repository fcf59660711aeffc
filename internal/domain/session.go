package domain

import "time"

// CurrentStep 取值（配置流程的有序步骤，前端可回退导航）
const (
	StepChassisSelection = "chassis_selection"
	StepBodySelection    = "body_selection"
	StepOptionsSelection = "options_selection"
	StepReview           = "review"
)

// SessionStatus 取值
// 状态机：active → expired（读取时惰性判定）；active → completed / abandoned（客户端显式触发）
// expired 与 completed 没有出边
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
	StatusAbandoned = "abandoned"
)

// ConfigurationSession 配置会话领域模型（对应 configuration_sessions 表）
// 不变式：ExpiresAt = CreatedAt + 30 天，创建时一次性写入，之后不再重算
type ConfigurationSession struct {
	ID               string    `db:"id" json:"sessionId"`
	SessionToken     string    `db:"session_token" json:"sessionToken"`
	UserEmail        string    `db:"user_email" json:"userEmail,omitempty"`
	UserName         string    `db:"user_name" json:"userName,omitempty"`
	UserPhone        string    `db:"user_phone" json:"userPhone,omitempty"`
	UserType         string    `db:"user_type" json:"userType"`
	CurrentStep      string    `db:"current_step" json:"currentStep"`
	Status           string    `db:"session_status" json:"status"`
	SelectedChassisID string   `db:"selected_chassis_id" json:"selectedChassisId,omitempty"`
	SelectedBodyID   string    `db:"selected_body_id" json:"selectedBodyId,omitempty"`
	SelectedFuelType string    `db:"selected_fuel_type" json:"selectedFuelType,omitempty"`
	BasePrice        float64   `db:"base_price" json:"basePrice"`
	OptionsPrice     float64   `db:"options_price" json:"optionsPrice"`
	TotalPrice       float64   `db:"total_price" json:"totalPrice"`
	// Version 预留给多实例部署下的 CAS 更新；单实例靠 service 层的会话锁串行化
	Version   int64     `db:"version" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`

	// Selections 仅在 Get 时填充，不落在 sessions 表内
	Selections []Selection `db:"-" json:"selections,omitempty"`
}

// Expired 判断会话是否已过有效期（惰性过期在 service 层落库）
func (s *ConfigurationSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
