package domain

import "time"

// 校验规则类型
const (
	ValidationCompatibility     = "compatibility"
	ValidationFuelCompatibility = "fuel_compatibility"
)

// 校验结果状态
const (
	ValidationPassed = "passed"
	ValidationError  = "error"
)

// 错误码
const (
	CodeIncompatibleChassisBody = "INCOMPATIBLE_CHASSIS_BODY"
	CodeIncompatibleFuelType    = "INCOMPATIBLE_FUEL_TYPE"
)

// ValidationResult 单条规则的评估结果（校验失败是数据，不是 error）
type ValidationResult struct {
	Type    string `json:"type"`
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ValidationRecord 审计记录（对应 configuration_validations 表，仅插入）
type ValidationRecord struct {
	ID        string    `db:"id"`
	SessionID string    `db:"session_id"`
	Type      string    `db:"validation_type"`
	Status    string    `db:"validation_status"`
	ErrorCode string    `db:"error_code"`
	Message   string    `db:"error_message"`
	CreatedAt time.Time `db:"created_at"`
}
