package httpapi

// Result 与 configurator 前端的响应约定保持一致
// - success: 是否成功
// - data:    业务数据
// - error:   失败时的简短信息（不暴露内部细节）
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail(message string) Result[any] {
	return Result[any]{Success: false, Error: message}
}
