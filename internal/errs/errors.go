package errs

import "errors"

// 错误分类（跨 service / http 层使用 errors.Is 判断）
// - ErrNotFound:    会话/配置/目录条目不存在
// - ErrExpired:     会话超过有效期（与 NotFound 区分：记录存在但已失效）
// - ErrPersistence: 存储层不可用或写入被拒绝（对外只暴露通用信息）
// - ErrTimeout:     依赖调用超时（可重试）
// - ErrInvalid:     请求参数不合法（映射为 400）
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("session expired")
	ErrPersistence = errors.New("persistence failure")
	ErrTimeout     = errors.New("dependency timeout")
	ErrInvalid     = errors.New("invalid argument")
)
