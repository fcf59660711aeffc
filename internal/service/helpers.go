package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shaed-rp/Endera/internal/errs"
)

// SessionTTL 会话有效期：创建时写死 30 天，之后不再重算
const SessionTTL = 30 * 24 * time.Hour

// 计价层级（customer = 建议零售价，dealer = 经销商进货价）
const (
	TierCustomer = "customer"
	TierDealer   = "dealer"
)

// newOpaqueToken 生成 32 字节随机数的 hex 串（64 字符）。
// 会话 token 与分享 token 都用它：不从任何顺序 id 派生，防枚举
func newOpaqueToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// withTimeout 给单次存储/目录调用套上限时
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// storeErr 把存储层错误映射为对外错误分类。
// 原始错误只进日志，不透传给调用方
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrExpired), errors.Is(err, errs.ErrInvalid):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, errs.ErrTimeout)
	default:
		return fmt.Errorf("%s: %w", op, errs.ErrPersistence)
	}
}

// isExpectedErr 调用方错误（不记 error 级日志）
func isExpectedErr(err error) bool {
	return errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrExpired) || errors.Is(err, errs.ErrInvalid)
}

// SessionLocks 会话级互斥表。
// 同一会话内：选择写入与计价写通必须串行，否则写通缓存会丢更新；
// 不同会话之间互不竞争。SelectionService 与 PricingService 必须共用同一实例
type SessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{locks: map[string]*sync.Mutex{}}
}

func (l *SessionLocks) acquire(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	return m
}
