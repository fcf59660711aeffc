package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shaed-rp/Endera/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// QuoteRequest 提交给报价单渲染服务（Document Generator）的请求体。
// 本服务的唯一职责是提供稳定可复现的报价分解，渲染由对方完成
type QuoteRequest struct {
	SessionID   string                   `json:"sessionId"`
	UserType    string                   `json:"userType"`
	Pricing     *domain.PricingBreakdown `json:"pricing"`
	GeneratedAt time.Time                `json:"generatedAt"`
}

// QuoteReceipt 渲染服务返回的回执
type QuoteReceipt struct {
	QuoteID     string `json:"quoteId"`
	DocumentURL string `json:"documentUrl"`
}

// QuoteClient 报价单渲染服务 API 客户端
type QuoteClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewQuoteClient 创建报价单渲染服务客户端
func NewQuoteClient(baseURL string, timeout time.Duration, logger *zap.Logger) *QuoteClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout). // PDF 渲染可能需要较长时间
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &QuoteClient{
		httpClient: client,
		logger:     logger,
	}
}

// SubmitQuote 把会话的报价分解推送给渲染服务，返回文档回执
func (c *QuoteClient) SubmitQuote(ctx context.Context, sessionID, tier string, pricing *domain.PricingBreakdown) (*QuoteReceipt, error) {
	if pricing == nil {
		return nil, fmt.Errorf("pricing breakdown is required")
	}

	req := QuoteRequest{
		SessionID:   sessionID,
		UserType:    tier,
		Pricing:     pricing,
		GeneratedAt: time.Now().UTC(),
	}

	var receipt QuoteReceipt
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&receipt).
		Post("/api/v1/quotes")
	if err != nil {
		return nil, fmt.Errorf("quote service request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quote service returned status %d", resp.StatusCode())
	}

	c.logger.Info("quote submitted",
		zap.String("session_id", sessionID),
		zap.String("quote_id", receipt.QuoteID))
	return &receipt, nil
}
