package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/service"
)

const pricingPrefix = "/config/api/v1/pricing"

// PricingHandler 计价 HTTP 处理器：会话明细、快速估价、选装件单价、报价单推送
type PricingHandler struct {
	pricing service.PricingService
	quotes  *service.QuoteClient // 可为 nil（未配置渲染服务）
	logger  *zap.Logger
}

func NewPricingHandler(pricing service.PricingService, quotes *service.QuoteClient, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		pricing: pricing,
		quotes:  quotes,
		logger:  logger,
	}
}

func (h *PricingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, pricingPrefix), "/")
	parts := strings.Split(rest, "/")

	switch {
	case len(parts) == 2 && parts[0] == "sessions" && r.Method == http.MethodGet:
		h.sessionBreakdown(w, r, parts[1])
	case len(parts) == 3 && parts[0] == "sessions" && parts[2] == "quote" && r.Method == http.MethodPost:
		h.pushQuote(w, r, parts[1])
	case rest == "estimate" && r.Method == http.MethodGet:
		h.estimate(w, r)
	case len(parts) == 2 && parts[0] == "options" && r.Method == http.MethodGet:
		h.optionPricing(w, r, parts[1])
	default:
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
	}
}

func (h *PricingHandler) sessionBreakdown(w http.ResponseWriter, r *http.Request, sessionID string) {
	tier := r.URL.Query().Get("userType")
	breakdown, err := h.pricing.ComputeBreakdown(r.Context(), sessionID, tier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(breakdown))
}

func (h *PricingHandler) estimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	estimate, err := h.pricing.Estimate(r.Context(), q.Get("chassisId"), q.Get("bodyId"), q.Get("fuelType"), q.Get("userType"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(estimate))
}

func (h *PricingHandler) optionPricing(w http.ResponseWriter, r *http.Request, optionID string) {
	resp, err := h.pricing.OptionPricing(r.Context(), optionID, r.URL.Query().Get("userType"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// pushQuote 先计算会话明细，再推送到报价单渲染服务
func (h *PricingHandler) pushQuote(w http.ResponseWriter, r *http.Request, sessionID string) {
	if h.quotes == nil {
		writeJSON(w, http.StatusServiceUnavailable, Fail("Quote service not configured"))
		return
	}

	tier := r.URL.Query().Get("userType")
	breakdown, err := h.pricing.ComputeBreakdown(r.Context(), sessionID, tier)
	if err != nil {
		writeError(w, err)
		return
	}

	receipt, err := h.quotes.SubmitQuote(r.Context(), sessionID, tier, breakdown)
	if err != nil {
		h.logger.Error("failed to submit quote", zap.String("session_id", sessionID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, Fail("Quote service error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(receipt))
}
