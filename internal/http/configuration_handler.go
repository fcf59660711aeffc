package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/service"
)

const configurationsPrefix = "/config/api/v1/configurations"

// ConfigurationHandler 配置保存/分享 HTTP 处理器
type ConfigurationHandler struct {
	shares service.ShareService
	logger *zap.Logger
}

func NewConfigurationHandler(shares service.ShareService, logger *zap.Logger) *ConfigurationHandler {
	return &ConfigurationHandler{
		shares: shares,
		logger: logger,
	}
}

func (h *ConfigurationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, configurationsPrefix), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "save" && r.Method == http.MethodPost:
		h.saveConfiguration(w, r)
	case len(parts) == 2 && parts[0] == "shared" && r.Method == http.MethodGet:
		h.getShared(w, r, parts[1])
	default:
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
	}
}

func (h *ConfigurationHandler) saveConfiguration(w http.ResponseWriter, r *http.Request) {
	var req service.SaveConfigurationRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}

	resp, err := h.shares.Save(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resp))
}

func (h *ConfigurationHandler) getShared(w http.ResponseWriter, r *http.Request, shareToken string) {
	sc, err := h.shares.GetByToken(r.Context(), shareToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(sc))
}
