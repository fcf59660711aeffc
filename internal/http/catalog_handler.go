package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/repository"
)

const catalogPrefix = "/catalog/api/v1"

// CatalogHandler 目录只读 HTTP 处理器：底盘 / 车身 / 选装件直读 + 价格手册导出
type CatalogHandler struct {
	catalog repository.CatalogRepository
	logger  *zap.Logger
}

func NewCatalogHandler(catalog repository.CatalogRepository, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, catalogPrefix), "/")
	parts := strings.Split(rest, "/")

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, Fail("Method not allowed"))
		return
	}

	switch {
	case rest == "chassis":
		h.listChassis(w, r)
	case len(parts) == 2 && parts[0] == "chassis":
		h.getChassis(w, r, parts[1])
	case rest == "bodies":
		h.listBodies(w, r)
	case len(parts) == 2 && parts[0] == "bodies":
		h.getBody(w, r, parts[1])
	case rest == "options":
		h.listOptions(w, r)
	case len(parts) == 2 && parts[0] == "options":
		h.getOption(w, r, parts[1])
	case rest == "export/price-book":
		h.exportPriceBook(w, r)
	default:
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
	}
}

func (h *CatalogHandler) listChassis(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListChassis(r.Context())
	if err != nil {
		h.logger.Error("failed to list chassis", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *CatalogHandler) getChassis(w http.ResponseWriter, r *http.Request, chassisID string) {
	chassis, err := h.catalog.GetChassis(r.Context(), chassisID)
	if err != nil {
		h.logger.Error("failed to get chassis", zap.String("chassis_id", chassisID), zap.Error(err))
		writeError(w, err)
		return
	}
	if chassis == nil {
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(chassis))
}

func (h *CatalogHandler) listBodies(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListBodyConfigurations(r.Context())
	if err != nil {
		h.logger.Error("failed to list body configurations", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *CatalogHandler) getBody(w http.ResponseWriter, r *http.Request, bodyID string) {
	body, err := h.catalog.GetBodyConfiguration(r.Context(), bodyID)
	if err != nil {
		h.logger.Error("failed to get body configuration", zap.String("body_id", bodyID), zap.Error(err))
		writeError(w, err)
		return
	}
	if body == nil {
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(body))
}

func (h *CatalogHandler) listOptions(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListOptions(r.Context())
	if err != nil {
		h.logger.Error("failed to list options", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *CatalogHandler) getOption(w http.ResponseWriter, r *http.Request, optionID string) {
	option, err := h.catalog.GetOption(r.Context(), optionID)
	if err != nil {
		h.logger.Error("failed to get option", zap.String("option_id", optionID), zap.Error(err))
		writeError(w, err)
		return
	}
	if option == nil {
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(option))
}

// exportPriceBook 导出价格手册 Excel（底盘 / 选装件两张工作表）
func (h *CatalogHandler) exportPriceBook(w http.ResponseWriter, r *http.Request) {
	f, err := BuildPriceBookWorkbook(r.Context(), h.catalog)
	if err != nil {
		h.logger.Error("failed to build price book", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("Failed to build price book"))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("price_book_%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(w); err != nil {
		h.logger.Error("failed to write price book response", zap.Error(err))
	}
}
