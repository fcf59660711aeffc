package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shaed-rp/Endera/internal/errs"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readBodyJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeError 把 service 层错误分类映射为 HTTP 状态码：
// NotFound→404，Expired→410（与 404 区分），Invalid→400，
// Timeout→504（可重试），其余（含 Persistence）→500
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrExpired):
		writeJSON(w, http.StatusGone, Fail("Session expired"))
	case errors.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
	case errors.Is(err, errs.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	case errors.Is(err, errs.ErrTimeout):
		writeJSON(w, http.StatusGatewayTimeout, Fail("Dependency timeout, please retry"))
	default:
		writeJSON(w, http.StatusInternalServerError, Fail("Internal server error"))
	}
}
