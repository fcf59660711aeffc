package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/shaed-rp/Endera/internal/service"
)

const sessionsPrefix = "/config/api/v1/sessions"

// SessionHandler 配置会话 HTTP 处理器：会话生命周期、选择记录、兼容性校验
type SessionHandler struct {
	sessions   service.SessionService
	selections service.SelectionService
	validator  service.ValidationService
	logger     *zap.Logger
}

func NewSessionHandler(
	sessions service.SessionService,
	selections service.SelectionService,
	validator service.ValidationService,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessions:   sessions,
		selections: selections,
		validator:  validator,
		logger:     logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, sessionsPrefix), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "" && r.Method == http.MethodPost:
		h.createSession(w, r)
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.getSession(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodPut:
		h.updateSession(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "complete" && r.Method == http.MethodPost:
		h.completeSession(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "abandon" && r.Method == http.MethodPost:
		h.abandonSession(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "validate" && r.Method == http.MethodPost:
		h.validateSession(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "selections" && r.Method == http.MethodPost:
		h.addSelection(w, r, parts[0])
	case len(parts) == 3 && parts[1] == "selections" && r.Method == http.MethodDelete:
		h.removeSelection(w, r, parts[0], parts[2])
	default:
		writeJSON(w, http.StatusNotFound, Fail("Not found"))
	}
}

func (h *SessionHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSessionRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}

	resp, err := h.sessions.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resp))
}

func (h *SessionHandler) getSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(session))
}

func (h *SessionHandler) updateSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req service.UpdateSessionRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}

	session, err := h.sessions.Update(r.Context(), sessionID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(session))
}

func (h *SessionHandler) completeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Complete(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(session))
}

func (h *SessionHandler) abandonSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := h.sessions.Abandon(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(session))
}

func (h *SessionHandler) validateSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	outcome, err := h.validator.Validate(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(outcome))
}

func (h *SessionHandler) addSelection(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req service.AddSelectionRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("Invalid request body"))
		return
	}

	selection, err := h.selections.Add(r.Context(), sessionID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(selection))
}

func (h *SessionHandler) removeSelection(w http.ResponseWriter, r *http.Request, sessionID, selectionID string) {
	if err := h.selections.Remove(r.Context(), sessionID, selectionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"deleted": selectionID}))
}
