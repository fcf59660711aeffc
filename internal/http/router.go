package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterConfiguratorRoutes 注册配置会话 / 计价 / 保存分享路由
func (r *Router) RegisterConfiguratorRoutes(s *SessionHandler, p *PricingHandler, c *ConfigurationHandler) {
	r.Handle("/config/api/v1/sessions", s)
	r.Handle("/config/api/v1/sessions/", s)
	r.Handle("/config/api/v1/pricing/", p)
	r.Handle("/config/api/v1/configurations/", c)
}

// RegisterCatalogRoutes 注册目录直读路由
func (r *Router) RegisterCatalogRoutes(h *CatalogHandler) {
	r.Handle("/catalog/api/v1/", h)
}
