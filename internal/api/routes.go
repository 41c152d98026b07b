// 包 api：集中注册 HTTP API 路由以解耦主入口，便于后续扩展与替换
package api

import (
	"context"
	"net/http"
	"time"

	"org-directory/internal/cache"
	"org-directory/internal/metrics"
	"org-directory/internal/store"
	"org-directory/internal/version"
)

// Server：路由处理器共享的依赖
// 约束：每个请求在 store.View 作用域内执行，引擎只见到该作用域的 Session。
type Server struct {
	st    *store.Store
	cache cache.Cache
}

// 构建并返回 API 路由：独立 ServeMux 便于在主入口挂载到 API_BASE 前缀
// c 可为 nil，表示不使用缓存。
func BuildRoutes(st *store.Store, c cache.Cache) *http.ServeMux {
	s := &Server{st: st, cache: c}
	mux := http.NewServeMux()
	handle := func(pattern, route string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(route, fn))
	}
	handle("GET /organizations", "organizations", s.listOrganizations)
	handle("GET /organizations/{id}", "organization", s.getOrganization)
	handle("GET /organizations/by-name", "organization_by_name", s.getOrganizationByName)
	handle("GET /organizations/address", "organizations_at_address", s.organizationsAtAddress)
	handle("GET /organizations/nearby", "organizations_nearby", s.organizationsNearby)
	handle("GET /addresses", "addresses", s.listAddresses)
	handle("GET /addresses/nearby", "addresses_nearby", s.addressesNearby)
	handle("GET /activities", "activities", s.listActivities)
	handle("GET /activities/subtree", "activity_subtree", s.activitySubtree)
	handle("GET /healthz", "healthz", s.healthz)
	handle("GET /version", "version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"commit": version.Commit, "build_time": version.BuildTime})
	})
	return mux
}

// instrument：按路由统计请求数与耗时
func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		metrics.RequestsTotal.WithLabelValues(route).Inc()
		next.ServeHTTP(w, r)
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(t).Milliseconds()))
	})
}

// view：在只读作用域内执行 fn
func (s *Server) view(ctx context.Context, fn func(h store.Handle) error) error {
	return s.st.View(ctx, func(sess *store.Session) error { return fn(sess) })
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.st.Ping(ctx); err != nil {
		writeError(w, r, "healthz", storageErr(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
