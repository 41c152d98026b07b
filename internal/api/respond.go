package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"org-directory/internal/directory"
	"org-directory/internal/logger"
	"org-directory/internal/metrics"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// paramError：请求参数不合法，在进入引擎之前拦截
type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }

func storageErr(err error) error {
	return &directory.Error{Kind: directory.KindStorage, Op: "ping", Err: err}
}

// writeError：错误分类映射到状态码
// NotFound → 404，InvalidInput → 400，Storage 及未知错误 → 503；存储错误细节只写日志。
func writeError(w http.ResponseWriter, r *http.Request, route string, err error) {
	var pe *paramError
	if errors.As(err, &pe) {
		metrics.ErrorsTotal.WithLabelValues(route, string(directory.KindInvalidInput)).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: pe.msg})
		return
	}
	kind := directory.KindOf(err)
	detail := ""
	var de *directory.Error
	if errors.As(err, &de) {
		detail = de.Msg
	}
	switch kind {
	case directory.KindNotFound:
		metrics.ErrorsTotal.WithLabelValues(route, string(kind)).Inc()
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: detail})
	case directory.KindInvalidInput:
		metrics.ErrorsTotal.WithLabelValues(route, string(kind)).Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: detail})
	default:
		metrics.ErrorsTotal.WithLabelValues(route, string(directory.KindStorage)).Inc()
		logger.L().Error("api_storage_error", "route", route, "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: "storage unavailable"})
	}
}
