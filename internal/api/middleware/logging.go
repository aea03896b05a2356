package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sistema/engine/internal/auth"
	"github.com/sistema/engine/pkg/logger"
)

// Logging logs basic request information with request ID.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.L().Info("request",
			zap.String("id", GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// Audit logs the caller of a mutating request once it is authenticated.
func Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			if p, ok := auth.FromContext(r.Context()); ok {
				logger.L().Info("mutation",
					zap.String("id", GetRequestID(r.Context())),
					zap.String("user_id", p.UserID),
					zap.String("role", string(p.Role)),
					zap.String("org_id", p.OrgID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
			}
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) { s.status = code; s.ResponseWriter.WriteHeader(code) }
