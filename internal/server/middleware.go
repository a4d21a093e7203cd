package server

import (
	"crypto/subtle"
	"net/http"

	"escmon/internal/logger"
)

// requireCronSecret protects the trigger endpoints with the shared cron
// secret. With no secret configured the endpoints are disabled outright.
func (s *Server) requireCronSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.CronSecret == "" {
			l := logger.With("server")
			l.Warn().Msg("Cron endpoint accessed but no cron secret is configured")
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "cron endpoint disabled"})
			return
		}

		expected := "Bearer " + s.cfg.CronSecret
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			l := logger.With("server")
			l.Warn().Str("remote_addr", r.RemoteAddr).Msg("Cron trigger rejected")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
