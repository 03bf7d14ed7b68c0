package webhook

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// MaxBodyBytes bounds the body read for signature checks
const MaxBodyBytes = 1 << 20

// Middleware rejects requests whose body is not signed with secret. The
// body is restored for the next handler.
func Middleware(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes+1))
			r.Body.Close()
			if err != nil || len(body) > MaxBodyBytes {
				logger.Warn("Unreadable webhook body", zap.String("path", r.URL.Path), zap.Error(err))
				reject(w)
				return
			}

			if !Verify(body, r.Header.Get(SignatureHeader), secret) {
				logger.Warn("Invalid webhook signature",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				reject(w)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			next.ServeHTTP(w, r)
		})
	}
}

func reject(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "invalid signature"})
}
