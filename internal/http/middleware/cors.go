package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/rs/cors"

	"github.com/davidbz/lodestar/internal/config"
)

// correlationHeaders are always readable by browsers and accepted from them.
var correlationHeaders = []string{headerTraceID, headerRequestID}

// CORS applies the configured cross-origin policy. A nil config disables it.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	policy := cors.New(corsOptions(cfg))
	return policy.Handler
}

func corsOptions(cfg *config.CORSConfig) cors.Options {
	return cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   withHeaders(cfg.AllowedHeaders, headerRequestID),
		ExposedHeaders:   withHeaders(cfg.ExposedHeaders, correlationHeaders...),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           int(cfg.MaxAge / time.Second),
	}
}

// withHeaders appends the canonical form of extra headers missing from base.
func withHeaders(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, h := range append(slices.Clone(base), extra...) {
		h = http.CanonicalHeaderKey(h)
		if h == "" || slices.Contains(out, h) {
			continue
		}
		out = append(out, h)
	}
	return out
}
