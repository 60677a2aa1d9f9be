package middleware

import (
	"net"
	"net/http"
	"strings"

	"musicgram/internal/model"
)

// ClientInfoMiddleware captures the caller's IP and User-Agent and puts them
// on the request context so the behavior log can stamp its entries without
// the handlers threading request details through every service call.
func ClientInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := model.ClientInfo{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}
		next.ServeHTTP(w, r.WithContext(model.WithClientInfo(r.Context(), info)))
	})
}

// clientIP prefers the first X-Forwarded-For hop (set by the load balancer),
// then X-Real-IP, then the raw remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
