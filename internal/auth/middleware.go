package auth

import (
	"context"
	"net/http"
)

type contextKey string

const vendorIDKey contextKey = "vendor_id"

// Middleware verifies the bearer token on every request and injects the
// vendor id into the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := ExtractTokenFromRequest(r)
			if err != nil {
				http.Error(w, "Authorization required: "+err.Error(), http.StatusUnauthorized)
				return
			}

			vendorID, err := ParseToken(secret, tokenString)
			if err != nil {
				http.Error(w, "Invalid token: "+err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), vendorIDKey, vendorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VendorID extracts the authenticated vendor id in handlers.
func VendorID(ctx context.Context) string {
	if id, ok := ctx.Value(vendorIDKey).(string); ok {
		return id
	}
	return ""
}
