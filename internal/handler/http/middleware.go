package http

import (
	"mime"
	"net/http"

	"github.com/Eggie20/Online-Supermarket/pkg/httputil"
	"github.com/Eggie20/Online-Supermarket/pkg/middleware"
)

// ContentTypeJSON answers 415 when a write request declares a body type
// other than JSON. A missing Content-Type is let through.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hasBody(r) {
			if ct := r.Header.Get("Content-Type"); ct != "" {
				if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
					httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
						Error: &httputil.ErrorResponse{
							Code:    "UNSUPPORTED_MEDIA_TYPE",
							Message: "Content-Type must be application/json",
						},
					})
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return r.ContentLength > 0
}

// profileFrom returns the shopper profile stored by middleware.ProfileFromHeader.
func profileFrom(r *http.Request) string {
	return middleware.ProfileIDFromContext(r.Context())
}
