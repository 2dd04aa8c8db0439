package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKeyType string

const profileIDKey contextKeyType = "profile_id"

// ProfileHeader carries the opaque shopper profile identifier.
const ProfileHeader = "X-Profile-ID"

// MaxProfileIDLength bounds the profile identifier, which becomes part of a
// storage key.
const MaxProfileIDLength = 128

// ProfileQueryParam carries the profile for clients that cannot set request
// headers, such as a browser EventSource.
const ProfileQueryParam = "profile"

// ProfileFromHeader requires the X-Profile-ID header and injects the profile
// into the request context. Requests without a usable header get a 400.
func ProfileFromHeader(next http.Handler) http.Handler {
	return requireProfile(next, false)
}

// ProfileFromHeaderOrQuery is ProfileFromHeader with a fallback to the
// ?profile= query parameter when the header is absent.
func ProfileFromHeaderOrQuery(next http.Handler) http.Handler {
	return requireProfile(next, true)
}

func requireProfile(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := strings.TrimSpace(r.Header.Get(ProfileHeader))
		if profile == "" && allowQuery {
			profile = strings.TrimSpace(r.URL.Query().Get(ProfileQueryParam))
		}

		switch {
		case profile == "":
			writeProfileError(w, "missing "+ProfileHeader+" header")
			return
		case !validProfileID(profile):
			writeProfileError(w, "invalid "+ProfileHeader+" header")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), profile)))
	})
}

// validProfileID rejects ids that would break the "<profile>:<list>" storage
// key layout or bloat it.
func validProfileID(profile string) bool {
	return len(profile) <= MaxProfileIDLength && !strings.ContainsAny(profile, ": \t\r\n")
}

// WithProfileID returns a new context carrying the profile ID.
func WithProfileID(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, profileIDKey, profile)
}

// ProfileIDFromContext extracts the profile ID from the request context.
func ProfileIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(profileIDKey).(string); ok {
		return id
	}
	return ""
}

func writeProfileError(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusBadRequest, "MISSING_PROFILE", message)
}
