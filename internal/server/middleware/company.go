package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequireCompany rejects requests without a company in context. A company_id query
// parameter, when present, must name the caller's own company.
func RequireCompany() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid, ok := CompanyIDFromContext(r.Context())
			if !ok || cid == uuid.Nil {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid company required"}`, http.StatusForbidden)
				return
			}

			if raw := r.URL.Query().Get("company_id"); raw != "" {
				requested, err := uuid.Parse(raw)
				if err != nil || requested != cid {
					http.Error(w, `{"title":"Forbidden","status":403,"detail":"company mismatch"}`, http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
