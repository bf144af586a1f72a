package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signed(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func userClaims(sub string, exp time.Time) *supabaseClaims {
	return &supabaseClaims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func echoPrincipal() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Write([]byte(p.UserID + "|" + p.Role))
	})
}

func TestSupabaseAuth(t *testing.T) {
	h := SupabaseAuth(testSecret)(echoPrincipal())
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + signed(t, userClaims("user-1", future), testSecret), http.StatusOK, "user-1|authenticated"},
		{"missing", "", http.StatusUnauthorized, `"missing bearer token"`},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, `"missing bearer token"`},
		{"bad signature", "Bearer " + signed(t, userClaims("user-1", future), "other-secret"), http.StatusUnauthorized, `"invalid session"`},
		{"expired", "Bearer " + signed(t, userClaims("user-1", time.Now().Add(-time.Minute)), testSecret), http.StatusUnauthorized, `"session expired"`},
		{"no subject", "Bearer " + signed(t, userClaims("", future), testSecret), http.StatusUnauthorized, `"invalid session"`},
		{"no expiry", "Bearer " + signed(t, &supabaseClaims{Role: "authenticated", RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}, testSecret), http.StatusUnauthorized, `"invalid session"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/lead-files", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestSupabaseAuthRejectsOtherAlgorithms(t *testing.T) {
	h := SupabaseAuth(testSecret)(echoPrincipal())
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, userClaims("user-1", time.Now().Add(time.Hour))).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimitPerUser(t *testing.T) {
	store, err := NewLimiterStore("")
	require.NoError(t, err)
	limit, err := RateLimit("api", "2-M", store)
	require.NoError(t, err)
	h := limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: user}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
}

func TestRateLimitInvalidRate(t *testing.T) {
	store, _ := NewLimiterStore("")
	_, err := RateLimit("api", "lots", store)
	assert.Error(t, err)
}

func TestLimiterStoreBadRedisURL(t *testing.T) {
	_, err := NewLimiterStore("not a url")
	assert.Error(t, err)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/lead-files/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/lead-files/{id}", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/lead-files/abc", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/lead-files/{id}", "404"))

	assert.Equal(t, before+1, after)
}

func TestRecordImport(t *testing.T) {
	before := testutil.ToFloat64(leadRowsRejected.WithLabelValues("personal_domain"))

	RecordImport(3, map[string]int{"personal_domain": 2})

	assert.Equal(t, before+2, testutil.ToFloat64(leadRowsRejected.WithLabelValues("personal_domain")))
}
