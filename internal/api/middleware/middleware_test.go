package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sistema/engine/internal/api/types"
	"github.com/sistema/engine/internal/auth"
	"github.com/sistema/engine/internal/repository/memory"
	"github.com/sistema/engine/internal/services"
	"github.com/sistema/engine/pkg/logger"
)

var secret = []byte("test-secret")

func TestMain(m *testing.M) {
	logger.Nop()
	m.Run()
}

func sign(t *testing.T, method jwt.SigningMethod, key any, c Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		Role:  "pm",
		OrgID: "org-123",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) types.APIResponse {
	t.Helper()
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func principalEcho(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]string{"user": p.UserID, "role": string(p.Role), "org": p.OrgID})
}

func TestAuth(t *testing.T) {
	h := Auth(secret)(http.HandlerFunc(principalEcho))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, secret, validClaims()))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, map[string]string{"user": "user-1", "role": "PM", "org": "org-123"}, got)
	})

	t.Run("org role wins and unknown falls back to viewer", func(t *testing.T) {
		c := validClaims()
		c.OrgRole = "superuser"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.SigningMethodHS256, secret, c))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"role":"VIEWER"`)
	})

	rejected := map[string]func() string{
		"missing header": func() string { return "" },
		"not bearer":     func() string { return "Basic abc" },
		"wrong secret": func() string {
			return "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims())
		},
		"expired": func() string {
			c := validClaims()
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			return "Bearer " + sign(t, jwt.SigningMethodHS256, secret, c)
		},
		"no org": func() string {
			c := validClaims()
			c.OrgID = ""
			return "Bearer " + sign(t, jwt.SigningMethodHS256, secret, c)
		},
		"no subject": func() string {
			c := validClaims()
			c.Subject = ""
			return "Bearer " + sign(t, jwt.SigningMethodHS256, secret, c)
		},
		"unsigned": func() string {
			return "Bearer " + sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())
		},
	}
	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if v := header(); v != "" {
				req.Header.Set("Authorization", v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			resp := decode(t, rr)
			assert.False(t, resp.Success)
			assert.Equal(t, "unauthorized", resp.Error.Code)
		})
	}
}

func scopedRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithPrincipal(r.Context(), auth.Principal{UserID: "u", Role: auth.RoleSite, OrgID: "org-123"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Route("/projects/{projectID}", func(pr chi.Router) {
		pr.Use(OrgScope(services.NewProjectService(memory.NewProjectStore(memory.DemoProjects()...))))
		pr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(GetProject(r.Context()).Name))
		})
		pr.With(RequireRole(auth.CreateRoles...)).Post("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
	})
	return r
}

func TestOrgScope(t *testing.T) {
	h := scopedRouter()
	cases := []struct {
		name, path, org string
		want            int
	}{
		{"own project", "/projects/project-1", "org-123", http.StatusOK},
		{"missing header", "/projects/project-1", "", http.StatusForbidden},
		{"header mismatch", "/projects/project-1", "org-456", http.StatusForbidden},
		{"foreign project", "/projects/project-2", "org-123", http.StatusForbidden},
		{"unknown project", "/projects/project-9", "org-123", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.org != "" {
				req.Header.Set(OrgHeader, tc.org)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/projects/project-1", nil)
	req.Header.Set(OrgHeader, "org-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "Hospital Regional", rr.Body.String())
}

func TestRequireRole(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/projects/project-1", nil)
	req.Header.Set(OrgHeader, "org-123")
	rr := httptest.NewRecorder()
	scopedRouter().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "insufficient role to access this resource", decode(t, rr).Error.Message)

	rr = httptest.NewRecorder()
	RequireRole(auth.RolePM)(http.HandlerFunc(principalEcho)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := RateLimit(ctx, 1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestVisitorsSweep(t *testing.T) {
	v := &visitors{entries: map[string]*limiterEntry{}, rps: 1, burst: 1}
	now := time.Now()
	v.allow("old", now.Add(-time.Hour))
	v.allow("fresh", now)
	v.sweep(10*time.Minute, now)
	assert.Len(t, v.entries, 1)
	assert.Contains(t, v.entries, "fresh")
}

func TestRecoveryAndRequestID(t *testing.T) {
	h := RequestID(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
	resp := decode(t, rr)
	assert.Equal(t, "internal", resp.Error.Code)
	assert.Equal(t, "req-42", resp.Meta.RequestID)

	rr = httptest.NewRecorder()
	RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rr.Header().Get("X-Request-ID"), 36)
}

func TestCORSPreflight(t *testing.T) {
	rr := httptest.NewRecorder()
	CORS(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), OrgHeader)
}
