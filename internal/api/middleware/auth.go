package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sistema/engine/internal/auth"
	"github.com/sistema/engine/pkg/logger"
)

// Claims is the token body accepted by Auth.
type Claims struct {
	Role       string   `json:"role,omitempty"`
	OrgRole    string   `json:"org_role,omitempty"`
	OrgID      string   `json:"org_id,omitempty"`
	UserID     string   `json:"user_id,omitempty"`
	ProjectIDs []string `json:"project_ids,omitempty"`
	jwt.RegisteredClaims
}

// Auth validates a Bearer JWT using the provided HMAC secret and stores the
// caller as an auth.Principal in the request context.
func Auth(hmacSecret []byte) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg(),
	}))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				unauthorized(w, r, "authorization token missing")
				return
			}
			tokenStr := strings.TrimSpace(ah[len("Bearer "):])

			var claims Claims
			token, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
				return hmacSecret, nil
			})
			if err != nil || !token.Valid {
				logger.L().Debug("token rejected", zap.String("id", GetRequestID(r.Context())), zap.Error(err))
				unauthorized(w, r, "invalid token")
				return
			}

			p, msg := principalFrom(claims)
			if msg != "" {
				unauthorized(w, r, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func principalFrom(c Claims) (auth.Principal, string) {
	userID := c.Subject
	if userID == "" {
		userID = c.UserID
	}
	if userID == "" {
		return auth.Principal{}, "user identifier missing"
	}
	if c.OrgID == "" {
		return auth.Principal{}, "organization context missing"
	}
	role := c.OrgRole
	if role == "" {
		role = c.Role
	}
	return auth.Principal{
		UserID:     userID,
		Role:       auth.ParseRole(role),
		OrgID:      c.OrgID,
		ProjectIDs: c.ProjectIDs,
	}, ""
}
