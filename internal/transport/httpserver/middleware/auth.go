package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ellarushing/asu-connect-sub003/internal/config"
	profiledomain "github.com/ellarushing/asu-connect-sub003/internal/domain/profile"
	"github.com/ellarushing/asu-connect-sub003/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey int

const userKey contextKey = iota

// User is the per-request identity after BaaS verification and profile sync.
type User struct {
	ID    string
	Email string
	Name  string
	Role  string
}

func (u User) IsAdmin() bool { return u.Role == profiledomain.RoleAdmin }

// ProfileSyncer persists the identity seen on each request and returns the
// stored profile, which carries the platform role.
type ProfileSyncer interface {
	Sync(ctx context.Context, userID, email, name, avatarURL string) (*profiledomain.UserProfile, error)
}

var errUnauthenticated = errors.New("unauthenticated")

// SupabaseAuth verifies access tokens against the BaaS. With a configured JWT
// secret tokens are verified locally (no auth round-trip per request);
// otherwise the auth endpoint is asked.
type SupabaseAuth struct {
	baseURL   string
	apiKey    string
	jwtSecret []byte
	client    *http.Client
	profiles  ProfileSyncer
	skipAuth  bool
	mockUser  User
	log       logger.Logger
}

type userResponse struct {
	ID           string         `json:"id"`
	Sub          string         `json:"sub"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type supabaseClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

func NewSupabaseAuth(cfg config.SupabaseConfig, profiles ProfileSyncer, log logger.Logger) *SupabaseAuth {
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &SupabaseAuth{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		apiKey:    cfg.PublishableKey,
		jwtSecret: []byte(cfg.JWTSecret),
		client:    &http.Client{Timeout: timeout},
		profiles:  profiles,
		skipAuth:  cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
		log: log,
	}
}

// Middleware rejects requests without a verifiable identity.
func (a *SupabaseAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			if errors.Is(err, errUnauthenticated) {
				writeAuthError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			writeAuthError(w, http.StatusInternalServerError, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// Optional resolves an identity when one is presented but lets anonymous
// requests through. Existence checks like "did I flag this" use it.
func (a *SupabaseAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *SupabaseAuth) authenticate(r *http.Request) (User, error) {
	if a.skipAuth {
		if a.mockUser.ID == "" {
			return User{}, errors.New("auth mock user id not configured")
		}
		return a.sync(r.Context(), a.mockUser.ID, a.mockUser.Email, a.mockUser.Name, "")
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return User{}, errUnauthenticated
	}

	if len(a.jwtSecret) > 0 {
		return a.verifyLocal(r.Context(), token)
	}
	return a.verifyRemote(r.Context(), token)
}

// verifyLocal checks the token signature and expiry with the shared secret,
// the way the BaaS itself would.
func (a *SupabaseAuth) verifyLocal(ctx context.Context, tokenStr string) (User, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &supabaseClaims{}, func(t *jwt.Token) (any, error) {
		return a.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return User{}, errUnauthenticated
	}

	claims, ok := token.Claims.(*supabaseClaims)
	if !ok || claims.Subject == "" {
		return User{}, errUnauthenticated
	}

	name := firstNonEmpty(stringFromMap(claims.UserMetadata, "name"), stringFromMap(claims.UserMetadata, "full_name"))
	return a.sync(ctx, claims.Subject, claims.Email, name, stringFromMap(claims.UserMetadata, "avatar_url"))
}

func (a *SupabaseAuth) verifyRemote(ctx context.Context, token string) (User, error) {
	if a.baseURL == "" || a.apiKey == "" {
		return User{}, errors.New("auth not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, errUnauthenticated
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return User{}, errUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, errUnauthenticated
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return User{}, errUnauthenticated
	}

	userID := firstNonEmpty(payload.ID, payload.Sub)
	if userID == "" {
		return User{}, errUnauthenticated
	}

	name := firstNonEmpty(stringFromMap(payload.UserMetadata, "name"), stringFromMap(payload.UserMetadata, "full_name"))
	return a.sync(ctx, userID, payload.Email, name, stringFromMap(payload.UserMetadata, "avatar_url"))
}

func (a *SupabaseAuth) sync(ctx context.Context, userID, email, name, avatarURL string) (User, error) {
	user := User{ID: userID, Email: email, Name: name, Role: profiledomain.RoleStudent}

	p, err := a.profiles.Sync(ctx, userID, email, name, avatarURL)
	if err != nil {
		// The request can proceed without directory data; the role just
		// stays student for this request.
		a.log.InternalError("auth: profile sync failed", err, "user_id", userID)
		return user, nil
	}

	user.Email = p.Email
	user.Name = p.Name
	user.Role = p.Role
	return user, nil
}

// RequireAdmin gates the /admin surface. Must run after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeAuthError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		if !user.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]any, key string) string {
	if values == nil {
		return ""
	}
	parsed, _ := values[key].(string)
	return parsed
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
