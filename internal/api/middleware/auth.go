package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/userservice"
)

const (
	// UserIDHeader заголовок с ID пользователя (режим header)
	UserIDHeader = "X-User-ID"

	msgUnauthorized = "требуется аутентификация"
	msgForbidden    = "доступ запрещен"
)

var (
	errMissingCredentials = errors.New("credentials are missing")
	errInvalidCredentials = errors.New("credentials are invalid")
)

type principalKey struct{}

// WithPrincipal кладёт principal в контекст
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal возвращает principal, установленный Auth
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// Authenticator определяет principal запроса
type Authenticator interface {
	Authenticate(r *http.Request) (domain.Principal, error)
}

// JWTAuthenticator проверяет Authorization: Bearer <token>
type JWTAuthenticator struct {
	verifier TokenVerifier
}

func NewJWTAuthenticator(verifier TokenVerifier) *JWTAuthenticator {
	return &JWTAuthenticator{verifier: verifier}
}

func (a *JWTAuthenticator) Authenticate(r *http.Request) (domain.Principal, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return domain.Principal{}, errMissingCredentials
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return domain.Principal{}, fmt.Errorf("%w: authorization scheme is not Bearer", errInvalidCredentials)
	}

	claims, err := a.verifier.Parse(strings.TrimSpace(token))
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", errInvalidCredentials, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", errInvalidCredentials, err)
	}

	role := domain.Role(claims.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !role.IsValid() {
		return domain.Principal{}, fmt.Errorf("%w: unknown role %q", errInvalidCredentials, claims.Role)
	}
	return domain.Principal{UserID: userID, Role: role}, nil
}

// HeaderAuthenticator доверяет X-User-ID и берёт роль из UserService
type HeaderAuthenticator struct {
	users UserDirectory
}

func NewHeaderAuthenticator(users UserDirectory) *HeaderAuthenticator {
	return &HeaderAuthenticator{users: users}
}

func (a *HeaderAuthenticator) Authenticate(r *http.Request) (domain.Principal, error) {
	raw := r.Header.Get(UserIDHeader)
	if raw == "" {
		return domain.Principal{}, errMissingCredentials
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return domain.Principal{}, fmt.Errorf("%w: bad %s %q", errInvalidCredentials, UserIDHeader, raw)
	}

	user, err := a.users.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			return domain.Principal{}, fmt.Errorf("%w: user %d not found", errInvalidCredentials, userID)
		}
		return domain.Principal{}, err
	}
	if !user.IsActive {
		return domain.Principal{}, fmt.Errorf("%w: user %d is inactive", errInvalidCredentials, userID)
	}

	role := domain.Role(user.Role)
	if !role.IsValid() {
		role = domain.RoleUser
	}
	return domain.Principal{UserID: userID, Role: role}, nil
}

// Auth требует principal. Без учётных данных или с неверными - 401
func Auth(authenticator Authenticator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticator.Authenticate(r)
			if err != nil {
				if errors.Is(err, errMissingCredentials) || errors.Is(err, errInvalidCredentials) {
					logger.Warn("%s %s - Unauthorized: %v", r.Method, r.URL.Path, err)
					handlers.RespondUnauthorized(w, msgUnauthorized)
					return
				}
				logger.Error("%s %s - Failed to authenticate: %v", r.Method, r.URL.Path, err)
				handlers.RespondInternalError(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// OptionalAuth для публичных маршрутов: без учётных данных запрос анонимный,
// с неверными - 401
func OptionalAuth(authenticator Authenticator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		strict := Auth(authenticator, logger)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" && r.Header.Get(UserIDHeader) == "" {
				next.ServeHTTP(w, r)
				return
			}
			strict.ServeHTTP(w, r)
		})
	}
}

// PrincipalOrAnonymous principal запроса или анонимный principal без прав
func PrincipalOrAnonymous(ctx context.Context) domain.Principal {
	p, _ := GetPrincipal(ctx)
	return p
}

// RequireAdmin пропускает только администраторов. Ставится после Auth
func RequireAdmin(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			if !principal.IsAdmin() {
				logger.Warn("%s %s - Admin role required: user_id=%d", r.Method, r.URL.Path, principal.UserID)
				handlers.RespondForbidden(w, msgForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
