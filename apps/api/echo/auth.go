package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/user"
)

var (
	contextTokenKey = "userToken"
	contextUserKey  = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  user.Role `json:"role,omitempty"`
}

type tokenAuth struct {
	key    []byte
	method string
	issuer string
	delta  time.Duration
}

func newTokenAuth(conf *core.Config) *tokenAuth {
	return &tokenAuth{
		key:    []byte(conf.Server.SecretKey),
		method: middleware.AlgorithmHS256,
		issuer: conf.AppName,
		delta:  conf.Server.JWTExpirationDelta,
	}
}

// middlewareConfig is the JWT auth middleware config.
func (a *tokenAuth) middlewareConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    a.key,
		SigningMethod: a.method,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func (a *tokenAuth) claims(usr user.User) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.issuer,
			Subject:   usr.ID,
			ExpiresAt: now.Add(a.delta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  usr.Name,
		Email: usr.Email,
		Role:  usr.Role,
	}
}

// GenerateToken generates a signed JWT token string for usr.
func (a *tokenAuth) GenerateToken(usr user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(a.method), a.claims(usr))
	ss, err := token.SignedString(a.key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// GenerateToken is exposed for tests that need a token without logging in.
func (s *Server) GenerateToken(usr user.User) (string, error) {
	return s.auth.GenerateToken(usr)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser loads the authenticated User once per request.
func getContextUser(ctx echo.Context, svc *user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}
	usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errUnauthorized
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
