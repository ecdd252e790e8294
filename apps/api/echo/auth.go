package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mwalimu/darasa/core"
)

const tokenContextKey = "actorToken"

// Claims represents the authorization claims transmitted via a JWT.
// The identity provider issues them; this API only verifies and reads.
type Claims struct {
	jwt.StandardClaims
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`       // hod | teacher | student
	Department string `json:"department,omitempty"` // branch the caller belongs to
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// GetActorClaims builds the claims for an authenticated actor.
func GetActorClaims(actor core.Actor, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   actor.UID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:       actor.Name,
		Role:       actor.Role,
		Department: actor.Department,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	return token.SignedString(conf.SecretKey)
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextActor resolves the acting identity from the request claims.
func getContextActor(ctx echo.Context) (core.Actor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Actor{}, err
	}
	actor := core.Actor{
		UID:        claims.Subject,
		Name:       claims.Name,
		Role:       claims.Role,
		Department: claims.Department,
	}
	if actor.IsZero() {
		return core.Actor{}, errUnauthorized
	}
	return actor, nil
}

// staffMiddleware denies access to non-staff roles.
func staffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := getContextActor(ctx)
			if err != nil {
				return err
			}
			if !actor.IsStaff() {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}
