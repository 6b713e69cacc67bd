package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/logger"
)

const actorKey = "actor"

// Claims carries the caller identity issued by the authentication service.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// Actor parses a raw token into the acting user.
func (a *Authenticator) Actor(token string) (kernel.Actor, error) {
	var claims Claims
	if _, err := a.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}); err != nil {
		return kernel.Actor{}, err
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.Actor{}, err
	}
	role, err := kernel.ParseRole(claims.Role)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, role)
}

// Middleware rejects requests without a valid bearer token and stores the
// actor on the echo context.
func (a *Authenticator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c.Request().Context())

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		actor, err := a.Actor(token)
		if err != nil {
			log.Warn("rejected bearer token", zap.Error(err))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(actorKey, actor)
		ctx := logger.WithContext(c.Request().Context(), log.With(
			zap.String("actor_id", claimsSubject(actor)),
			zap.String("role", string(actor.Role())),
		))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func claimsSubject(a kernel.Actor) string {
	if id := a.ID(); id != nil {
		return id.String()
	}
	return ""
}

var errNoActor = errors.New("request has no authenticated actor")

func actorFrom(c echo.Context) (kernel.Actor, error) {
	actor, ok := c.Get(actorKey).(kernel.Actor)
	if !ok {
		return kernel.Actor{}, errNoActor
	}
	return actor, nil
}
