package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"trainhub/core/cache"
	"trainhub/core/constants"
	"trainhub/core/controller"
	"trainhub/core/errors"
	"trainhub/core/utils"
)

type Middleware struct {
	cache cache.Cache
	base  controller.BaseController
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{
		cache: c,
		base:  controller.NewBaseController(),
	}
}

// RequestIDMiddleware assigns a correlation ID to every request, honoring a
// caller-supplied X-Request-ID.
func (m *Middleware) RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id := ctx.Request().Header.Get("X-Request-ID")
			if id == "" {
				id = utils.GenerateRequestID()
			}
			ctx.Set(constants.ContextRequestID, id)
			ctx.Response().Header().Set("X-Request-ID", id)
			return next(ctx)
		}
	}
}

// AuthMiddleware validates the Bearer token and stores its claims in context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get("Authorization")
			if header == "" {
				return m.base.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return m.base.Unauthorized(errors.ErrInvalidTokenFormat, "Invalid Authorization header format")
			}
			token := parts[1]

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(ctx.Request().Context(), token)
				if err == nil && blacklisted {
					return m.base.Unauthorized(errors.ErrUnauthorized, "Token revoked")
				}
			}

			claims, appErr := utils.ParseToken(token)
			if appErr != nil {
				return m.base.Unauthorized(appErr.Code, appErr.Message)
			}

			ctx.Set(constants.ContextTokenData, claims)
			return next(ctx)
		}
	}
}
