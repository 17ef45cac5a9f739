package middleware

import (
	"net/http"

	"meetsync/core/constants"
	"meetsync/core/controller"
	"meetsync/core/utils"

	"github.com/labstack/echo/v4"
)

// Middleware bundles the route middlewares shared across modules.
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the bearer token and stores its claims on the context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, appErr := utils.GetTokenFromHeader(c)
			if appErr != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, appErr.Code, appErr.Message)
			}

			claims, appErr := utils.ValidateAndParseToken(tokenString)
			if appErr != nil {
				return controller.NewErrorResponse(http.StatusUnauthorized, appErr.Code, appErr.Message)
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
