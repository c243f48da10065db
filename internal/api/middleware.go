package api

import (
	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/pkg/utils"
)

// AdminMiddleware guards the mutating endpoints: the caller must present a
// signed token whose secret claim matches the configured one.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrMissingAuthCookie
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		if token.Secret != viper.GetString(constants.ViperSecretKey) {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
