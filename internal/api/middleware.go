package api

import (
	"github.com/labstack/echo/v4"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/utils"
	"github.com/spf13/viper"
)

// AdminMiddleware lets through requests whose secret cookie carries a
// token signed for the configured admin secret.
func (svc *APIService) AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		secret := viper.GetString(constants.ViperSecretKey)
		if secret == "" {
			return constants.ErrUnauthorized
		}

		cookie, err := ctx.Cookie(constants.CookieKeySecretToken)
		if err != nil {
			return constants.ErrUnauthorized
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		if token.Secret != secret {
			return constants.ErrUnauthorized
		}

		return next(ctx)
	}
}
