package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/mapa-innovacio/internal/api/controller"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/service/atlas"
	"github.com/spf13/viper"
)

type APIService struct {
	router *echo.Echo
	atlas  *atlas.Service
}

// Serve blocks until the server stops. A graceful Shutdown is not an error.
func (svc *APIService) Serve(addr string) error {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(atlasService *atlas.Service) (*APIService, error) {
	svc := &APIService{router: echo.New(), atlas: atlasService}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(echoLogLevel(viper.GetString(constants.ViperLogLevelKey)))
	svc.router.JSONSerializer = sonicSerializer{}
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: viper.GetStringSlice(constants.ViperServerAllowOriginsKey),
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(svc.atlas)

	api.GET("/status", cntrl.GetStatus)
	api.GET("/lookups", cntrl.GetLookups)

	programs := api.Group("/programs")
	programs.GET("", cntrl.ListPrograms)
	programs.GET("/:id", cntrl.GetProgram)
	programs.GET("/:id/centres", cntrl.GetProgramCentres)

	centres := api.Group("/centres")
	centres.GET("", cntrl.ListCentres)
	centres.GET("/:id", cntrl.GetCentre)
	centres.GET("/:id/programs", cntrl.GetCentrePrograms)

	zones := api.Group("/zones")
	zones.GET("", cntrl.ListZones)
	zones.GET("/:key", cntrl.GetZone)

	densities := api.Group("/densities")
	densities.GET("", cntrl.GetDensities)
	densities.POST("", cntrl.RecomputeDensities)

	search := api.Group("/search")
	search.GET("/programs", cntrl.SearchPrograms)
	search.GET("/centres", cntrl.SearchCentres)

	admin := api.Group("/admin", svc.AdminMiddleware)
	admin.POST("/reload", cntrl.Reload)

	return svc, nil
}

func echoLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
