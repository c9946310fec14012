package controller

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/service/atlas"
)

const defaultSearchLimit = 20

type Controller struct {
	service *atlas.Service
}

func NewController(service *atlas.Service) *Controller {
	return &Controller{service: service}
}

// yearParam is the optional year shared by the listings; empty means all.
func yearParam(ctx echo.Context) string {
	return ctx.QueryParam("year")
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
}
