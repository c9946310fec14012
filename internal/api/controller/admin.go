package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) Reload(ctx echo.Context) error {
	if err := c.service.Load(ctx.Request().Context()); err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, c.service.Status())
}
