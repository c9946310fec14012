package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/service/density"
)

type densitiesResponse struct {
	Filter    density.Filter   `json:"filter"`
	Densities density.Snapshot `json:"densities"`
}

func (c *Controller) ListZones(ctx echo.Context) error {
	zones, err := c.service.Zones(domain.ZoneCategory(ctx.QueryParam("category")))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, zones)
}

func (c *Controller) GetZone(ctx echo.Context) error {
	zone, err := c.service.Zone(ctx.Param("key"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, zone)
}

func (c *Controller) GetDensities(ctx echo.Context) error {
	snap, filter, err := c.service.Densities()
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, densitiesResponse{Filter: filter, Densities: snap})
}

func (c *Controller) RecomputeDensities(ctx echo.Context) error {
	var filter density.Filter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}

	snap, err := c.service.Recompute(ctx.Request().Context(), filter)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, densitiesResponse{Filter: filter, Densities: snap})
}
