package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/service/atlas"
)

type programResponse struct {
	*domain.Program
	Years   []domain.Year     `json:"cursos"`
	Centres []atlas.CentreRef `json:"centres"`
}

type centreResponse struct {
	*domain.Centre
	Years    []domain.Year      `json:"cursos"`
	Programs []atlas.ProgramRef `json:"programes"`
}

func (c *Controller) GetStatus(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.service.Status())
}

func (c *Controller) GetLookups(ctx echo.Context) error {
	lookups, err := c.service.Lookups()
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, lookups)
}

func (c *Controller) ListPrograms(ctx echo.Context) error {
	programs, err := c.service.Programs()
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, programs)
}

func (c *Controller) GetProgram(ctx echo.Context) error {
	program, err := c.service.Program(ctx.Param("id"))
	if err != nil {
		return err
	}

	centres, err := c.service.ProgramCentres(program.ID, yearParam(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, programResponse{
		Program: program,
		Years:   program.Years(),
		Centres: centres,
	})
}

func (c *Controller) GetProgramCentres(ctx echo.Context) error {
	centres, err := c.service.ProgramCentres(ctx.Param("id"), yearParam(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, centres)
}

func (c *Controller) ListCentres(ctx echo.Context) error {
	centres, err := c.service.Centres()
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, centres)
}

func (c *Controller) GetCentre(ctx echo.Context) error {
	centre, err := c.service.Centre(ctx.Param("id"))
	if err != nil {
		return err
	}

	programs, err := c.service.CentrePrograms(centre.ID, yearParam(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, centreResponse{
		Centre:   centre,
		Years:    centre.Years(),
		Programs: programs,
	})
}

func (c *Controller) GetCentrePrograms(ctx echo.Context) error {
	programs, err := c.service.CentrePrograms(ctx.Param("id"), yearParam(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, programs)
}
