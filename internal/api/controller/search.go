package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/service/search"
)

type searchResponse struct {
	Query   string          `json:"q"`
	Results []search.Result `json:"results"`
}

func bindSearch(ctx echo.Context) (string, int, error) {
	q, limit := "", defaultSearchLimit
	if err := echo.QueryParamsBinder(ctx).
		String("q", &q).
		Int("limit", &limit).
		BindError(); err != nil {
		return "", 0, badRequest(err)
	}
	if q == "" {
		return "", 0, constants.ErrBadRequest
	}
	return q, limit, nil
}

func (c *Controller) SearchPrograms(ctx echo.Context) error {
	q, limit, err := bindSearch(ctx)
	if err != nil {
		return err
	}

	results, err := c.service.SearchPrograms(q, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, searchResponse{Query: q, Results: emptyIfNil(results)})
}

func (c *Controller) SearchCentres(ctx echo.Context) error {
	q, limit, err := bindSearch(ctx)
	if err != nil {
		return err
	}

	results, err := c.service.SearchCentres(q, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, searchResponse{Query: q, Results: emptyIfNil(results)})
}

func emptyIfNil(results []search.Result) []search.Result {
	if results == nil {
		return []search.Result{}
	}
	return results
}
