package api

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
)

// binder validates every bound request and reports bad input as 400.
type binder struct {
	echo.DefaultBinder
}

func NewBinder() echo.Binder {
	return &binder{}
}

func (b *binder) Bind(i interface{}, c echo.Context) error {
	if err := b.DefaultBinder.Bind(i, c); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrBadRequest, err.Error())
	}
	return c.Validate(i)
}
