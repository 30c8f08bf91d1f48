package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/academia/core/alert"
)

type alertAPI struct {
	svc alert.ServiceInterface
}

func registerAlertAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc alert.ServiceInterface) {
	api := alertAPI{svc: svc}

	ag := g.Group("/alerts", jwt)
	ag.GET("", api.query)
}

func (api *alertAPI) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	alerts, err := api.svc.QueryByOwner(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, alerts)
}
