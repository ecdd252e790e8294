package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mwalimu/darasa/core/department"
)

type departmentApi struct {
	service *department.Service
}

func registerDepartmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *department.Service) {
	api := departmentApi{service: svc}

	dg := g.Group("/department", jwt)
	dg.GET("", api.departmentRetrieve)
	dg.PUT("", api.departmentSetUpcoming, staffMiddleware())
}

func (api *departmentApi) departmentRetrieve(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	dept, err := api.service.Get(ctx.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dept)
}

func (api *departmentApi) departmentSetUpcoming(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	var data struct {
		Upcoming string `json:"upcoming"`
	}
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	dept, err := api.service.SetUpcoming(ctx.Request().Context(), actor, data.Upcoming)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dept)
}
