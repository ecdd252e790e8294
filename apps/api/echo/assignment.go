package echoapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwalimu/darasa/core"
	"github.com/mwalimu/darasa/core/assignment"
)

type assignmentApi struct {
	service *assignment.Service
	sheets  core.SheetWriter
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *assignment.Service, sheets core.SheetWriter) {
	api := assignmentApi{service: svc, sheets: sheets}

	ag := g.Group("/assignments", jwt, staffMiddleware())
	ag.POST("", api.assignmentCreate)
	ag.GET("", api.assignmentQuery)
	ag.GET("/:id", api.assignmentRetrieve)
	ag.DELETE("/:id", api.assignmentDestroy)
	ag.GET("/:id/completions", api.completionQuery)
	ag.GET("/:id/completions/export", api.completionExport)
}

// Handlers

// assignmentCreate accepts a multipart form so the optional attachment
// rides along with the fields.
func (api *assignmentApi) assignmentCreate(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}

	na, err := bindNewAssignment(ctx)
	if err != nil {
		return err
	}

	asg, err := api.service.Create(ctx.Request().Context(), actor, na)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *assignmentApi) assignmentQuery(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	asgs, err := api.service.QueryOwned(ctx.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *assignmentApi) assignmentRetrieve(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	asg, err := api.service.Get(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, asg)
}

func (api *assignmentApi) assignmentDestroy(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	if err := api.service.Delete(ctx.Request().Context(), actor, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) completionQuery(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	completions, err := api.service.Completions(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, completions)
}

// completionExport streams one section's completion sheet as a download.
func (api *assignmentApi) completionExport(ctx echo.Context) error {
	actor, err := getContextActor(ctx)
	if err != nil {
		return err
	}
	section := core.CleanString(ctx.QueryParam("section"))
	if section == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "section", Error: "this field is required"})
	}

	reqCtx := ctx.Request().Context()
	asg, err := api.service.Get(reqCtx, actor, ctx.Param("id"))
	if err != nil {
		return err
	}
	completions, err := api.service.Completions(reqCtx, actor, asg.ID)
	if err != nil {
		return err
	}

	meta := assignment.SheetMeta{Department: asg.Department, Year: asg.Year}
	filename, data, err := assignment.ExportSection(completions, section, meta, api.sheets)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return ctx.Blob(http.StatusOK, "application/octet-stream", data)
}

// Bindings

func bindNewAssignment(ctx echo.Context) (assignment.NewAssignment, error) {
	na := assignment.NewAssignment{
		Type:    ctx.FormValue("type"),
		Subject: ctx.FormValue("subject"),
		Message: ctx.FormValue("message"),
	}

	if params, err := ctx.FormParams(); err == nil {
		na.Sections = params["sections"]
	}

	if v := ctx.FormValue("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return na, core.NewValidationError(nil, core.FieldError{Field: "year", Error: "must be a number"})
		}
		na.Year = year
	}

	if v := ctx.FormValue("due_at"); v != "" {
		dueAt, err := parseDueDate(v)
		if err != nil {
			return na, core.NewValidationError(nil, core.FieldError{Field: "due_at", Error: "must be a valid date"})
		}
		na.DueAt = dueAt
	}

	fh, err := ctx.FormFile("attachment")
	if err != nil || fh == nil {
		return na, nil // no attachment supplied
	}
	f, err := fh.Open()
	if err != nil {
		return na, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return na, err
	}
	na.Attachment = &assignment.NewAttachment{
		Kind:    ctx.FormValue("attachment_kind"),
		Content: content,
	}
	return na, nil
}

func parseDueDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	// the date picker submits a bare date; due end of that day
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}
