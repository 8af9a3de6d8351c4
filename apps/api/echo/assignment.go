package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
)

type assignmentApi struct {
	*Server
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := assignmentApi{s}

	ag := g.Group("/assignments", jwt, roleMiddleware(user.RoleTeacher))
	ag.GET("", api.query)
	ag.POST("", api.create)

	// detail endpoints
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
	ag.PATCH("/:id/publish", api.publish)
	ag.PATCH("/:id/complete", api.complete)
	ag.GET("/:id/submissions", api.submissions)
	ag.PATCH("/:id/submissions/:submissionId/review", api.review)
}

// Handlers

func (api assignmentApi) query(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	list, err := api.cwSvc.ListByTeacher(ctx.Request().Context(), teacher)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"assignments": list})
}

func (api assignmentApi) create(ctx echo.Context) error {
	var data classwork.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	a, err := api.cwSvc.Create(ctx.Request().Context(), teacher, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api assignmentApi) update(ctx echo.Context) error {
	var data classwork.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	a, err := api.cwSvc.Update(ctx.Request().Context(), teacher, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api assignmentApi) destroy(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	if err := api.cwSvc.Delete(ctx.Request().Context(), teacher, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api assignmentApi) publish(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	a, err := api.cwSvc.Publish(ctx.Request().Context(), teacher, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "publishing assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api assignmentApi) complete(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	a, err := api.cwSvc.Complete(ctx.Request().Context(), teacher, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api assignmentApi) submissions(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	a, subs, err := api.cwSvc.Submissions(ctx.Request().Context(), teacher, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"assignment": echo.Map{
			"_id":         a.ID,
			"title":       a.Title,
			"description": a.Description,
			"status":      a.Status,
		},
		"submissions": subs,
	})
}

func (api assignmentApi) review(ctx echo.Context) error {
	teacher, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	sub, err := api.cwSvc.Review(ctx.Request().Context(), teacher, ctx.Param("id"), ctx.Param("submissionId"))
	if err != nil {
		return errors.Wrap(err, "reviewing submission")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"submission": sub})
}
