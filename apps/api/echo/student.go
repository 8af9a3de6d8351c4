package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
)

type studentApi struct {
	*Server
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := studentApi{s}

	sg := g.Group("/student", jwt, roleMiddleware(user.RoleStudent))
	sg.GET("/assignments", api.published)
	sg.GET("/submissions", api.submissions)
	sg.POST("/assignments/:id/submit", api.submit)
}

// Handlers

func (api studentApi) published(ctx echo.Context) error {
	list, err := api.cwSvc.ListPublished(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying published assignments")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"assignments": list, "success": true})
}

func (api studentApi) submissions(ctx echo.Context) error {
	student, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}
	subs, err := api.cwSvc.StudentSubmissions(ctx.Request().Context(), student)
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"submissions": subs, "success": true})
}

func (api studentApi) submit(ctx echo.Context) error {
	var data classwork.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}
	student, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return err
	}

	sub, err := api.cwSvc.Submit(ctx.Request().Context(), student, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "submitting answer")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"submission": sub,
		"message":    "Assignment submitted successfully",
		"success":    true,
	})
}
