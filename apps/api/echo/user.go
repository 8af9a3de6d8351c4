package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/user"
)

type userApi struct {
	*Server
}

func registerUserAPI(g *echo.Group, s *Server) {
	api := userApi{s}

	ag := g.Group("/auth")
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
}

// Handlers

func (api userApi) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	usr, err := api.usrSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		if core.IsValidation(err) {
			return err
		}
		return errors.Wrap(err, "registering user")
	}
	api.logger.Info("user registered", usr)

	return ctx.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully", "user": usr})
}

func (api userApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return err
	}

	usr, err := api.usrSvc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return err // user.ErrInvalidCredentials is mapped to 400
	}
	token, err := api.auth.GenerateToken(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, user.AuthResponse{Token: token, User: usr})
}
