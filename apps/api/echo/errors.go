package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/classwork"
	"github.com/trezcool/classwork/core/user"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// domainErrors maps service errors onto response codes.
var domainErrors = map[error]int{
	classwork.ErrNotFound:            http.StatusNotFound,
	classwork.ErrSubmissionNotFound:  http.StatusNotFound,
	classwork.ErrNotOpen:             http.StatusNotFound,
	classwork.ErrForbidden:           http.StatusForbidden,
	classwork.ErrInvalidTransition:   http.StatusBadRequest,
	classwork.ErrNotEditable:         http.StatusBadRequest,
	classwork.ErrNotDeletable:        http.StatusBadRequest,
	classwork.ErrDuplicateSubmission: http.StatusBadRequest,
	classwork.ErrAlreadyReviewed:     http.StatusBadRequest,
	user.ErrInvalidCredentials:       http.StatusBadRequest,
}

type (
	fieldError struct {
		Msg      string `json:"msg"`
		Param    string `json:"param"`
		Location string `json:"location"`
	}

	errorResponse struct {
		Message string       `json:"message,omitempty"`
		Errors  []fieldError `json:"errors,omitempty"`
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var resp errorResponse

		cause := errors.Cause(err)
		if c, ok := domainErrors[cause]; ok {
			code = c
			resp.Message = cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					resp.Message = fmt.Sprint(origErr.Message)
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				resp.Message = fmt.Sprint(origErr.Message)
			case *core.ValidationError:
				code = http.StatusBadRequest
				if len(origErr.Fields) > 0 {
					resp.Errors = make([]fieldError, 0, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						resp.Errors = append(resp.Errors, fieldError{Msg: fErr.Error, Param: fErr.Field, Location: "body"})
					}
				} else {
					resp.Message = origErr.Error()
				}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				resp.Message = msg

				var usr user.User
				if claims, cErr := getContextClaims(ctx); cErr == nil {
					usr.ID = claims.Subject
					usr.Name = claims.Name
					usr.Email = claims.Email
					usr.Role = claims.Role
				}
				logger.Error(msg, errors.Wrap(err, msg), usr)

				if ctx.Echo().Debug {
					resp.Message = err.Error()
				}
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, resp)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
