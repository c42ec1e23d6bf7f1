package http

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sanasa-loans/repository"
	"sanasa-loans/service"
)

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how
// to render our errors in the API's {success, message} envelope.
func newAppHTTPErrorHandler(logger *zap.Logger, v *service.Validator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		resp := errorResponse{}
		var code int

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if origErr == echo.ErrNotFound {
				resp.Message = fmt.Sprintf("Route %s not found", ctx.Request().URL.Path)
				break
			}
			resp.Message = fmt.Sprint(origErr.Message)
		case *echo.BindingError:
			code = origErr.Code
			resp.Message = fmt.Sprint(origErr.Message)
			resp.Errors = map[string]string{origErr.Field: "invalid value"}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			resp.Message = "Validation failed"
			resp.Errors = v.Translate(origErr)
		case *service.ValidationError:
			code = http.StatusBadRequest
			resp.Message = origErr.Error()
			if len(origErr.Fields) > 0 {
				resp.Errors = make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					resp.Errors[fErr.Field] = fErr.Error
				}
			}
		default:
			if origErr == repository.ErrNotFound {
				code = http.StatusNotFound
				resp.Message = "Loan application not found"
				break
			}
			// any other error is a server error
			code = http.StatusInternalServerError
			resp.Message = http.StatusText(http.StatusInternalServerError)
			logger.Error("request failed",
				zap.String("method", ctx.Request().Method),
				zap.String("path", ctx.Path()),
				zap.Error(err),
			)
			if ctx.Echo().Debug {
				resp.Message = err.Error()
			}
		}

		// Send response
		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, resp)
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
