package http

import (
	"errors"
	"net/http"

	"CapLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the {status,message,data} envelope with a matching HTTP status.
func DataResponse(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

// ListResponse wraps a slice and its length.
func ListResponse[T any](c echo.Context, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	return DataResponse(c, http.StatusOK, &ListDataResponse{Rows: rows, Total: len(rows)})
}

func SuccessResponse(c echo.Context, data any) error {
	return DataResponse(c, http.StatusOK, data)
}

func BadRequestResponse(c echo.Context, data any) error {
	return DataResponse(c, http.StatusBadRequest, data)
}

func InternalServerErrorResponse(c echo.Context) error {
	return DataResponse(c, http.StatusInternalServerError, []*AppError{InternalError("something went wrong")})
}

// AppErrorResponse writes an *AppError with its own status. Other errors become a generic 500.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return DataResponse(c, appErr.Status, []*AppError{appErr})
	}
	return InternalServerErrorResponse(c)
}

// ErrorHandler renders every error that escapes a handler in the envelope format.
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			appErr *AppError
			he     *echo.HTTPError
			werr   error
		)
		switch {
		case errors.As(err, &appErr):
			werr = AppErrorResponse(c, appErr)
		case errors.As(err, &he):
			werr = AppErrorResponse(c, StatusError(he.Code))
		default:
			log.Error("http: unhandled error", logger.String("route", c.Path()), logger.Error(err))
			werr = InternalServerErrorResponse(c)
		}
		if werr != nil {
			log.Error("http: write error response", logger.Error(werr))
		}
	}
}
