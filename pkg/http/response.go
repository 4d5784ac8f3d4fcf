package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// write sends the standard envelope. The outer HTTP status is always 200;
// the envelope's status field carries the real code.
func write(c echo.Context, status int, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{
		Status:  status,
		Message: http.StatusText(status),
		Data:    data,
	})
}

// SuccessResponse writes a 200 envelope around data.
func SuccessResponse(c echo.Context, data interface{}) error {
	return write(c, http.StatusOK, data)
}

// CreatedResponse writes a 201 envelope around data.
func CreatedResponse(c echo.Context, data interface{}) error {
	return write(c, http.StatusCreated, data)
}

// ListResponse writes a page of rows with the unpaged total.
func ListResponse(c echo.Context, rows interface{}, total int64) error {
	return write(c, http.StatusOK, &ListDataResponse{Rows: rows, Total: total})
}

// BadRequestResponse writes a 400 envelope, typically around []ValidationError.
func BadRequestResponse(c echo.Context, data interface{}) error {
	return write(c, http.StatusBadRequest, data)
}

// NotFoundResponse writes a 404 envelope.
func NotFoundResponse(c echo.Context, data interface{}) error {
	return write(c, http.StatusNotFound, data)
}

// AppErrorResponse writes an AppError with its own status, or a generic 500
// for anything else so internals never leak to clients.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return write(c, appErr.Status, []*AppError{appErr})
	}
	return write(c, http.StatusInternalServerError, "Something went wrong")
}
