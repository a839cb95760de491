package handler

import (
	"fmt"
	"net/http"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type CreateBookData struct {
	BookID string `json:"bookId"`
}

type ListBooksData struct {
	Books []model.BookSummary `json:"books"`
}

type GetBookData struct {
	Book model.Book `json:"book"`
}

// errorHandler renders every error as a fail envelope.
func (h *Handler) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
		if he.Internal != nil {
			h.log.Debug("request failed", zap.Int("status", code), zap.Error(he.Internal))
		}
	} else {
		h.log.Error("unhandled error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, Response{Status: statusFail, Message: msg})
	}
	if err != nil {
		h.log.Error("errorHandler", zap.Error(err))
	}
}
