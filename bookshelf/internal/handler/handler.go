package handler

import (
	"net/http"

	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/errs"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/model"
	md "github.com/Astemirdum/bookshelf-service/pkg/middleware"
	_ "github.com/Astemirdum/bookshelf-service/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	msgCreated      = "Buku berhasil ditambahkan"
	msgCreateFailed = "Gagal menambahkan buku"
	msgInsertFailed = "Buku gagal ditambahkan"
	msgNotFound     = "Buku tidak ditemukan"
	msgUpdated      = "Buku berhasil diperbarui"
	msgUpdateFailed = "Gagal memperbarui buku"
	msgDeleted      = "Buku berhasil dihapus"
	msgDeleteFailed = "Buku gagal dihapus"
	msgIDNotFound   = "Id tidak ditemukan"
	msgBadPayload   = "Payload tidak valid"
)

// RateLimit configures the two limiter tiers. Zero rates fall back to the
// defaults and nil stores to echo's in-memory store.
type RateLimit struct {
	BaseRPS   rate.Limit
	APIRPS    rate.Limit
	BaseStore middleware.RateLimiterStore
	APIStore  middleware.RateLimiterStore
}

type Handler struct {
	bookSvc BookService
	limits  RateLimit
	log     *zap.Logger
}

func New(bookSvc BookService, log *zap.Logger, limits RateLimit) *Handler {
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	if limits.BaseRPS == 0 {
		limits.BaseRPS = baseRPS
	}
	if limits.APIRPS == 0 {
		limits.APIRPS = apiRPS
	}
	return &Handler{
		bookSvc: bookSvc,
		limits:  limits,
		log:     log.Named("handler"),
	}
}

// @title Bookshelf API
// @version 1.0
// @description In-memory bookshelf with reading progress.
// @BasePath /

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = h.errorHandler

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	e.Use(middleware.RequestID())

	base := e.Group("", md.NewRateLimiter(h.limits.BaseRPS, h.limits.BaseStore))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/books",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		md.NewRateLimiter(h.limits.APIRPS, h.limits.APIStore),
	)
	api.POST("", h.CreateBook)
	api.GET("", h.ListBooks)
	api.GET("/:id", h.GetBook)
	api.PUT("/:id", h.UpdateBook)
	api.DELETE("/:id", h.DeleteBook)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// CreateBook
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Param book body model.BookRequest true "book"
// @Success 201 {object} Response{data=CreateBookData}
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, failMsg(msgCreateFailed, msgBadPayload)).SetInternal(err)
	}
	id, err := h.bookSvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		if errs.IsValidation(err) {
			return echo.NewHTTPError(http.StatusBadRequest, failMsg(msgCreateFailed, err.Error()))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, msgInsertFailed).SetInternal(err)
	}
	return c.JSON(http.StatusCreated, Response{
		Status:  statusSuccess,
		Message: msgCreated,
		Data:    CreateBookData{BookID: id},
	})
}

// ListBooks
// @Summary List books
// @Tags books
// @Produce json
// @Param name query string false "case-insensitive name substring"
// @Param reading query string false "0 or 1"
// @Param finished query string false "0 or 1"
// @Success 200 {object} Response{data=ListBooksData}
// @Router /books [get]
func (h *Handler) ListBooks(c echo.Context) error {
	filter := model.BookFilter{
		Name:     c.QueryParam("name"),
		Reading:  model.ParseFlag(c.QueryParam("reading")),
		Finished: model.ParseFlag(c.QueryParam("finished")),
	}
	books, err := h.bookSvc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, Response{
		Status: statusSuccess,
		Data:   ListBooksData{Books: books},
	})
}

// GetBook
// @Summary Get a book
// @Tags books
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} Response{data=GetBookData}
// @Failure 404 {object} Response
// @Router /books/{id} [get]
func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.bookSvc.GetBook(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgNotFound)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, Response{
		Status: statusSuccess,
		Data:   GetBookData{Book: book},
	})
}

// UpdateBook
// @Summary Replace a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "book id"
// @Param book body model.BookRequest true "book"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /books/{id} [put]
func (h *Handler) UpdateBook(c echo.Context) error {
	var req model.BookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, failMsg(msgUpdateFailed, msgBadPayload)).SetInternal(err)
	}
	if err := h.bookSvc.UpdateBook(c.Request().Context(), c.Param("id"), req); err != nil {
		switch {
		case errs.IsValidation(err):
			return echo.NewHTTPError(http.StatusBadRequest, failMsg(msgUpdateFailed, err.Error()))
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, failMsg(msgUpdateFailed, msgIDNotFound))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, Response{Status: statusSuccess, Message: msgUpdated})
}

// DeleteBook
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param id path string true "book id"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /books/{id} [delete]
func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.bookSvc.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, failMsg(msgDeleteFailed, msgIDNotFound))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, Response{Status: statusSuccess, Message: msgDeleted})
}

func failMsg(action, reason string) string {
	return action + ". " + reason
}
