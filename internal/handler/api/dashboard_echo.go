package api

import (
	"errors"
	"net/http"
	"strings"

	models "CapLens/internal/domain/models"
	"CapLens/internal/usecase"
	xhttp "CapLens/pkg/http"
	"CapLens/pkg/http/middleware"
	xlogger "CapLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler exposes the dashboard use case over Echo.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	dash    *usecase.Dashboard
	limiter middleware.Allower
}

// NewDashboardEchoHandler builds the handler. A nil limiter leaves the write routes unthrottled.
func NewDashboardEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard, limiter middleware.Allower) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, dash: dash, limiter: limiter}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	limited := middleware.RateLimit(h.limiter)

	g.GET("/companies", h.ListCompanies)
	g.GET("/companies/:ticker", h.Company)
	g.GET("/companies/:ticker/risk", h.Risk)
	g.GET("/companies/:ticker/confidence", h.Confidence)
	g.GET("/companies/:ticker/confidence/report", h.ConfidenceReport)
	g.GET("/companies/:ticker/events", h.Events)
	g.GET("/companies/:ticker/events/impact", h.EventsImpact)
	g.GET("/companies/:ticker/insights", h.Insights)
	g.GET("/companies/:ticker/projection", h.Projection)
	g.GET("/companies/:ticker/stance", h.Stance)
	g.POST("/companies/:ticker/stance", h.UpdateStance, limited)

	g.GET("/stances", h.ListStances)
	g.GET("/events", h.QueryEvents)
	g.POST("/events/:id/resolve", h.ResolveEvent, limited)

	g.GET("/export.csv", h.ExportCSV)
}

func (h *DashboardEchoHandler) ListCompanies(c echo.Context) error {
	rows := h.dash.ListCompanies()
	return xhttp.ListResponse(c, rows)
}

func (h *DashboardEchoHandler) Company(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Company(normalize(req.Ticker))
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Risk(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Risk(normalize(req.Ticker))
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Confidence(c echo.Context) error {
	req := &models.HorizonConfidenceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Confidence(normalize(req.Ticker), *req.Years)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) ConfidenceReport(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.ConfidenceReport(c.Request().Context(), normalize(req.Ticker))
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Events(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Events(normalize(req.Ticker))
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.ListResponse(c, res)
}

func (h *DashboardEchoHandler) EventsImpact(c echo.Context) error {
	req := &models.EventsImpactRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.EventsImpact(normalize(req.Ticker), *req.Horizon)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Insights(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Insights(c.Request().Context(), normalize(req.Ticker))
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Projection(c echo.Context) error {
	req := &models.ProjectionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.ProjectedTarget(normalize(req.Ticker), *req.Horizon)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) Stance(c echo.Context) error {
	req := &models.TickerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.Stance(normalize(req.Ticker))
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) ListStances(c echo.Context) error {
	return xhttp.ListResponse(c, h.dash.Stances())
}

func (h *DashboardEchoHandler) UpdateStance(c echo.Context) error {
	req := &models.StanceUpdateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := normalize(req.Ticker)
	if !h.dash.Known(ticker) {
		return h.fail(c, usecase.ErrUnknownTicker)
	}
	change := h.dash.UpdateStance(c.Request().Context(), ticker, req.Triggers)
	return xhttp.SuccessResponse(c, change)
}

func (h *DashboardEchoHandler) QueryEvents(c echo.Context) error {
	req := &models.EventsQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	filter := models.EventFilter{
		Ticker:        normalize(req.Ticker),
		Impact:        models.Impact(req.Impact),
		DateRangeDays: req.Days,
	}
	for _, t := range req.Types {
		filter.Types = append(filter.Types, models.EventType(t))
	}
	res := h.dash.FilterEvents(filter)
	return xhttp.ListResponse(c, res)
}

func (h *DashboardEchoHandler) ResolveEvent(c echo.Context) error {
	req := &models.ResolveEventRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.dash.ResolveEvent(req.ID, req.Results)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DashboardEchoHandler) ExportCSV(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="caplens.csv"`)
	res.WriteHeader(http.StatusOK)
	if err := h.dash.ExportCSV(res); err != nil {
		// Headers are already sent; the client sees a truncated file.
		h.logger.Error("csv export failed", xlogger.Error(err))
	}
	return nil
}

func (h *DashboardEchoHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnknownTicker):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("unknown ticker").WithParam("ticker", c.Param("ticker")))
	case errors.Is(err, usecase.ErrUnknownEvent):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("unknown event").WithParam("id", c.Param("id")))
	}
	h.logger.Error("dashboard usecase error", xlogger.String("route", c.Path()), xlogger.Error(err))
	return xhttp.AppErrorResponse(c, err)
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
