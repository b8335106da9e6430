package api

import (
	"errors"
	"time"

	"SignalPull/internal/domain/models"
	"SignalPull/internal/service/alias"
	"SignalPull/internal/usecase"
	xhttp "SignalPull/pkg/http"
	applogger "SignalPull/pkg/logger"
	"SignalPull/pkg/util"

	"github.com/labstack/echo/v4"
)

// SignalsHandler exposes signal computation and instrument management over
// HTTP.
type SignalsHandler struct {
	logger    *applogger.Logger
	requester *usecase.SignalRequester
	aliases   *alias.Table
	collector *usecase.TickCollector
}

func NewSignalsHandler(logger *applogger.Logger, requester *usecase.SignalRequester, aliases *alias.Table, collector *usecase.TickCollector) *SignalsHandler {
	return &SignalsHandler{logger: logger, requester: requester, aliases: aliases, collector: collector}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/instruments", h.Instruments)
	g.POST("/instruments", h.AddInstrument)
	e.GET("/health", h.Health)
}

func (h *SignalsHandler) Signal(c echo.Context) error {
	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	timeframe, err := util.ParseDuration(req.Timeframe)
	if err != nil {
		return xhttp.BadRequestResponse(c,
			xhttp.BadRequestErrorf("timeframe %q: expected <int>s, <int>m or <int>h", req.Timeframe))
	}
	expiration, err := util.ParseDuration(req.Expiration)
	if err != nil {
		return xhttp.BadRequestResponse(c,
			xhttp.BadRequestErrorf("expiration %q: expected <int>s, <int>m or <int>h", req.Expiration))
	}

	res, err := h.requester.RequestSignal(c.Request().Context(), req.Instrument, timeframe, expiration)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDuration) {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestError(err.Error()))
		}
		h.logger.Error("signal usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, toSignalResponse(res))
}

func (h *SignalsHandler) Instruments(c echo.Context) error {
	pairs := h.aliases.List()
	rows := make([]models.InstrumentResponse, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, models.InstrumentResponse{Name: p.Name, Symbol: p.Symbol})
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *SignalsHandler) AddInstrument(c echo.Context) error {
	req := &models.InstrumentAddRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.aliases.Add(req.Name, req.Symbol)
	return xhttp.CreatedResponse(c, models.InstrumentResponse{Name: req.Name, Symbol: req.Symbol})
}

func (h *SignalsHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":        "ok",
		"feed_attached": h.collector != nil && h.collector.IsConnected(),
		"time":          time.Now().UTC().Format(time.RFC3339),
	})
}

func toSignalResponse(res models.SignalResult) models.SignalResponse {
	return models.SignalResponse{
		Signal:     string(res.Verdict.Direction),
		Rationale:  res.Verdict.Rationale,
		Instrument: res.Instrument,
		Symbol:     res.Symbol,
		Timeframe:  util.FormatDuration(res.Timeframe),
		Expiration: util.FormatDuration(res.Expiration),
		LastPrice:  res.LastPrice,
		ComputedAt: res.Verdict.ComputedAt.Unix(),
	}
}
