package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-report/internal/config"
	"github.com/vzahanych/weather-report/internal/forecaster"
	"github.com/vzahanych/weather-report/internal/location"
	"github.com/vzahanych/weather-report/internal/server/utils"
	"github.com/vzahanych/weather-report/internal/types"
	"github.com/vzahanych/weather-report/internal/validation"
)

type Forecaster interface {
	Forecast(ctx context.Context, q location.Query) (*forecaster.Result, error)
}

type ForecastHandler struct {
	forecaster Forecaster
	cfg        *config.Config
	clock      clockwork.Clock
	logger     *zap.Logger
}

func NewForecastHandler(f Forecaster, cfg *config.Config, clock clockwork.Clock, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{
		forecaster: f,
		cfg:        cfg,
		clock:      clock,
		logger:     logger,
	}
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)
	ctx = forecaster.WithRequestID(ctx, requestID)

	// Create logger with request ID for this request
	reqLogger := h.logger.With(zap.String("request_id", requestID))

	var req ForecastRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, e := range errs {
			messages = append(messages, e.Message)
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: strings.Join(messages, "; "),
		})
		return
	}

	if (req.Lat == nil) != (req.Lon == nil) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: "lat and lon must be given together",
		})
		return
	}

	query := location.Query{Description: req.Description}
	if req.Lat != nil {
		query.Coordinates = types.NewCoords(*req.Lat, *req.Lon).String()
	}

	events := h.cfg.Forecast.Events
	if req.Events > 0 {
		events = req.Events
	}

	reqLogger.Info("Processing forecast request",
		zap.String("description", query.Description),
		zap.String("coordinates", query.Coordinates),
		zap.Int("events", events))

	result, err := h.forecaster.Forecast(ctx, query)
	if err != nil {
		status, resp := errorResponse(err)
		utils.GetSpanFromGinContext(c).SetAttributes(attribute.String("error.code", resp.Code))
		c.JSON(status, resp)
		return
	}

	out, err := result.Render(h.cfg.Display.Timezone, events, h.clock.Now())
	if err != nil {
		reqLogger.Error("Failed to render forecast", zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "Forecast could not be rendered",
			Code:    "RENDER_ERROR",
			Details: err.Error(),
		})
		return
	}

	c.String(http.StatusOK, out)
}

func errorResponse(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, forecaster.ErrOutOfBounds):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "Requested point is out of bounds",
			Code:    "OUT_OF_BOUNDS",
			Details: err.Error(),
		}
	case errors.Is(err, location.ErrInvalidFormat):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		}
	case errors.Is(err, location.ErrMissingField):
		return http.StatusNotFound, ErrorResponse{
			Error:   "Location not found",
			Code:    "LOCATION_NOT_FOUND",
			Details: err.Error(),
		}
	default:
		return http.StatusBadGateway, ErrorResponse{
			Error:   "Failed to fetch forecast",
			Code:    "UPSTREAM_ERROR",
			Details: err.Error(),
		}
	}
}
