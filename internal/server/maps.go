package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/learnmap/internal/learnmap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// MapsHandler serves learning map generation.
type MapsHandler struct {
	Generator *learnmap.Generator
}

// GenerateMapRequest is the request body of POST /generate-map.
type GenerateMapRequest struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
}

func (h *MapsHandler) Register(g *echo.Group) {
	g.POST("/generate-map", h.generate)
}

func (h *MapsHandler) generate(c echo.Context) error {
	var req GenerateMapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body.")
	}

	r := c.Request()
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := otel.Tracer("learnmap/server").Start(ctx, "POST "+c.Path(),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("http.request_id", c.Response().Header().Get(echo.HeaderXRequestID))),
	)
	defer span.End()

	m, err := h.Generator.Generate(ctx, learnmap.Request{Topic: req.Topic, Level: req.Level})
	if err != nil {
		span.RecordError(err)
		return err
	}
	return c.JSON(http.StatusOK, m)
}
