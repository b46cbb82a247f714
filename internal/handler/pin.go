// Package handler exposes the HTTP handlers of the pin API.  This file holds
// the record store endpoints: select-all, insert-one and delete-by-id on the
// pins table.
package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/skate-pins/internal/model"
    "github.com/iliyamo/skate-pins/internal/queue"
    "github.com/iliyamo/skate-pins/internal/repository"
)

const (
    maxTitleLen       = 255
    maxDescriptionLen = 2000
)

// EventPublisher receives pin lifecycle events.  A nil publisher disables them.
type EventPublisher interface {
    PublishPinEvent(ctx context.Context, ev queue.PinEvent) error
}

// PinHandler bundles what the pin endpoints need.
type PinHandler struct {
    Pins   *repository.PinRepo
    Events EventPublisher
    Logger *zap.Logger
}

// NewPinHandler panics on a nil repository, like the other constructors here.
func NewPinHandler(pins *repository.PinRepo, events EventPublisher, logger *zap.Logger) *PinHandler {
    if pins == nil {
        panic("nil repository passed to NewPinHandler")
    }
    if logger == nil {
        logger = zap.NewNop()
    }
    return &PinHandler{Pins: pins, Events: events, Logger: logger}
}

type createPinReq struct {
    Lat         *float64 `json:"lat"`
    Lng         *float64 `json:"lng"`
    Type        string   `json:"type"`
    Title       string   `json:"title"`
    Description string   `json:"description"`
}

// ListPins handles GET /v1/pins and returns every stored pin.
func (h *PinHandler) ListPins(c echo.Context) error {
    pins, err := h.Pins.ListAll(c.Request().Context())
    if err != nil {
        h.Logger.Error("list pins", zap.Error(err))
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": pins})
}

// CreatePin handles POST /v1/pins.  Only the type is required besides the
// coordinates; title and description are optional and trimmed.  The response
// is the inserted row, including its assigned id.
func (h *PinHandler) CreatePin(c echo.Context) error {
    var req createPinReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if req.Lat == nil || req.Lng == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat and lng are required"})
    }
    if !model.ValidLatLng(*req.Lat, *req.Lng) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "coordinates out of range"})
    }
    typ, ok := model.ParsePinType(req.Type)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown pin type"})
    }
    pin := &model.Pin{
        Lat:         *req.Lat,
        Lng:         *req.Lng,
        Type:        typ,
        Title:       strings.TrimSpace(req.Title),
        Description: strings.TrimSpace(req.Description),
    }
    if len(pin.Title) > maxTitleLen || len(pin.Description) > maxDescriptionLen {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title or description too long"})
    }
    if err := h.Pins.Create(c.Request().Context(), pin); err != nil {
        h.Logger.Error("create pin", zap.Error(err))
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create pin"})
    }
    h.publish(c, queue.PinEvent{
        Kind:  queue.PinCreated,
        PinID: pin.ID,
        Type:  string(pin.Type),
        Title: pin.Title,
        Lat:   pin.Lat,
        Lng:   pin.Lng,
    })
    return c.JSON(http.StatusCreated, pin)
}

// DeletePin handles DELETE /v1/pins/:id.  204 on success, 404 when the id is
// unknown and 400 when it is malformed.
func (h *PinHandler) DeletePin(c echo.Context) error {
    id := c.Param("id")
    err := h.Pins.DeleteByID(c.Request().Context(), id)
    switch {
    case err == nil:
    case errors.Is(err, repository.ErrInvalidID):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    case errors.Is(err, repository.ErrPinNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "pin not found"})
    default:
        h.Logger.Error("delete pin", zap.String("id", id), zap.Error(err))
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    h.publish(c, queue.PinEvent{Kind: queue.PinDeleted, PinID: id})
    return c.NoContent(http.StatusNoContent)
}

// publish is best effort: the row is already committed, so a broker failure
// only loses the event.
func (h *PinHandler) publish(c echo.Context, ev queue.PinEvent) {
    if h.Events == nil {
        return
    }
    if role, ok := c.Get("role").(string); ok {
        ev.Role = role
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 2*time.Second)
    defer cancel()
    if err := h.Events.PublishPinEvent(ctx, ev); err != nil {
        h.Logger.Warn("publish pin event", zap.String("kind", ev.Kind), zap.Error(err))
    }
}
