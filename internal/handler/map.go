package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/skate-pins/internal/config"
    "github.com/iliyamo/skate-pins/internal/model"
)

// MapHandler serves the map view settings a client needs before it can
// render anything: view, tiles, marker icon and the pin type catalog.
type MapHandler struct {
    Map config.MapConfig
}

type mapResp struct {
    config.MapConfig
    PinTypes []model.PinTypeInfo `json:"pin_types"`
}

// GetMap handles GET /v1/map.
func (h *MapHandler) GetMap(c echo.Context) error {
    return c.JSON(http.StatusOK, mapResp{MapConfig: h.Map, PinTypes: model.PinTypes()})
}
