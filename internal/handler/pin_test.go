package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/skate-pins/internal/config"
	"github.com/iliyamo/skate-pins/internal/model"
	"github.com/iliyamo/skate-pins/internal/queue"
	"github.com/iliyamo/skate-pins/internal/repository"
	"github.com/iliyamo/skate-pins/internal/testdb"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.PinEvent
	err    error
}

func (r *recordingPublisher) PublishPinEvent(_ context.Context, ev queue.PinEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func newPinServer(t *testing.T, events EventPublisher) (*echo.Echo, *repository.PinRepo) {
	t.Helper()
	repo := repository.NewPinRepo(testdb.Open(t))
	h := NewPinHandler(repo, events, zap.NewNop())
	e := echo.New()
	e.GET("/v1/pins", h.ListPins)
	e.POST("/v1/pins", h.CreatePin)
	e.DELETE("/v1/pins/:id", h.DeletePin)
	return e, repo
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreatePinReturnsStoredRow(t *testing.T) {
	pub := &recordingPublisher{}
	e, _ := newPinServer(t, pub)

	rec := do(e, http.MethodPost, "/v1/pins", `{"lat":37.70,"lng":-122.40,"type":"park","title":"  ","description":" fresh wax "}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got model.Pin
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	want := model.Pin{ID: "1", Lat: 37.70, Lng: -122.40, Type: model.TypePark, Description: "fresh wax"}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(model.Pin{}, "CreatedAt")); diff != "" {
		t.Errorf("created pin mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Skate Park", got.DisplayTitle())

	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.PinCreated, pub.events[0].Kind)
	assert.Equal(t, "1", pub.events[0].PinID)
}

func TestCreatePinValidation(t *testing.T) {
	e, repo := newPinServer(t, nil)

	tests := []struct {
		name, body, msg string
	}{
		{"malformed json", `{`, "invalid request body"},
		{"missing coordinates", `{"type":"park"}`, "lat and lng are required"},
		{"out of range", `{"lat":95,"lng":0,"type":"park"}`, "coordinates out of range"},
		{"unknown type", `{"lat":1,"lng":2,"type":"bowl"}`, "unknown pin type"},
		{"missing type", `{"lat":1,"lng":2}`, "unknown pin type"},
		{"long title", `{"lat":1,"lng":2,"type":"park","title":"` + strings.Repeat("x", 256) + `"}`, "too long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/v1/pins", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
		})
	}

	pins, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pins)
}

func TestListPins(t *testing.T) {
	e, repo := newPinServer(t, nil)

	rec := do(e, http.MethodGet, "/v1/pins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	require.NoError(t, repo.Create(context.Background(), &model.Pin{Lat: 1, Lng: 2, Type: model.TypeStreet, Title: "Hubba"}))
	rec = do(e, http.MethodGet, "/v1/pins", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []model.Pin `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "Hubba", body.Items[0].Title)
}

func TestDeletePin(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	e, repo := newPinServer(t, pub)
	require.NoError(t, repo.Create(context.Background(), &model.Pin{Lat: 1, Lng: 2, Type: model.TypePark}))

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/v1/pins/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/v1/pins/1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodDelete, "/v1/pins/abc", "").Code)

	// a failing broker does not fail the request
	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.PinDeleted, pub.events[0].Kind)
}

func TestGetMap(t *testing.T) {
	e := echo.New()
	h := &MapHandler{Map: config.DefaultMapConfig()}
	e.GET("/v1/map", h.GetMap)

	rec := do(e, http.MethodGet, "/v1/map", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Zoom     int                 `json:"zoom"`
		Center   model.LatLng        `json:"center"`
		PinTypes []model.PinTypeInfo `json:"pin_types"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 13, body.Zoom)
	assert.Equal(t, 37.7749, body.Center.Lat)
	require.Len(t, body.PinTypes, 3)
	assert.Equal(t, model.TypeSkatingNow, body.PinTypes[0].Type)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health)
	rec := do(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
