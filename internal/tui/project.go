package tui

import (
	"math"

	"github.com/iliyamo/skate-pins/internal/model"
)

const (
	tileSize = 256
	// world pixels covered by one terminal cell; cells are about twice as
	// tall as they are wide
	cellW = 8.0
	cellH = 16.0
	// web mercator cuts off at this latitude
	maxLat = 85.05112878
)

// project maps ll to web mercator world pixels at zoom.
func project(ll model.LatLng, zoom int) (x, y float64) {
	scale := tileSize * math.Exp2(float64(zoom))
	lat := math.Max(-maxLat, math.Min(maxLat, ll.Lat))
	s := math.Sin(lat * math.Pi / 180)
	x = (ll.Lng + 180) / 360 * scale
	y = (0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)) * scale
	return x, y
}

func unproject(x, y float64, zoom int) model.LatLng {
	scale := tileSize * math.Exp2(float64(zoom))
	n := math.Pi - 2*math.Pi*y/scale
	return model.LatLng{
		Lat: 180 / math.Pi * math.Atan(math.Sinh(n)),
		Lng: x/scale*360 - 180,
	}
}

// viewport is the visible grid of cells centred on center.
type viewport struct {
	center     model.LatLng
	zoom       int
	cols, rows int
}

// cellOf returns the cell containing ll, and whether it is on screen.
func (v viewport) cellOf(ll model.LatLng) (col, row int, ok bool) {
	cx, cy := project(v.center, v.zoom)
	x, y := project(ll, v.zoom)
	col = int(math.Floor((x-cx)/cellW)) + v.cols/2
	row = int(math.Floor((y-cy)/cellH)) + v.rows/2
	return col, row, col >= 0 && col < v.cols && row >= 0 && row < v.rows
}

// latLngAt returns the coordinate at the middle of a cell.
func (v viewport) latLngAt(col, row int) model.LatLng {
	cx, cy := project(v.center, v.zoom)
	x := cx + (float64(col-v.cols/2)+0.5)*cellW
	y := cy + (float64(row-v.rows/2)+0.5)*cellH
	return unproject(x, y, v.zoom)
}

// pan returns the center moved by whole cells.
func (v viewport) pan(dcol, drow int) model.LatLng {
	cx, cy := project(v.center, v.zoom)
	ll := unproject(cx+float64(dcol)*cellW, cy+float64(drow)*cellH, v.zoom)
	for ll.Lng > 180 {
		ll.Lng -= 360
	}
	for ll.Lng < -180 {
		ll.Lng += 360
	}
	return ll
}
