// Copyright 2025 The GeoTranscript Authors
//
// SPDX-License-Identifier: Apache-2.0
package spatial

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/uber/h3-go/v4"
)

// ErrInvalidBoundingBox is returned when a bounding box can't be built from its input.
var ErrInvalidBoundingBox = errors.New("spatial: invalid bounding box")

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%s %s)", FormatCoordinate(p.Lng), FormatCoordinate(p.Lat))
}

// H3Cell returns the H3 cell containing the point at the given resolution.
func (p Point) H3Cell(res int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
	if err != nil {
		return 0, fmt.Errorf("converting %s to h3 cell at res %d: %w", p, res, err)
	}

	return cell, nil
}

// BoundingBox is a rectangular extent, ordered as min-lon, min-lat, max-lon, max-lat.
type BoundingBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// NewBoundingBox builds a box from a [minLon, minLat, maxLon, maxLat] sequence.
func NewBoundingBox(coords []float64) (*BoundingBox, error) {
	if len(coords) != 4 {
		return nil, fmt.Errorf("%w: expected 4 coordinates, got %d", ErrInvalidBoundingBox, len(coords))
	}

	return &BoundingBox{
		MinLng: coords[0],
		MinLat: coords[1],
		MaxLng: coords[2],
		MaxLat: coords[3],
	}, nil
}

// ParseBoundingBox parses "minlon,minlat,maxlon,maxlat". An empty string means no box.
func ParseBoundingBox(s string) (*BoundingBox, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	coords := make([]float64, 0, len(parts))

	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidBoundingBox, part, err)
		}

		coords = append(coords, v)
	}

	return NewBoundingBox(coords)
}

// Centroid returns the midpoint of the box.
func (b *BoundingBox) Centroid() Point {
	return Point{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// FormatCoordinate renders a coordinate as the shortest exact decimal, without exponent.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
