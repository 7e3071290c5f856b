// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package transcription

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jcodagnone/geotranscript/spatial"
)

// ErrMalformedRequest is returned by ParseRequestBody on bodies with fewer than three fields.
var ErrMalformedRequest = errors.New("malformed transcription request")

// RequestBody builds the wire body for name. The name is sent verbatim.
func RequestBody(name string, bbox *spatial.BoundingBox) string {
	if bbox == nil {
		return "//" + name
	}

	c := bbox.Centroid()

	return spatial.FormatCoordinate(c.Lng) + "/" + spatial.FormatCoordinate(c.Lat) + "/" + name
}

// Request is the decoded form of a request body.
type Request struct {
	Name     string
	Centroid *spatial.Point
}

// ParseRequestBody decodes a body built by RequestBody. The name is the
// remainder after the second slash, so it may itself contain slashes.
func ParseRequestBody(body string) (Request, error) {
	fields := strings.SplitN(body, "/", 3)
	if len(fields) != 3 {
		return Request{}, fmt.Errorf("%w: %q", ErrMalformedRequest, body)
	}

	req := Request{Name: fields[2]}

	lng, lat := fields[0], fields[1]
	if lng == "" && lat == "" {
		return req, nil
	}

	x, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Request{}, fmt.Errorf("%w: longitude %q", ErrMalformedRequest, lng)
	}

	y, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Request{}, fmt.Errorf("%w: latitude %q", ErrMalformedRequest, lat)
	}

	req.Centroid = &spatial.Point{Lat: y, Lng: x}

	return req, nil
}
