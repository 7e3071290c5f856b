// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcription is a client for the place-name transcription daemon.
//
// A request is a single text/plain POST whose body is "<lon>/<lat>/<name>",
// where lon/lat is the centroid of an optional bounding box and both are
// left empty ("//<name>") when no box is known. The response body is the
// transcribed name.
package transcription
