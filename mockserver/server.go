// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

// Package mockserver is a local stand-in for the transcription daemon. It
// speaks the same text/plain wire format as the real service, so the client
// and the CLI can be exercised without one.
package mockserver

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/geotranscript/transcription"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// HintHeader carries the script hint the server derived for a request.
const HintHeader = "X-Transcription-Hint"

// Script hints, as understood by the daemon.
const (
	HintNone = ""
	HintThai = "th"
	HintCJK  = "cjk"
)

// Transliterator converts name to Latin script, given a script hint.
type Transliterator func(hint, name string) (string, error)

// Options configures the server.
type Options struct {
	// Transliterate defaults to Fold.
	Transliterate Transliterator

	// FailStatus, when set, is returned for every request. It must be a
	// non-success status, 300 to 999.
	FailStatus int

	// Verbose logs one line per request.
	Verbose bool
}

// ErrInvalidFailStatus is returned by NewServer for a FailStatus that can't be sent as a failure.
var ErrInvalidFailStatus = errors.New("mockserver: fail status must be between 300 and 999")

// Server serves transcription requests.
type Server struct {
	options Options
	engine  *gin.Engine
}

// NewServer creates a new server with the provided options.
func NewServer(options Options) (*Server, error) {
	// net/http panics on codes outside 100-999, and 1xx/2xx would not fail.
	if options.FailStatus != 0 && (options.FailStatus < 300 || options.FailStatus > 999) {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidFailStatus, options.FailStatus)
	}

	if options.Transliterate == nil {
		options.Transliterate = Fold
	}

	s := &Server{options: options}

	if options.Verbose {
		s.engine = gin.Default()
	} else {
		s.engine = gin.New()
		s.engine.Use(gin.Recovery())
	}

	s.engine.POST("/", s.transcribe)

	return s, nil
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until the process exits.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) transcribe(ctx *gin.Context) {
	if s.options.FailStatus != 0 {
		ctx.Status(s.options.FailStatus)

		return
	}

	body, err := ctx.GetRawData()
	if err != nil {
		ctx.String(http.StatusBadRequest, "reading body: %v", err)

		return
	}

	req, err := transcription.ParseRequestBody(string(body))
	if err != nil {
		ctx.String(http.StatusBadRequest, "%v", err)

		return
	}

	hint := ScriptHint(req)
	ctx.Header(HintHeader, hint)

	if s.options.Verbose {
		log.Printf("transcribing %q (hint %q, centroid %v)", req.Name, hint, req.Centroid)
	}

	reply := ""
	if req.Name != "" {
		reply, err = s.options.Transliterate(hint, req.Name)
		if err != nil {
			// The daemon answers failed transcriptions with an empty reply.
			log.Printf("transcribing %q: %v", req.Name, err)

			reply = ""
		}
	}

	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(reply))
}

// ScriptHint picks the transcription rules for a request. CJK needs the
// centroid to tell languages apart, so it is only hinted when one is present.
func ScriptHint(req transcription.Request) string {
	switch {
	case containsCJK(req.Name):
		if req.Centroid != nil {
			return HintCJK
		}

		return HintNone
	case containsThai(req.Name):
		return HintThai
	default:
		return HintNone
	}
}

func containsThai(s string) bool {
	for _, r := range s {
		if r > 0x0E00 && r < 0x0E7F {
			return true
		}
	}

	return false
}

func containsCJK(s string) bool {
	for _, r := range s {
		if r > 0x4E00 && r < 0x9FFF {
			return true
		}
	}

	return false
}

// Fold strips combining marks and recomposes. It ignores the hint, so it is
// only a fair approximation for Latin-based names.
func Fold(_, name string) (string, error) {
	out, _, err := transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		name,
	)

	return out, err
}
