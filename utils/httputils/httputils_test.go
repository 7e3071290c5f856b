// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRoundTripper records the last request and answers with a canned response.
type stubRoundTripper struct {
	lastRequest *http.Request
	body        string
	err         error
}

func (s *stubRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(s.body)),
	}, nil
}

func TestTraceRoundTripper(t *testing.T) {
	var trace bytes.Buffer

	stub := &stubRoundTripper{body: "Bangkok"}
	rt := &TraceRoundTripper{Transport: stub, Writer: &trace, DumpBody: true}

	req, err := http.NewRequest(http.MethodPost, "http://example.com/", strings.NewReader("100.5/13.75/กรุงเทพ"))
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Bangkok", string(body), "body must still be readable after dumping")

	out := trace.String()
	assert.Contains(t, out, "> POST / HTTP/1.1")
	assert.Contains(t, out, "> 100.5/13.75/กรุงเทพ")
	assert.Contains(t, out, "< RESPONSE: [")
	assert.Contains(t, out, "< Bangkok")
}

func TestTraceRoundTripperWithoutBody(t *testing.T) {
	var trace bytes.Buffer

	rt := &TraceRoundTripper{Transport: &stubRoundTripper{body: "secret"}, Writer: &trace}

	req, err := http.NewRequest(http.MethodPost, "http://example.com/", strings.NewReader("//name"))
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.NotContains(t, trace.String(), "//name")
	assert.NotContains(t, trace.String(), "secret")
}

func TestTraceRoundTripperFailure(t *testing.T) {
	var trace bytes.Buffer

	boom := errors.New("connection refused")
	rt := &TraceRoundTripper{Transport: &stubRoundTripper{err: boom}, Writer: &trace}

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.NoError(t, err)

	_, err = rt.RoundTrip(req)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, trace.String(), "< FAILED:")
}

func TestTraceRoundTripperNilWriter(t *testing.T) {
	stub := &stubRoundTripper{}
	rt := &TraceRoundTripper{Transport: stub}

	req, err := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Same(t, req, stub.lastRequest)
}

func TestPrefixTruncates(t *testing.T) {
	long := strings.Repeat("x", maxTraceChars+10)
	out := prefix([]byte(long), '>')
	assert.True(t, strings.HasSuffix(out, "…\n"))

	many := strings.Repeat("line\n", maxTraceLines+5)
	lines := strings.Split(strings.TrimSuffix(prefix([]byte(many), '<'), "\n"), "\n")
	assert.Len(t, lines, maxTraceLines+1)
	assert.Equal(t, "< …", lines[len(lines)-1])
}

func TestHeaderRoundTripper(t *testing.T) {
	stub := &stubRoundTripper{}
	rt := &HeaderRoundTripper{
		Transport: stub,
		Headers:   map[string]string{"User-Agent": "geotranscript/test"},
	}

	req, err := http.NewRequest(http.MethodPost, "http://example.org", nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.NotNil(t, stub.lastRequest)
	assert.Equal(t, "geotranscript/test", stub.lastRequest.Header.Get("User-Agent"))
	assert.Empty(t, req.Header.Get("User-Agent"), "original request must be left untouched")
}
