// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/jcodagnone/geotranscript/spatial"
	"github.com/jcodagnone/geotranscript/transcription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranscriber answers from a map and fails for unknown names.
type fakeTranscriber struct {
	known map[string]string
	boxes []*spatial.BoundingBox
}

func (f *fakeTranscriber) Transcribe(_ context.Context, name string, bbox *spatial.BoundingBox) (string, error) {
	f.boxes = append(f.boxes, bbox)

	text, ok := f.known[name]
	if !ok {
		return "", &transcription.Error{Type: transcription.ErrorTypeStatus, StatusCode: 500}
	}

	return text, nil
}

func TestTranscribeNames(t *testing.T) {
	fake := &fakeTranscriber{known: map[string]string{"東京": "Tōkyō", "": ""}}
	bbox := &spatial.BoundingBox{MinLng: 139, MinLat: 35, MaxLng: 140, MaxLat: 36}

	var out bytes.Buffer

	calls := 0
	tally := transcribeNames(
		context.Background(),
		fake,
		bbox,
		slices.Values([]string{"東京", "unknown", ""}),
		&out,
		func() { calls++ },
	)

	assert.Equal(t, transcribeTally{Total: 3, Failed: 1}, tally)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "東京\tTōkyō\nunknown\ttranscription error\n\t\n", out.String())

	for _, got := range fake.boxes {
		assert.Same(t, bbox, got)
	}
}

func TestTranscribeNamesStopsOnCancel(t *testing.T) {
	fake := &fakeTranscriber{known: map[string]string{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer

	tally := transcribeNames(ctx, fake, nil, slices.Values([]string{"a", "b"}), &out, nil)
	assert.Zero(t, tally.Total)
	assert.Empty(t, out.String())
}

func TestLines(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("Montevideo\nSão Paulo\n\n東京"))

	got := slices.Collect(lines(scanner))
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"Montevideo", "São Paulo", "", "東京"}, got)
}

func TestDebugCentroidCommand(t *testing.T) {
	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"debug", "centroid", "--bbox", "100,13,101,14", "--name", "กรุงเทพ", "--h3-res", "5"})

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, got, 3)
	assert.Equal(t, "centroid\tPOINT(100.5 13.5)", got[0])
	assert.Equal(t, "body\t100.5/13.5/กรุงเทพ", got[1])

	cell, err := spatial.Point{Lat: 13.5, Lng: 100.5}.H3Cell(5)
	require.NoError(t, err)
	assert.Equal(t, "h3\t"+cell.String(), got[2])
}

func TestDeferredLogHoldsClientErrorsUntilFlush(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	var stderr bytes.Buffer
	held := &deferredLog{out: &stderr}
	client := transcription.NewClient(&transcription.ClientOptions{
		ServerURL: server.URL,
		Logger:    held.Logger(),
	})

	names := slices.Values([]string{"Ankara", "İzmir"})
	var out bytes.Buffer
	tally := transcribeNames(t.Context(), client, nil, names, &out, func() {
		assert.Empty(t, stderr.String(), "log lines leaked while the bar is active")
	})
	assert.Equal(t, transcribeTally{Total: 2, Failed: 2}, tally)
	assert.Empty(t, stderr.String())

	require.NoError(t, held.Flush())

	logged := strings.Split(strings.TrimSuffix(stderr.String(), "\n"), "\n")
	require.Len(t, logged, 2)
	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} http error: 502$`)
	for _, l := range logged {
		assert.Regexp(t, line, l)
	}

	stderr.Reset()
	require.NoError(t, held.Flush())
	assert.Empty(t, stderr.String(), "flush must not repeat lines")
}
