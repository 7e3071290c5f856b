// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/jcodagnone/geotranscript/spatial"
	"github.com/jcodagnone/geotranscript/utils/httputils"
)

// DefaultServerURL is the daemon address used when none is configured.
const DefaultServerURL = "http://localhost:8080"

// Transcriber turns a place name into its transcription.
type Transcriber interface {
	Transcribe(ctx context.Context, name string, bbox *spatial.BoundingBox) (string, error)
}

// ClientOptions configuration for Client.
type ClientOptions struct {
	// ServerURL is the daemon endpoint. Fixed for the lifetime of the client.
	ServerURL string

	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool

	// Logger receives the failure diagnostics. Defaults to the standard logger.
	Logger *log.Logger
}

// Client talks to a single transcription daemon. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	serverURL string
	client    *http.Client
	logger    *log.Logger
}

var _ Transcriber = (*Client)(nil)

// NewClient creates a new client with the provided options.
func NewClient(options *ClientOptions) *Client {
	if options == nil {
		options = &ClientOptions{}
	}

	serverURL := DefaultServerURL
	if options.ServerURL != "" {
		serverURL = options.ServerURL
	}

	var traceWriter io.Writer
	if options.EnableHTTPTrace || options.EnableHTTPBodyTrace {
		traceWriter = os.Stderr
	}

	userAgent := "geotranscript/unknown"
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	transport := &httputils.HeaderRoundTripper{
		Headers: map[string]string{"User-Agent": userAgent},
		Transport: &httputils.TraceRoundTripper{
			Writer:    traceWriter,
			DumpBody:  options.EnableHTTPBodyTrace,
			Transport: http.DefaultTransport,
		},
	}

	logger := options.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		serverURL: serverURL,
		client: &http.Client{
			// A redirect is a failed transcription, not something to follow.
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: transport,
		},
		logger: logger,
	}
}

// ServerURL returns the endpoint the client posts to.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// Transcribe sends name, with the centroid of bbox when given, and returns the
// server's reply. Failures are logged once and returned as *Error; there are
// no retries.
func (c *Client) Transcribe(ctx context.Context, name string, bbox *spatial.BoundingBox) (string, error) {
	text, err := c.do(ctx, RequestBody(name, bbox))
	if err != nil {
		var tErr *Error
		if errors.As(err, &tErr) {
			c.logger.Printf("http error: %s", tErr.Code())
		}

		return "", err
	}

	return text, nil
}

// TranscribeText is Transcribe for callers that expect ErrorText instead of an error.
func (c *Client) TranscribeText(ctx context.Context, name string, bbox *spatial.BoundingBox) string {
	text, err := c.Transcribe(ctx, name, bbox)
	if err != nil {
		return ErrorText
	}

	return text
}

func (c *Client) do(ctx context.Context, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, strings.NewReader(body))
	if err != nil {
		return "", &Error{Type: ErrorTypeTransport, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Type: ErrorTypeTransport, Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)

		return "", &Error{Type: ErrorTypeStatus, StatusCode: resp.StatusCode}
	}

	// The reply may arrive in several chunks.
	var sb strings.Builder
	if _, err := io.Copy(&sb, resp.Body); err != nil {
		return "", &Error{Type: ErrorTypeTransport, Err: fmt.Errorf("reading response: %w", err)}
	}

	return sb.String(), nil
}
