// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"os"

	"github.com/jcodagnone/geotranscript/spatial"
	"github.com/jcodagnone/geotranscript/transcription"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	transcribeOptions transcription.ClientOptions
	transcribeBBox    string
	transcribeStrict  bool
)

// transcribeTally counts the outcome of a batch.
type transcribeTally struct {
	Total  int
	Failed int
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [name...]",
	Short: "Transcribe place names",
	Long: `Sends each name to the transcription daemon and prints the name followed
by its transcription. Without arguments, names are read from stdin, one per
line. Failed transcriptions print "transcription error".

$ geotranscript transcribe --bbox 139.5,35.5,140,36 東京
東京	Tōkyō
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bbox, err := spatial.ParseBoundingBox(transcribeBBox)
		if err != nil {
			return err
		}

		if transcribeOptions.UserAgent == "" {
			transcribeOptions.UserAgent = "geotranscript/" + Version
		}

		var (
			names   iter.Seq[string]
			done    func()
			finish  func()
			scanErr func() error
		)

		if len(args) > 0 {
			names = func(yield func(string) bool) {
				for _, arg := range args {
					if !yield(arg) {
						return
					}
				}
			}
		} else {
			if isatty.IsTerminal(os.Stdin.Fd()) {
				fmt.Fprintln(os.Stderr, "Enter place names to transcribe, one per line…")
			} else if isatty.IsTerminal(os.Stderr.Fd()) {
				bar := progressbar.NewOptions(-1,
					progressbar.OptionSetDescription("Transcribing"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)

				// The bar owns stderr until it finishes.
				held := &deferredLog{out: os.Stderr}
				transcribeOptions.Logger = held.Logger()

				done = func() { _ = bar.Add(1) }
				finish = func() {
					_ = bar.Finish()
					_ = held.Flush()
				}
			}

			scanner := bufio.NewScanner(os.Stdin)
			names = lines(scanner)
			scanErr = scanner.Err
		}

		client := transcription.NewClient(&transcribeOptions)
		tally := transcribeNames(cmd.Context(), client, bbox, names, cmd.OutOrStdout(), done)

		if finish != nil {
			finish()
		}

		if scanErr != nil {
			if err := scanErr(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
		}

		if transcribeStrict && tally.Failed > 0 {
			return fmt.Errorf("%d of %d transcriptions failed", tally.Failed, tally.Total)
		}

		return nil
	},
}

// deferredLog holds log lines until Flush.
type deferredLog struct {
	buf bytes.Buffer
	out io.Writer
}

// Logger returns a logger that timestamps like the standard one but writes to d.
func (d *deferredLog) Logger() *log.Logger {
	return log.New(&logWriter{writer: &d.buf}, "", 0)
}

// Flush writes the held lines to out.
func (d *deferredLog) Flush() error {
	_, err := d.out.Write(d.buf.Bytes())
	d.buf.Reset()

	return err
}

// lines yields each line read by scanner.
func lines(scanner *bufio.Scanner) iter.Seq[string] {
	return func(yield func(string) bool) {
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}
}

// transcribeNames writes "name\tresult" for every name. Failures are written
// as transcription.ErrorText. done, if set, is called after each name.
func transcribeNames(
	ctx context.Context,
	t transcription.Transcriber,
	bbox *spatial.BoundingBox,
	names iter.Seq[string],
	out io.Writer,
	done func(),
) transcribeTally {
	var tally transcribeTally

	for name := range names {
		if ctx.Err() != nil {
			break
		}

		tally.Total++

		text, err := t.Transcribe(ctx, name, bbox)
		if err != nil {
			tally.Failed++
			text = transcription.ErrorText
		}

		fmt.Fprintf(out, "%s\t%s\n", name, text)

		if done != nil {
			done()
		}
	}

	return tally
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().StringVar(
		&transcribeOptions.ServerURL,
		"server",
		transcription.DefaultServerURL,
		"Transcription daemon URL",
	)
	transcribeCmd.Flags().StringVar(
		&transcribeBBox,
		"bbox",
		"",
		"Bounding box of the names, as minlon,minlat,maxlon,maxlat",
	)
	transcribeCmd.Flags().StringVar(
		&transcribeOptions.UserAgent,
		"user-agent",
		"",
		"User-Agent header to send. Defaults to geotranscript/<version>",
	)
	transcribeCmd.Flags().BoolVar(
		&transcribeStrict,
		"strict",
		false,
		"Exit with an error if any transcription failed",
	)
	transcribeCmd.Flags().BoolVar(
		&transcribeOptions.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	transcribeCmd.Flags().BoolVar(
		&transcribeOptions.EnableHTTPBodyTrace,
		"trace-http-body",
		false,
		"Display HTTP requests-responses bodies",
	)
}
