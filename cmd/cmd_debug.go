// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/jcodagnone/geotranscript/mockserver"
	"github.com/jcodagnone/geotranscript/spatial"
	"github.com/jcodagnone/geotranscript/transcription"
	"github.com/spf13/cobra"
)

var (
	debugBBox       string
	debugName       string
	debugH3Res      int
	debugServeAddr  string
	debugServeFail  int
	debugServeNoisy bool
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dev tools",
}

var debugCentroidCmd = &cobra.Command{
	Use:   "centroid",
	Short: "Show what would be sent for a bounding box",
	Long: `Prints the centroid of the bounding box, the request body that the client
would send for --name, and the H3 cell of the centroid.

$ geotranscript debug centroid --bbox 100,13,101,14 --name กรุงเทพ
centroid	POINT(100.5 13.5)
body	100.5/13.5/กรุงเทพ
h3	87649a…
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		bbox, err := spatial.ParseBoundingBox(debugBBox)
		if err != nil {
			return err
		}

		if bbox == nil {
			return errors.New("--bbox is required")
		}

		centroid := bbox.Centroid()

		cell, err := centroid.H3Cell(debugH3Res)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "centroid\t%s\n", centroid)
		fmt.Fprintf(out, "body\t%s\n", transcription.RequestBody(debugName, bbox))
		fmt.Fprintf(out, "h3\t%s\n", cell)

		return nil
	},
}

var debugServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local stand-in for the transcription daemon",
	Long: `Serves the transcription wire protocol on --addr. Names are folded to
their base letters instead of transcribed. Use --fail-status to make every
request fail with the given HTTP status.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		server, err := mockserver.NewServer(mockserver.Options{
			FailStatus: debugServeFail,
			Verbose:    debugServeNoisy,
		})
		if err != nil {
			return err
		}

		log.Printf("Serving transcription requests on %s", debugServeAddr)

		return server.Run(debugServeAddr)
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)
	debugCmd.AddCommand(debugCentroidCmd)
	debugCmd.AddCommand(debugServeCmd)

	debugCentroidCmd.Flags().StringVar(&debugBBox, "bbox", "", "Bounding box, as minlon,minlat,maxlon,maxlat")
	debugCentroidCmd.Flags().StringVar(&debugName, "name", "", "Place name to build the request body with")
	debugCentroidCmd.Flags().IntVar(&debugH3Res, "h3-res", 7, "H3 resolution of the reported cell")

	debugServeCmd.Flags().StringVar(&debugServeAddr, "addr", "localhost:8080", "Address to listen at")
	debugServeCmd.Flags().IntVar(&debugServeFail, "fail-status", 0, "Answer every request with this HTTP status")
	debugServeCmd.Flags().BoolVarP(&debugServeNoisy, "verbose", "v", false, "Log every request")
}
