// Copyright 2025 The GeoTranscript Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/geotranscript/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
