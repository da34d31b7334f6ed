// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/FabianWe/colormosaic"
	"github.com/FabianWe/colormosaic/render"
	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <image>",
	Short: "Convert an image into a mosaic",
	Long: `Convert an image into a mosaic.

The mosaic is written as HTML document (one <div> per row) or as coloured
blocks for the terminal (--format ansi).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	flags := convertCmd.Flags()
	flags.StringVarP(&opts.Format, "format", "f", "html", "Output format, html or ansi")
	flags.StringVarP(&opts.Output, "output", "o", "", "Output file, stdout if empty")
	flags.StringVarP(&opts.Resolver, "resolver", "r", "", "Resolver (svg, png, ansi, palette, http or remote)")
	flags.StringVar(&opts.BaseURL, "base-url", "", "Base URL of the colour service for the http and remote resolvers")
	flags.BoolVar(&opts.NoWorker, "no-worker", false, "Resolve tiles inline instead of on a worker")
}

func runConvert(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(opts.Format)
	switch format {
	case "html", "ansi":
	default:
		return fmt.Errorf("Unknown output format \"%s\", expected html or ansi", opts.Format)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if format == "html" {
		if cfg.Resolver.Render == "ansi" {
			cfg.Resolver.Render = "svg"
		}
		if cfg.Resolver.Kind == "ansi" {
			return fmt.Errorf("The ansi resolver can't be used for html output")
		}
	} else {
		cfg.Resolver.Render = "ansi"
		if cfg.Resolver.Kind == "svg" || cfg.Resolver.Kind == "png" {
			cfg.Resolver.Kind = "ansi"
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	img, err := loadImage(cfg, args[0])
	if err != nil {
		return err
	}
	converter, closer, err := colormosaic.NewConverterFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	bounds := img.Bounds()
	_, numRows := converter.Tiles.GridSize(bounds.Dx(), bounds.Dy())
	var out io.Writer = os.Stdout
	if opts.Output == "" && opts.Verbose {
		converter.Progress = colormosaic.StdProgressFunc(os.Stderr, "Rows", numRows, 10)
	}
	if opts.Output != "" {
		path, pathErr := getPath(opts.Output)
		if pathErr != nil {
			return pathErr
		}
		file, createErr := os.Create(path)
		if createErr != nil {
			return createErr
		}
		defer file.Close()
		out = file

		bar := pb.New(numRows).SetWriter(os.Stderr).Start()
		defer bar.Finish()
		converter.Progress = func(num int) {
			bar.SetCurrent(int64(num))
		}
	}

	var sink colormosaic.RowSink
	var htmlWriter *render.HTMLWriter
	if format == "html" {
		htmlWriter = render.NewHTMLWriter(out, cfg.Tile.Height, img.Bounds().Dx())
		if err := htmlWriter.Begin(filepath.Base(args[0])); err != nil {
			return err
		}
		sink = htmlWriter.WriteRow
	} else {
		sink = render.NewTextWriter(out).WriteRow
	}

	conversion, err := converter.Convert(ctx, img, sink)
	if err != nil {
		return err
	}
	if htmlWriter != nil {
		if err := htmlWriter.End(); err != nil {
			return err
		}
	}
	log.WithFields(log.Fields{
		"conversion": conversion.ID.String(),
		"cols":       conversion.NumCols(),
		"rows":       conversion.RowsEmitted,
	}).Info("Mosaic created")
	return nil
}
