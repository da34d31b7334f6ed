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
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/FabianWe/colormosaic"
	"github.com/FabianWe/colormosaic/config"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

type options struct {
	ConfigPath string
	Tile       string
	Format     string
	Output     string
	Resolver   string
	BaseURL    string
	NoWorker   bool
	Verbose    bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:          "mosaic",
	Short:        "Turn images into mosaics of coloured tiles",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", os.Getenv("MOSAIC_CONFIG"), "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&opts.Tile, "tile", "t", "", "Tile size, for example 16x16 (overrides the config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log debug messages")
	rootCmd.AddCommand(convertCmd, colorsCmd)
}

// getPath expands ~ and returns an absolute path.
func getPath(path string) (string, error) {
	res, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(res)
}

// loadConfig loads the config and applies the flags.
func loadConfig() (*config.Config, error) {
	path := opts.ConfigPath
	if path != "" {
		var err error
		if path, err = getPath(path); err != nil {
			return nil, err
		}
	}
	cfg, err := config.New(path)
	if err != nil {
		return nil, err
	}
	if opts.Tile != "" {
		spec, err := colormosaic.ParseTileSpec(opts.Tile)
		if err != nil {
			return nil, err
		}
		cfg.Tile.Width, cfg.Tile.Height = spec.Width, spec.Height
	}
	if opts.Resolver != "" {
		cfg.Resolver.Kind = opts.Resolver
	}
	if opts.BaseURL != "" {
		cfg.Resolver.BaseURL = opts.BaseURL
	}
	if opts.NoWorker {
		cfg.Worker.Enabled = false
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := colormosaic.ConfigureLogging(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadImage opens the image, applies the byte ceiling and resizes it to its
// preferred size.
func loadImage(cfg *config.Config, path string) (image.Image, error) {
	path, err := getPath(path)
	if err != nil {
		return nil, err
	}
	if !colormosaic.DecodableImage(filepath.Ext(path)) {
		return nil, fmt.Errorf("Unsupported image format \"%s\"", filepath.Ext(path))
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, err := colormosaic.LoadImage(file, cfg.Image.MaxBytes)
	if err != nil {
		return nil, err
	}
	resizer, err := colormosaic.GetResizer(cfg.Image.Resizer, cfg.Image.Quality)
	if err != nil {
		return nil, err
	}
	return colormosaic.FitImage(img, cfg.Image.MaxWidth, cfg.Image.MaxHeight, resizer), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
