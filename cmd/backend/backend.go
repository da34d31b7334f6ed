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
	"flag"
	"fmt"
	"os"

	"github.com/FabianWe/colormosaic"
	"github.com/FabianWe/colormosaic/config"
	"github.com/FabianWe/colormosaic/web"

	log "github.com/sirupsen/logrus"
)

var configPath = flag.String("config", os.Getenv("MOSAIC_CONFIG"), "Path to the YAML config file")

func main() {
	flag.Parse()
	cfg, err := config.New(*configPath)
	if err != nil {
		fmt.Println("Can't load configuration:", err)
		os.Exit(1)
	}
	if err := colormosaic.ConfigureLogging(cfg.Log); err != nil {
		fmt.Println("Invalid log configuration:", err)
		os.Exit(1)
	}

	converter, closer, err := colormosaic.NewConverterFromConfig(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("Can't create converter")
	}
	defer closer.Close()

	resizer, err := colormosaic.GetResizer(cfg.Image.Resizer, cfg.Image.Quality)
	if err != nil {
		log.WithError(err).Fatal("Invalid resizer")
	}

	ctx := web.NewContext(converter)
	ctx.MaxBytes = cfg.Image.MaxBytes
	ctx.MaxWidth = cfg.Image.MaxWidth
	ctx.MaxHeight = cfg.Image.MaxHeight
	ctx.Resizer = resizer

	log.WithFields(log.Fields{
		"tile":     converter.Tiles.String(),
		"resolver": cfg.Resolver.Kind,
		"cache":    cfg.Cache.Kind,
	}).Info("Starting mosaic backend")
	if err := web.Serve(ctx, cfg.Server); err != nil {
		log.WithError(err).Fatal("Server stopped")
	}
}
