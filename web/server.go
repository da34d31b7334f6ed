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

// Package web provides the http service: a color service returning svg tiles,
// the resolver worker endpoint and mosaic conversion of uploaded images.
package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/FabianWe/colormosaic"
	"github.com/FabianWe/colormosaic/config"
	"github.com/FabianWe/colormosaic/render"
	"github.com/gin-gonic/gin"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyHandled is returned by handlers that already wrote the
	// response.
	ErrAlreadyHandled = errors.New("Error was already handled")
)

// ImageFormKey is the form key of the uploaded image.
const ImageFormKey = "image"

// Context contains everything the handlers need.
type Context struct {
	// Converter converts uploaded images.
	Converter *colormosaic.Converter
	// Resolver serves requests of remote workers on /resolve.
	Resolver colormosaic.ColorResolver
	// Tiles is the size of the svg tiles served on /color.
	Tiles     colormosaic.TileSpec
	MaxBytes  int64
	MaxWidth  int
	MaxHeight int
	Resizer   colormosaic.ImageResizer
}

// NewContext returns a new context. The resolver for the worker endpoint
// renders svg tiles of the converter's tile size.
func NewContext(converter *colormosaic.Converter) *Context {
	return &Context{
		Converter: converter,
		Resolver:  colormosaic.NewSVGResolver(converter.Tiles),
		Tiles:     converter.Tiles,
		MaxBytes:  colormosaic.DefaultMaxImageBytes,
		Resizer:   colormosaic.DefaultResizer,
	}
}

// HandlerFunc is a handler returning a value that is encoded as JSON.
type HandlerFunc func(context *Context, c *gin.Context) (interface{}, error)

// ToGinFunc converts a HandlerFunc to a gin handler.
func ToGinFunc(context *Context, handler HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		jsonData, err := handler(context, c)
		switch {
		case errors.Is(err, ErrAlreadyHandled):
		case err != nil:
			log.WithError(err).Error("Error in request")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		default:
			c.JSON(http.StatusOK, jsonData)
		}
	}
}

func abort(c *gin.Context, status int, err error) error {
	c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
	return ErrAlreadyHandled
}

// NewRouter creates the router with all routes.
func NewRouter(context *Context) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/color/:hex", ToGinFunc(context, ColorHandler))
	r.POST("/resolve", ToGinFunc(context, ResolveHandler))
	r.POST("/mosaic", ToGinFunc(context, MosaicHandler))
	return r
}

// ColorHandler returns the svg tile for the color given as "rrggbb".
func ColorHandler(context *Context, c *gin.Context) (interface{}, error) {
	rgba, err := colormosaic.ParseHex(c.Param("hex"))
	if err != nil {
		return nil, abort(c, http.StatusBadRequest, err)
	}
	tile := colormosaic.SVGTile(context.Tiles, colormosaic.AverageColor(rgba))
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", []byte(tile))
	return nil, ErrAlreadyHandled
}

// ResolveHandler is the worker endpoint used by RemoteResolver: it resolves
// all colors of a ResolveRequest and answers with one ResolveReply.
func ResolveHandler(context *Context, c *gin.Context) (interface{}, error) {
	var req colormosaic.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, colormosaic.NewResolveReply(nil,
			fmt.Errorf("Invalid request, expected valid JSON, got: %w", err)))
		return nil, ErrAlreadyHandled
	}
	tiles, err := context.Resolver.Resolve(c.Request.Context(), req.Colors)
	if err == nil && len(tiles) != len(req.Colors) {
		err = fmt.Errorf("%w: resolved %d of %d colors",
			colormosaic.ErrTileCountMismatch, len(tiles), len(req.Colors))
	}
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusBadGateway, colormosaic.NewResolveReply(nil, err))
		return nil, ErrAlreadyHandled
	}
	return colormosaic.NewResolveReply(tiles, nil), nil
}

// MosaicHandler converts the uploaded image and streams the mosaic as html,
// one row at a time. Errors before the first row are answered with JSON, later
// errors end the response early.
func MosaicHandler(context *Context, c *gin.Context) (interface{}, error) {
	header, err := c.FormFile(ImageFormKey)
	if err != nil {
		return nil, abort(c, http.StatusBadRequest, err)
	}
	if context.MaxBytes > 0 && header.Size > context.MaxBytes {
		return nil, abort(c, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%w: %d bytes, at most %d allowed",
				colormosaic.ErrImageTooLarge, header.Size, context.MaxBytes))
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	decoded, err := colormosaic.LoadImage(f, context.MaxBytes)
	switch {
	case errors.Is(err, colormosaic.ErrImageTooLarge):
		return nil, abort(c, http.StatusRequestEntityTooLarge, err)
	case err != nil:
		return nil, abort(c, http.StatusBadRequest, err)
	}
	img := colormosaic.FitImage(decoded, context.MaxWidth, context.MaxHeight, context.Resizer)

	hw := render.NewHTMLWriter(c.Writer, context.Converter.Tiles.Height, img.Bounds().Dx())
	started := false
	begin := func() error {
		if started {
			return nil
		}
		started = true
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		return hw.Begin("Mosaic")
	}
	sink := func(row int, tiles colormosaic.MosaicRow) error {
		if err := begin(); err != nil {
			return err
		}
		return hw.WriteRow(row, tiles)
	}

	conversion, err := context.Converter.Convert(c.Request.Context(), img, sink)
	switch {
	case err != nil && started:
		// the status is already sent, all we can do is stop
		c.Error(err)
		log.WithError(err).Error("Mosaic streaming aborted")
		return nil, ErrAlreadyHandled
	case errors.Is(err, colormosaic.ErrInvalidDimension):
		return nil, abort(c, http.StatusBadRequest, err)
	case errors.Is(err, colormosaic.ErrResolverFailure):
		return nil, abort(c, http.StatusBadGateway, err)
	case err != nil:
		return nil, err
	}
	if err := begin(); err != nil {
		return nil, err
	}
	if err := hw.End(); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"conversion": conversion.ID.String(),
		"rows":       conversion.RowsEmitted,
	}).Debug("Mosaic sent")
	return nil, ErrAlreadyHandled
}

// Serve runs the router with the server settings from cfg.
func Serve(context *Context, cfg config.ServerConfig) error {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(context),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	log.WithField("addr", cfg.Addr).Info("Server starting")
	return srv.ListenAndServe()
}
