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

// Package render contains sinks that present the rows of a mosaic.
package render

import (
	"fmt"
	"html"
	"io"
	"net/http"

	"github.com/FabianWe/colormosaic"
)

// flush flushes w if it is buffered.
func flush(w io.Writer) error {
	switch f := w.(type) {
	case http.Flusher:
		f.Flush()
	case interface{ Flush() error }:
		return f.Flush()
	}
	return nil
}

// HTMLWriter writes each row as div element with the joined tiles. Each row is
// TileHeight high and at least MinWidth wide (usually the width of the image).
type HTMLWriter struct {
	W          io.Writer
	TileHeight int
	MinWidth   int
}

// NewHTMLWriter returns a new html writer.
func NewHTMLWriter(w io.Writer, tileHeight, minWidth int) *HTMLWriter {
	return &HTMLWriter{W: w, TileHeight: tileHeight, MinWidth: minWidth}
}

// RowHTML returns the markup of one row.
func (hw *HTMLWriter) RowHTML(tiles colormosaic.MosaicRow) string {
	return fmt.Sprintf("<div style=\"height:%dpx; min-width:%dpx;\">%s</div>\n",
		hw.TileHeight, hw.MinWidth, tiles.String())
}

// WriteRow writes the row and flushes the writer, it implements
// colormosaic.RowSink.
func (hw *HTMLWriter) WriteRow(row int, tiles colormosaic.MosaicRow) error {
	if _, err := io.WriteString(hw.W, hw.RowHTML(tiles)); err != nil {
		return err
	}
	return flush(hw.W)
}

// Begin writes the start of a html document containing the mosaic.
func (hw *HTMLWriter) Begin(title string) error {
	_, err := fmt.Fprintf(hw.W, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>#mosaic div { white-space: nowrap; line-height: 0; } #mosaic svg, #mosaic img { vertical-align: top; }</style>
</head>
<body>
<div id="mosaic">
`, html.EscapeString(title))
	return err
}

// End closes the document started by Begin.
func (hw *HTMLWriter) End() error {
	if _, err := io.WriteString(hw.W, "</div>\n</body>\n</html>\n"); err != nil {
		return err
	}
	return flush(hw.W)
}

// TextWriter writes each row as one line, for example for ANSI tiles.
type TextWriter struct {
	W io.Writer
}

// NewTextWriter returns a new text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{W: w}
}

// WriteRow implements colormosaic.RowSink.
func (tw *TextWriter) WriteRow(row int, tiles colormosaic.MosaicRow) error {
	if _, err := io.WriteString(tw.W, tiles.String()+"\n"); err != nil {
		return err
	}
	return flush(tw.W)
}
