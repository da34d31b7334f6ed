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

package render

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/FabianWe/colormosaic"
)

func TestHTMLWriter_RowHTML(t *testing.T) {
	hw := NewHTMLWriter(nil, 16, 640)
	got := hw.RowHTML(colormosaic.MosaicRow{"<a/>", "<b/>"})
	want := "<div style=\"height:16px; min-width:640px;\"><a/><b/></div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestHTMLWriter_Document(t *testing.T) {
	var buf bytes.Buffer
	hw := NewHTMLWriter(&buf, 4, 8)
	if err := hw.Begin("cat <3.png"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	for row, tiles := range []colormosaic.MosaicRow{{"A", "B"}, {"C", "D"}} {
		if err := hw.WriteRow(row, tiles); err != nil {
			t.Fatalf("WriteRow failed: %v", err)
		}
	}
	if err := hw.End(); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>cat &lt;3.png</title>") {
		t.Errorf("title not escaped: %s", out)
	}
	first := strings.Index(out, ">AB</div>")
	second := strings.Index(out, ">CD</div>")
	if first < 0 || second < first {
		t.Errorf("rows missing or out of order: %s", out)
	}
	if !strings.HasSuffix(out, "</html>\n") {
		t.Errorf("document not closed: %s", out)
	}
}

func TestWriteRow_Flushes(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := NewTextWriter(w).WriteRow(0, colormosaic.MosaicRow{"x", "y"}); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}
	if buf.String() != "xy\n" {
		t.Errorf("buffered row not flushed, got %q", buf.String())
	}
	buf.Reset()
	if err := NewHTMLWriter(w, 1, 1).WriteRow(0, colormosaic.MosaicRow{"z"}); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}
	if !strings.Contains(buf.String(), ">z</div>") {
		t.Errorf("buffered html row not flushed, got %q", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("closed")
}

func TestWriteRow_Error(t *testing.T) {
	row := colormosaic.MosaicRow{"x"}
	if err := NewHTMLWriter(failingWriter{}, 1, 1).WriteRow(0, row); err == nil {
		t.Error("html: expected error")
	}
	if err := NewTextWriter(failingWriter{}).WriteRow(0, row); err == nil {
		t.Error("text: expected error")
	}
}

func TestStreamIntoHTML(t *testing.T) {
	var buf bytes.Buffer
	hw := NewHTMLWriter(&buf, 2, 6)
	tiles := []colormosaic.ResolvedTile{"A", "B", "C", "D", "E", "F"}
	if err := colormosaic.Stream(3, 2, tiles, hw.WriteRow); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	want := "<div style=\"height:2px; min-width:6px;\">ABC</div>\n" +
		"<div style=\"height:2px; min-width:6px;\">DEF</div>\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
