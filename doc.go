// Package colormosaic turns an image into a mosaic of coloured tiles.
//
// The image is partitioned into a grid of fixed size tiles, the average color
// of each tile is computed and resolved into a renderable unit (for example a
// piece of markup) and the resolved tiles are handed to a sink one row at a
// time, top to bottom.
//
// Resolution may be slow (it may involve a colour service on the network), so
// it is run through a Coordinator that can move it to a dedicated worker.
//
// It ships with an executable to render mosaics on the command line and a
// small web service that serves colour tiles and mosaics.
package colormosaic
