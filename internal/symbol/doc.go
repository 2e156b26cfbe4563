// Package symbol turns a label payload into a ZPL graphic field.
//
// The Embedder drives two collaborators: a Rasterizer that draws the Data
// Matrix symbol as PNG, and a Compressor that packs the pixels into a
// printer-native field. The PNG lives in the work directory only for the
// duration of one Embed call and is removed on every exit path.
package symbol
