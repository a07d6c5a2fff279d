// Package render turns asset relationship graphs into visual outputs.
//
// The renderer emits Graphviz DOT for the network diagram: assets appear
// as boxes colored by asset class, relationships as edges colored by type
// and weighted by strength. Bidirectional pairs collapse to a single
// double-headed edge.
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.SVG(ctx, dot)
//	png, err := render.PNG(ctx, dot)
package render
