// Package depgraph builds the requirement graph of a recipe and renders it
// as Graphviz DOT or SVG.
//
// The graph has one root node for the recipe reference and one node per
// requirement. Mandatory requirements hang off the root in row 1 with a
// "requires" edge; test tooling, when enabled, uses "build_requires" edges
// and a dashed outline.
//
//	g := depgraph.Build(recipe.Default(), recipe.Options{RequirementsForTests: true})
//	dot := depgraph.ToDOT(g)
//	svg, err := depgraph.RenderSVG(ctx, dot)
package depgraph
