package viz

// Default colors shared by the 2D and 3D preparation paths.
const (
	// NodeColor is the uniform node color of the network view.
	NodeColor = "#4ECDC4"

	// SentinelColor marks the placeholder point of an empty 3D layout.
	// Callers needing to distinguish an empty graph from a genuine
	// one-asset graph must special-case n=1 and check for this color.
	SentinelColor = "#888888"

	// DefaultEdgeColor is the fallback for unmapped relationship types.
	DefaultEdgeColor = "#888888"
)

// relTypeColors maps relationship types to their edge colors.
// Unknown types fall back to DefaultEdgeColor via EdgeColor.
var relTypeColors = map[string]string{
	"same_sector":    "#FF6B6B",
	"corporate_link": "#96CEB4",
	"event_impact":   "#FFA07A",
}

// assetClassColors maps asset classes to node accent colors, used by the
// DOT renderer.
var assetClassColors = map[string]string{
	"equity":       "#1f77b4",
	"fixed_income": "#2ca02c",
	"commodity":    "#ff7f0e",
	"currency":     "#d62728",
}

// EdgeColor returns the color for a relationship type.
func EdgeColor(relType string) string {
	if c, ok := relTypeColors[relType]; ok {
		return c
	}
	return DefaultEdgeColor
}

// ClassColor returns the accent color for an asset class, or the default
// node color for unknown classes.
func ClassColor(class string) string {
	if c, ok := assetClassColors[class]; ok {
		return c
	}
	return NodeColor
}
