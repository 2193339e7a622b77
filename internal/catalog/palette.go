package catalog

// palette is the fixed series color cycle shared by every chart renderer.
var palette = []string{
	"#2563eb", // blue
	"#16a34a", // green
	"#dc2626", // red
	"#9333ea", // purple
	"#ea580c", // orange
	"#0891b2", // cyan
	"#ca8a04", // amber
	"#db2777", // pink
}

// SeriesStyle tells a chart renderer how to label and color one series.
type SeriesStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ChartConfig builds the renderer config map for the requested codes. Colors
// are assigned in request order, cycling the palette; labels come from the
// catalog index.
func (i *Index) ChartConfig(codes []string) map[string]SeriesStyle {
	cfg := make(map[string]SeriesStyle, len(codes))
	for n, code := range codes {
		d := i.LookupOrPlaceholder(code)
		cfg[code] = SeriesStyle{
			Label: d.Name,
			Color: palette[n%len(palette)],
		}
	}
	return cfg
}
