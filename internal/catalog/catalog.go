package catalog

// Source identifies an upstream data provider.
type Source string

const (
	SourceCensus Source = "census"
	SourceFRED   Source = "fred"
	SourceHUD    Source = "hud"
)

// Descriptor maps a human-readable variable name to its source-specific code.
type Descriptor struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Source   Source `json:"source"`
}

// Category groups descriptors for display.
type Category struct {
	Name      string       `json:"name"`
	Variables []Descriptor `json:"variables"`
}

// censusCatalog covers the ACS 5-year estimate variables the dashboard exposes.
var censusCatalog = []Category{
	{
		Name: "Demographics",
		Variables: []Descriptor{
			{Code: "B01003_001E", Name: "Total Population", Category: "Demographics", Source: SourceCensus},
			{Code: "B01002_001E", Name: "Median Age", Category: "Demographics", Source: SourceCensus},
			{Code: "B25010_001E", Name: "Average Household Size", Category: "Demographics", Source: SourceCensus},
		},
	},
	{
		Name: "Employment",
		Variables: []Descriptor{
			{Code: "B23025_005E", Name: "Unemployed Population", Category: "Employment", Source: SourceCensus},
			{Code: "B23025_004E", Name: "Employed Population", Category: "Employment", Source: SourceCensus},
		},
	},
	{
		Name: "Housing",
		Variables: []Descriptor{
			{Code: "B25077_001E", Name: "Median Home Value", Category: "Housing", Source: SourceCensus},
			{Code: "B25064_001E", Name: "Median Gross Rent", Category: "Housing", Source: SourceCensus},
			{Code: "B25003_002E", Name: "Owner Occupied Units", Category: "Housing", Source: SourceCensus},
		},
	},
	{
		Name: "Income",
		Variables: []Descriptor{
			{Code: "B19013_001E", Name: "Median Household Income", Category: "Income", Source: SourceCensus},
			{Code: "B19301_001E", Name: "Per Capita Income", Category: "Income", Source: SourceCensus},
			{Code: "B17001_002E", Name: "Population Below Poverty", Category: "Income", Source: SourceCensus},
		},
	},
}

// fredCatalog covers the FRED national indicator series.
var fredCatalog = []Category{
	{
		Name: "Labor",
		Variables: []Descriptor{
			{Code: "UNRATE", Name: "Unemployment Rate", Category: "Labor", Source: SourceFRED},
			{Code: "CIVPART", Name: "Labor Force Participation Rate", Category: "Labor", Source: SourceFRED},
			{Code: "PAYEMS", Name: "Total Nonfarm Payrolls", Category: "Labor", Source: SourceFRED},
		},
	},
	{
		Name: "Output",
		Variables: []Descriptor{
			{Code: "GDP", Name: "Gross Domestic Product", Category: "Output", Source: SourceFRED},
			{Code: "GDPC1", Name: "Real Gross Domestic Product", Category: "Output", Source: SourceFRED},
			{Code: "INDPRO", Name: "Industrial Production Index", Category: "Output", Source: SourceFRED},
		},
	},
	{
		Name: "Prices",
		Variables: []Descriptor{
			{Code: "CPIAUCSL", Name: "Consumer Price Index", Category: "Prices", Source: SourceFRED},
			{Code: "MORTGAGE30US", Name: "30-Year Mortgage Rate", Category: "Prices", Source: SourceFRED},
			{Code: "MSPUS", Name: "Median Sales Price of Houses", Category: "Prices", Source: SourceFRED},
		},
	},
}

// hudCatalog covers the simulated HUD housing statistics.
var hudCatalog = []Category{
	{
		Name: "Fair Market Rents",
		Variables: []Descriptor{
			{Code: "FMR_0BR", Name: "Fair Market Rent Studio", Category: "Fair Market Rents", Source: SourceHUD},
			{Code: "FMR_1BR", Name: "Fair Market Rent 1 Bedroom", Category: "Fair Market Rents", Source: SourceHUD},
			{Code: "FMR_2BR", Name: "Fair Market Rent 2 Bedroom", Category: "Fair Market Rents", Source: SourceHUD},
			{Code: "FMR_3BR", Name: "Fair Market Rent 3 Bedroom", Category: "Fair Market Rents", Source: SourceHUD},
			{Code: "FMR_4BR", Name: "Fair Market Rent 4 Bedroom", Category: "Fair Market Rents", Source: SourceHUD},
		},
	},
	{
		Name: "Homelessness",
		Variables: []Descriptor{
			{Code: "HOMELESS_TOTAL", Name: "Total Homeless Count", Category: "Homelessness", Source: SourceHUD},
			{Code: "HOMELESS_SHELTERED", Name: "Sheltered Homeless Count", Category: "Homelessness", Source: SourceHUD},
			{Code: "ASSISTED_UNITS", Name: "HUD Assisted Units", Category: "Homelessness", Source: SourceHUD},
		},
	},
	{
		Name: "Income Limits",
		Variables: []Descriptor{
			{Code: "IL_VERYLOW_4", Name: "Very Low Income Limit Family of 4", Category: "Income Limits", Source: SourceHUD},
			{Code: "IL_LOW_4", Name: "Low Income Limit Family of 4", Category: "Income Limits", Source: SourceHUD},
			{Code: "IL_MEDIAN_2", Name: "Median Family Income Family of 2", Category: "Income Limits", Source: SourceHUD},
		},
	},
	{
		Name: "Occupancy",
		Variables: []Descriptor{
			{Code: "OCC_RATE", Name: "Assisted Housing Occupancy Rate", Category: "Occupancy", Source: SourceHUD},
			{Code: "OCC_HH_SIZE", Name: "Average Assisted Household Size", Category: "Occupancy", Source: SourceHUD},
		},
	},
}

// Categories returns the display categories for a source, or nil for an
// unknown source.
func Categories(source Source) []Category {
	switch source {
	case SourceCensus:
		return censusCatalog
	case SourceFRED:
		return fredCatalog
	case SourceHUD:
		return hudCatalog
	default:
		return nil
	}
}
