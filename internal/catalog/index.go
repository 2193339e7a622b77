package catalog

// Index provides O(1) code lookups across every source catalog. The upstream
// adapters resolve (name, category) for each fetched code through it instead
// of rescanning the category lists.
type Index struct {
	byCode map[string]Descriptor
}

// NewIndex builds the code index from the static catalogs. Codes are unique
// within a source; across sources the first occurrence wins, which is safe
// because no code is shared between the three catalogs.
func NewIndex() *Index {
	idx := &Index{byCode: make(map[string]Descriptor)}
	for _, source := range []Source{SourceCensus, SourceFRED, SourceHUD} {
		for _, cat := range Categories(source) {
			for _, d := range cat.Variables {
				if _, exists := idx.byCode[d.Code]; !exists {
					idx.byCode[d.Code] = d
				}
			}
		}
	}
	return idx
}

// Lookup returns the descriptor for a code.
func (i *Index) Lookup(code string) (Descriptor, bool) {
	d, ok := i.byCode[code]
	return d, ok
}

// LookupOrPlaceholder returns the descriptor for a code, or a placeholder
// descriptor (name = code, category "Other") when the code is not catalogued.
// Upstream responses can carry columns we never asked for; those still need a
// displayable name.
func (i *Index) LookupOrPlaceholder(code string) Descriptor {
	if d, ok := i.byCode[code]; ok {
		return d
	}
	return Descriptor{Code: code, Name: code, Category: "Other"}
}

// Size returns the number of indexed descriptors.
func (i *Index) Size() int {
	return len(i.byCode)
}
