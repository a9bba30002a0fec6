package privacy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wellbuddie/pkg/platform/strings"
)

// DefaultRegionLabel is used when the table does not name a default.
const DefaultRegionLabel = "Unknown"

// RegionTable is the YAML shape of the region mapping:
//
//	default: Unknown
//	regions:
//	  North America: [us, usa, united states, canada, mexico, new york]
//	  Europe: [uk, germany, france]
type RegionTable struct {
	Default string              `yaml:"default"`
	Regions map[string][]string `yaml:"regions"`
}

// RegionMapper replaces a precise location with a coarse label. Lookups are
// case-insensitive exact matches on the configured keys.
type RegionMapper struct {
	fallback string
	index    map[string]string
}

// NewRegionMapper builds a mapper from table. A key listed under two labels
// is a configuration error.
func NewRegionMapper(table RegionTable) (*RegionMapper, error) {
	m := &RegionMapper{
		fallback: table.Default,
		index:    make(map[string]string),
	}
	if m.fallback == "" {
		m.fallback = DefaultRegionLabel
	}
	for label, keys := range table.Regions {
		if label == "" {
			return nil, fmt.Errorf("region table: empty label")
		}
		for _, k := range strings.DedupeAndTrimLower(keys) {
			if prev, ok := m.index[k]; ok && prev != label {
				return nil, fmt.Errorf("region table: %q maps to both %q and %q", k, prev, label)
			}
			m.index[k] = label
		}
	}
	return m, nil
}

// LoadRegionMapper reads a YAML table from path. An empty path yields the
// built-in table.
func LoadRegionMapper(path string) (*RegionMapper, error) {
	if path == "" {
		return NewRegionMapper(DefaultRegionTable())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read region table: %w", err)
	}
	return ParseRegionTable(raw)
}

// ParseRegionTable decodes YAML into a mapper.
func ParseRegionTable(raw []byte) (*RegionMapper, error) {
	var table RegionTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse region table: %w", err)
	}
	return NewRegionMapper(table)
}

// Map returns the coarse label for location.
func (m *RegionMapper) Map(location string) string {
	if label, ok := m.index[strings.FoldKey(location)]; ok {
		return label
	}
	return m.fallback
}

// DefaultRegionTable is a small continent-level table.
func DefaultRegionTable() RegionTable {
	return RegionTable{
		Default: DefaultRegionLabel,
		Regions: map[string][]string{
			"North America": {"us", "usa", "united states", "canada", "mexico"},
			"South America": {"brazil", "argentina", "chile", "colombia", "peru"},
			"Europe":        {"uk", "united kingdom", "ireland", "germany", "france", "spain", "italy", "netherlands", "sweden", "poland"},
			"Asia":          {"india", "china", "japan", "south korea", "singapore", "indonesia", "philippines"},
			"Africa":        {"nigeria", "kenya", "south africa", "egypt", "ghana"},
			"Oceania":       {"australia", "new zealand"},
		},
	}
}
