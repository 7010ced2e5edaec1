package balance

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog is an ordered, validated set of substances. Order matters: the
// progression simulator breaks ROI ties by catalog position.
type Catalog struct {
	name       string
	substances []Substance
	index      map[string]int
}

// NewCatalog validates the substances and builds a catalog from a copy of them.
func NewCatalog(name string, substances []Substance) (*Catalog, error) {
	subs := make([]Substance, len(substances))
	copy(subs, substances)

	index := make(map[string]int, len(subs))
	for i, s := range subs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, exists := index[s.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidSubstance, s.ID)
		}
		index[s.ID] = i
	}

	return &Catalog{name: name, substances: subs, index: index}, nil
}

// Name returns the catalog's label.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the number of substances.
func (c *Catalog) Len() int {
	return len(c.substances)
}

// Substances returns a copy of the substances in catalog order.
func (c *Catalog) Substances() []Substance {
	out := make([]Substance, len(c.substances))
	copy(out, c.substances)
	return out
}

// Get looks up a substance by ID.
func (c *Catalog) Get(id string) (Substance, bool) {
	i, ok := c.index[id]
	if !ok {
		return Substance{}, false
	}
	return c.substances[i], true
}

// IDs returns substance IDs in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.substances))
	for i, s := range c.substances {
		ids[i] = s.ID
	}
	return ids
}

// ProductionRate returns the unmultiplied vibes/sec produced by an inventory.
// Entries for IDs that are not in the catalog contribute nothing.
func (c *Catalog) ProductionRate(inv Inventory) float64 {
	total := 0.0
	for _, s := range c.substances {
		total += s.BaseProduction * float64(inv.Count(s.ID))
	}
	return total
}

// Inventory maps substance ID to owned count. Missing entries mean zero.
type Inventory map[string]int

// Count returns the owned count for a substance.
func (inv Inventory) Count(id string) int {
	return inv[id]
}

// Add records one more owned unit.
func (inv Inventory) Add(id string) {
	inv[id]++
}

// Total returns the number of units owned across all substances.
func (inv Inventory) Total() int {
	total := 0
	for _, n := range inv {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for id, n := range inv {
		out[id] = n
	}
	return out
}

// OwnedIDs returns IDs with a non-zero count, sorted for stable output.
func (inv Inventory) OwnedIDs() []string {
	ids := make([]string, 0, len(inv))
	for id, n := range inv {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// CatalogFile represents the structure of a catalog YAML file.
type CatalogFile struct {
	Name       string      `yaml:"name"`
	Substances []Substance `yaml:"substances"`
}

// LoadCatalogFromYAML loads and validates a catalog from a YAML file.
func LoadCatalogFromYAML(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	name := file.Name
	if name == "" {
		name = filename
	}

	catalog, err := NewCatalog(name, file.Substances)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", filename, err)
	}
	return catalog, nil
}

// CatalogByName resolves one of the built-in catalogs.
func CatalogByName(name string) (*Catalog, error) {
	switch name {
	case "progression", "":
		return ProgressionCatalog(), nil
	case "long-term", "longterm":
		return LongTermCatalog(), nil
	default:
		return nil, fmt.Errorf("unknown built-in catalog: %s", name)
	}
}
