package material

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ReactionDef is one catalog entry's reaction against a named partner.
type ReactionDef struct {
	With        string `yaml:"with"`
	Probability uint32 `yaml:"probability"`
	OutA        string `yaml:"out_a"`
	OutB        string `yaml:"out_b"`
}

// MaterialDef is one catalog entry, materials referring to each other by name
// rather than by index so catalogs can be authored and reordered by hand.
type MaterialDef struct {
	Name       string        `yaml:"name"`
	Movement   string        `yaml:"movement"`
	Density    int           `yaml:"density"`
	Durability float32       `yaml:"durability"`
	Collision  string        `yaml:"collision"`
	Friction   float32       `yaml:"friction"`
	Reactions  []ReactionDef `yaml:"reactions"`
}

// Catalog is the top-level YAML document shape.
type Catalog struct {
	Materials []MaterialDef `yaml:"materials"`
}

var movementNames = map[string]Movement{
	"solid":  Solid,
	"powder": Powder,
	"liquid": Liquid,
	"gas":    Gas,
}

var collisionNames = map[string]Collision{
	"none":     CollisionNone,
	"solid":    CollisionSolid,
	"platform": CollisionPlatform,
	"liquid":   CollisionLiquid,
}

// LoadCatalogDefaults parses the engine's embedded default material catalog.
func LoadCatalogDefaults() (Catalog, error) {
	return parseCatalog(defaultCatalogYAML)
}

// LoadCatalogFile parses a user-supplied catalog file, falling back to the
// embedded defaults if path is empty.
func LoadCatalogFile(path string) (Catalog, error) {
	if path == "" {
		return LoadCatalogDefaults()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading material catalog: %w", err)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parsing material catalog: %w", err)
	}
	return cat, nil
}

// BuildTable resolves a Catalog's named materials and reactions into a Table,
// indexed in catalog order. Reactions with a partner of lower index than the
// entry that declares them are automatically re-homed onto the lower-indexed
// side's delta, since the table is stored upper-triangularly (spec §4.4).
func BuildTable(cat Catalog) (*Table, error) {
	nameToIdx := make(map[string]int, len(cat.Materials))
	for i, def := range cat.Materials {
		if _, dup := nameToIdx[def.Name]; dup {
			return nil, fmt.Errorf("material catalog: duplicate name %q", def.Name)
		}
		nameToIdx[def.Name] = i
	}

	// perMaterial[i][delta] accumulates reactions owned by material i for
	// delta = partner - i (delta >= 0, upper-triangular).
	perMaterial := make([]ReactionsByDelta, len(cat.Materials))
	for i := range perMaterial {
		perMaterial[i] = ReactionsByDelta{}
	}

	for i, def := range cat.Materials {
		for _, rd := range def.Reactions {
			partner, ok := nameToIdx[rd.With]
			if !ok {
				return nil, fmt.Errorf("material %q: unknown reaction partner %q", def.Name, rd.With)
			}
			outA, ok := nameToIdx[rd.OutA]
			if !ok {
				return nil, fmt.Errorf("material %q: unknown reaction output %q", def.Name, rd.OutA)
			}
			outB, ok := nameToIdx[rd.OutB]
			if !ok {
				return nil, fmt.Errorf("material %q: unknown reaction output %q", def.Name, rd.OutB)
			}

			owner, other := i, partner
			outLo, outHi := uint32(outA), uint32(outB)
			if owner > other {
				owner, other = other, owner
				outLo, outHi = outHi, outLo
			}

			delta := other - owner
			perMaterial[owner][delta] = append(perMaterial[owner][delta], Reaction{
				Probability: rd.Probability,
				OutLo:       outLo,
				OutHi:       outHi,
			})
		}
	}

	table := NewTable(len(cat.Materials))
	for i, def := range cat.Materials {
		movement, ok := movementNames[def.Movement]
		if !ok {
			return nil, fmt.Errorf("material %q: unknown movement class %q", def.Name, def.Movement)
		}
		collision, ok := collisionNames[def.Collision]
		if !ok {
			return nil, fmt.Errorf("material %q: unknown collision class %q", def.Name, def.Collision)
		}

		table.Add(i, movement, def.Density, def.Durability, collision, def.Friction, perMaterial[i])
	}

	return table, nil
}

// NameIndex returns a name->index lookup for a parsed catalog, useful for
// tests and tools that want to address materials by name.
func (c Catalog) NameIndex() map[string]uint32 {
	idx := make(map[string]uint32, len(c.Materials))
	for i, def := range c.Materials {
		idx[def.Name] = uint32(i)
	}
	return idx
}
