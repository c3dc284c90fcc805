package sand

import (
	"fmt"
	"strings"
)

// Material enumerates what a cell can hold. The set is closed.
type Material uint8

const (
	Air Material = iota
	Sand
	Water
	Stone
)

const materialCount = int(Stone) + 1

var materialNames = [materialCount]string{
	Air:   "Air",
	Sand:  "Sand",
	Water: "Water",
	Stone: "Stone",
}

// Materials lists every material in tag order.
func Materials() []Material {
	return []Material{Air, Sand, Water, Stone}
}

// Valid reports whether m is one of the known materials.
func (m Material) Valid() bool { return int(m) < materialCount }

// Movable reports whether the rule engine ever moves cells of this material.
func (m Material) Movable() bool {
	switch m {
	case Sand, Water:
		return true
	default:
		return false
	}
}

func (m Material) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Material(%d)", uint8(m))
	}
	return materialNames[m]
}

// ParseMaterial maps a case-insensitive material name to its tag.
func ParseMaterial(name string) (Material, error) {
	for i, n := range materialNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Material(i), nil
		}
	}
	return Air, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
}
