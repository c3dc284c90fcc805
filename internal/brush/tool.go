package brush

import (
	"fmt"

	"pixsand/internal/sims/sand"
)

// Tool is the painting state shared by the frontends: the selected material
// and the brush radius in cells.
type Tool struct {
	Material sand.Material
	Radius   int
}

// NewTool returns a sand brush of the given radius.
func NewTool(radius int) Tool {
	t := Tool{Material: sand.Sand}
	t.Resize(radius)
	return t
}

// Select picks the material bound to a digit key ('1'..'4').
func (t *Tool) Select(digit rune) bool {
	i := int(digit - '1')
	materials := sand.Materials()
	if i < 0 || i >= len(materials) {
		return false
	}
	t.Material = materials[i]
	return true
}

// Resize sets the radius, clamped to [0, MaxRadius].
func (t *Tool) Resize(radius int) {
	t.Radius = min(max(radius, 0), MaxRadius)
}

func (t Tool) String() string {
	return fmt.Sprintf("%s r=%d", t.Material, t.Radius)
}
