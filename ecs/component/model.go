package component

import "github.com/milk9111/limbopass/common"

// Model is the renderable geometry of an entity in its local space.
type Model struct {
	Name      string
	Triangles []common.Triangle
	Hidden    bool
}

var ModelComponent = NewComponent[Model]()
