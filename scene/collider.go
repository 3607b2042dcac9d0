package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/limbopass/common"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// TerrainMesh builds a static collider from the first primitive of the named
// mesh. The primitive must be an indexed triangle list with float VEC3
// positions; indices may use any unsigned integer width.
func TerrainMesh(doc *gltf.Document, name string) (*common.TriMesh, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: %q (no document)", ErrMeshNotFound, name)
	}
	var mesh *gltf.Mesh
	for _, m := range doc.Meshes {
		if m.Name == name {
			mesh = m
			break
		}
	}
	if mesh == nil {
		return nil, fmt.Errorf("%w: %q", ErrMeshNotFound, name)
	}
	if len(mesh.Primitives) == 0 {
		return nil, fmt.Errorf("%w: %q has no primitives", ErrInvalidMesh, name)
	}
	p := mesh.Primitives[0]
	if p.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("%w: %q is not a triangle list", ErrInvalidMesh, name)
	}

	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok || posIdx < 0 || posIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: %q has no positions", ErrInvalidMesh, name)
	}
	pos := doc.Accessors[posIdx]
	if pos.ComponentType != gltf.ComponentFloat || pos.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("%w: %q positions are %v %v, want float VEC3", ErrInvalidMesh, name, pos.ComponentType, pos.Type)
	}

	if p.Indices == nil || *p.Indices < 0 || *p.Indices >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: %q has no indices", ErrInvalidMesh, name)
	}
	idx := doc.Accessors[*p.Indices]
	switch idx.ComponentType {
	case gltf.ComponentUbyte, gltf.ComponentUshort, gltf.ComponentUint:
	default:
		return nil, fmt.Errorf("%w: %q indices are %v, want unsigned integers", ErrInvalidMesh, name, idx.ComponentType)
	}

	raw, err := modeler.ReadPosition(doc, pos, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidMesh, name, err)
	}
	flat, err := modeler.ReadIndices(doc, idx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidMesh, name, err)
	}
	if len(flat)%3 != 0 {
		return nil, fmt.Errorf("%w: %q has %d indices, not a multiple of 3", ErrInvalidMesh, name, len(flat))
	}

	vertices := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		vertices[i] = mgl32.Vec3(v)
	}
	tris := make([][3]uint32, 0, len(flat)/3)
	for i := 0; i < len(flat); i += 3 {
		tris = append(tris, [3]uint32{flat[i], flat[i+1], flat[i+2]})
	}

	m, err := common.NewTriMesh(vertices, tris)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidMesh, name, err)
	}
	return m, nil
}
