package scene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/limbopass/common"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var (
	ErrSceneNotFound = errors.New("scene: named scene not found")
	ErrMeshNotFound  = errors.New("scene: named mesh not found")
	ErrInvalidMesh   = errors.New("scene: mesh unusable as collider")
)

const maxNodeDepth = 64

var defaultColor = mgl32.Vec4{0.8, 0.8, 0.8, 1}

// Triangles flattens the named scene into world-space triangles, applying
// node transforms and each primitive's base color.
func Triangles(doc *gltf.Document, name string) ([]common.Triangle, error) {
	sc, err := findScene(doc, name)
	if err != nil {
		return nil, err
	}

	var out []common.Triangle
	var walk func(idx int, parent mgl32.Mat4, depth int) error
	walk = func(idx int, parent mgl32.Mat4, depth int) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("scene: node %d out of range", idx)
		}
		if depth > maxNodeDepth {
			return fmt.Errorf("scene: node hierarchy deeper than %d", maxNodeDepth)
		}
		node := doc.Nodes[idx]
		world := parent.Mul4(NodeMatrix(node))
		if node.Mesh != nil {
			tris, err := meshTriangles(doc, *node.Mesh, world)
			if err != nil {
				return err
			}
			out = append(out, tris...)
		}
		for _, child := range node.Children {
			if err := walk(child, world, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range sc.Nodes {
		if err := walk(root, mgl32.Ident4(), 0); err != nil {
			return nil, fmt.Errorf("scene %q: %w", name, err)
		}
	}
	return out, nil
}

// NodeMatrix returns the node's local matrix from either its matrix or its
// TRS properties.
func NodeMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != [16]float64{} {
		m := n.MatrixOrDefault()
		var out mgl32.Mat4
		for i, v := range m {
			out[i] = float32(v)
		}
		return out
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func findScene(doc *gltf.Document, name string) (*gltf.Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: %q (no document)", ErrSceneNotFound, name)
	}
	for _, sc := range doc.Scenes {
		if sc.Name == name {
			return sc, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, name)
}

func meshTriangles(doc *gltf.Document, meshIdx int, world mgl32.Mat4) ([]common.Triangle, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", meshIdx)
	}
	var out []common.Triangle
	for pi, p := range doc.Meshes[meshIdx].Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		positions, indices, err := readPrimitive(doc, p)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", doc.Meshes[meshIdx].Name, pi, err)
		}
		color := primitiveColor(doc, p)
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if int(max(a, b, c)) >= len(positions) {
				return nil, fmt.Errorf("%w: index %d", common.ErrIndexOutOfRange, max(a, b, c))
			}
			out = append(out, common.Triangle{
				A:     mgl32.TransformCoordinate(positions[a], world),
				B:     mgl32.TransformCoordinate(positions[b], world),
				C:     mgl32.TransformCoordinate(positions[c], world),
				Color: color,
			})
		}
	}
	return out, nil
}

// readPrimitive returns positions and a triangle-list index buffer. Non
// indexed primitives get sequential indices.
func readPrimitive(doc *gltf.Document, p *gltf.Primitive) ([]mgl32.Vec3, []uint32, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok || posIdx < 0 || posIdx >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("no POSITION attribute")
	}
	raw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("read positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, v := range raw {
		positions[i] = mgl32.Vec3(v)
	}

	if p.Indices == nil {
		indices := make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
		return positions, indices, nil
	}
	if *p.Indices < 0 || *p.Indices >= len(doc.Accessors) {
		return nil, nil, fmt.Errorf("indices accessor %d out of range", *p.Indices)
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
	if err != nil {
		return nil, nil, fmt.Errorf("read indices: %w", err)
	}
	return positions, indices, nil
}

func primitiveColor(doc *gltf.Document, p *gltf.Primitive) mgl32.Vec4 {
	if p.Material == nil || *p.Material < 0 || *p.Material >= len(doc.Materials) {
		return defaultColor
	}
	pbr := doc.Materials[*p.Material].PBRMetallicRoughness
	if pbr == nil {
		return defaultColor
	}
	c := pbr.BaseColorFactorOrDefault()
	return mgl32.Vec4{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
}
