package common

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrIndexOutOfRange = errors.New("trimesh: index out of range")

// Triangle is one renderable face with a linear RGBA color.
type Triangle struct {
	A, B, C mgl32.Vec3
	Color   mgl32.Vec4
}

// Normal returns the unit face normal using counter-clockwise winding.
func (t Triangle) Normal() mgl32.Vec3 {
	n := t.B.Sub(t.A).Cross(t.C.Sub(t.A))
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

// TriMesh is a static triangle-mesh collider with a uniform grid over XZ for
// vertical queries.
type TriMesh struct {
	Vertices []mgl32.Vec3
	Indices  [][3]uint32

	minX, minZ float32
	cellSize   float32
	cols, rows int
	cells      [][]int
}

func NewTriMesh(vertices []mgl32.Vec3, indices [][3]uint32) (*TriMesh, error) {
	for i, tri := range indices {
		for _, idx := range tri {
			if int(idx) >= len(vertices) {
				return nil, fmt.Errorf("%w: triangle %d references vertex %d of %d", ErrIndexOutOfRange, i, idx, len(vertices))
			}
		}
	}
	m := &TriMesh{Vertices: vertices, Indices: indices}
	m.buildGrid()
	return m, nil
}

// Transformed returns a copy of the mesh with every vertex multiplied by mat.
func (m *TriMesh) Transformed(mat mgl32.Mat4) *TriMesh {
	verts := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		verts[i] = mgl32.TransformCoordinate(v, mat)
	}
	out := &TriMesh{Vertices: verts, Indices: m.Indices}
	out.buildGrid()
	return out
}

func (m *TriMesh) buildGrid() {
	if len(m.Indices) == 0 {
		return
	}
	minX, minZ := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxZ := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, v := range m.Vertices {
		minX, maxX = min(minX, v.X()), max(maxX, v.X())
		minZ, maxZ = min(minZ, v.Z()), max(maxZ, v.Z())
	}
	side := int(math.Ceil(math.Sqrt(float64(len(m.Indices)))))
	extent := max(maxX-minX, maxZ-minZ)
	if extent <= 0 {
		extent = 1
	}
	m.minX, m.minZ = minX, minZ
	m.cellSize = extent / float32(side)
	m.cols = int((maxX-minX)/m.cellSize) + 1
	m.rows = int((maxZ-minZ)/m.cellSize) + 1
	m.cells = make([][]int, m.cols*m.rows)

	for i, tri := range m.Indices {
		a, b, c := m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
		c0, r0 := m.cell(min(a.X(), b.X(), c.X()), min(a.Z(), b.Z(), c.Z()))
		c1, r1 := m.cell(max(a.X(), b.X(), c.X()), max(a.Z(), b.Z(), c.Z()))
		for r := r0; r <= r1; r++ {
			for col := c0; col <= c1; col++ {
				m.cells[r*m.cols+col] = append(m.cells[r*m.cols+col], i)
			}
		}
	}
}

func (m *TriMesh) cell(x, z float32) (int, int) {
	col := int((x - m.minX) / m.cellSize)
	row := int((z - m.minZ) / m.cellSize)
	return max(0, min(col, m.cols-1)), max(0, min(row, m.rows-1))
}

// HeightAt returns the highest surface under (x, z) that is not above maxY.
func (m *TriMesh) HeightAt(x, z, maxY float32) (float32, bool) {
	if m == nil || len(m.cells) == 0 {
		return 0, false
	}
	if x < m.minX || z < m.minZ || x > m.minX+float32(m.cols)*m.cellSize || z > m.minZ+float32(m.rows)*m.cellSize {
		return 0, false
	}
	col, row := m.cell(x, z)
	best, found := float32(0), false
	for _, i := range m.cells[row*m.cols+col] {
		tri := m.Indices[i]
		h, ok := heightOnTriangle(m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]], x, z)
		if !ok || h > maxY {
			continue
		}
		if !found || h > best {
			best, found = h, true
		}
	}
	return best, found
}

// heightOnTriangle interpolates Y at (x, z) when the point lies inside the
// triangle's XZ projection.
func heightOnTriangle(a, b, c mgl32.Vec3, x, z float32) (float32, bool) {
	const eps = 1e-6
	d := (b.Z()-c.Z())*(a.X()-c.X()) + (c.X()-b.X())*(a.Z()-c.Z())
	if d > -eps && d < eps {
		return 0, false
	}
	w1 := ((b.Z()-c.Z())*(x-c.X()) + (c.X()-b.X())*(z-c.Z())) / d
	w2 := ((c.Z()-a.Z())*(x-c.X()) + (a.X()-c.X())*(z-c.Z())) / d
	w3 := 1 - w1 - w2
	if w1 < -eps || w2 < -eps || w3 < -eps {
		return 0, false
	}
	return w1*a.Y() + w2*b.Y() + w3*c.Y(), true
}
