package system

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
)

// lightExposure scales point light intensity into display range.
const lightExposure = 0.05

// maxBatchFaces keeps one DrawTriangles call under the uint16 index limit.
const maxBatchFaces = 16383

type Light struct {
	Position mgl32.Vec3
	component.PointLight
}

type projectedFace struct {
	points [3]mgl32.Vec2
	depth  float32
	color  mgl32.Vec4
}

// RenderSystem draws every Model as flat-shaded triangles, sorted back to
// front, as seen from the orbit camera.
type RenderSystem struct {
	white    *ebiten.Image
	faces    []projectedFace
	vertices []ebiten.Vertex
	indices  []uint16
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	env := component.Environment{AmbientColor: mgl32.Vec3{1, 1, 1}, AmbientBrightness: 1}
	if e, ok := ecs.First(w, component.EnvironmentComponent.Kind()); ok {
		if v, ok := ecs.Get(w, e, component.EnvironmentComponent.Kind()); ok {
			env = *v
		}
	}
	screen.Fill(vecColor(env.ClearColor.Vec4(1)))

	camEnt, ok := ecs.First(w, component.OrbitCameraComponent.Kind())
	if !ok {
		return
	}
	cam, _ := ecs.Get(w, camEnt, component.OrbitCameraComponent.Kind())
	bounds := screen.Bounds()
	viewProj := ViewProjection(*cam, float32(bounds.Dx())/float32(max(1, bounds.Dy())))

	var lights []Light
	ecs.ForEach2(w, component.PointLightComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, l *component.PointLight, tr *component.Transform) {
		lights = append(lights, Light{Position: tr.Translation, PointLight: *l})
	})

	r.faces = r.faces[:0]
	ecs.ForEach2(w, component.ModelComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, m *component.Model, tr *component.Transform) {
		if m.Hidden {
			return
		}
		model := tr.Matrix()
		for _, t := range m.Triangles {
			world := common.Triangle{
				A: mgl32.TransformCoordinate(t.A, model),
				B: mgl32.TransformCoordinate(t.B, model),
				C: mgl32.TransformCoordinate(t.C, model),
			}
			f, ok := projectTriangle(world, viewProj, float32(bounds.Dx()), float32(bounds.Dy()), cam.Near)
			if !ok {
				continue
			}
			center := world.A.Add(world.B).Add(world.C).Mul(1.0 / 3)
			f.color = Shade(t.Color, world.Normal(), center, env, lights)
			r.faces = append(r.faces, f)
		}
	})

	sort.SliceStable(r.faces, func(i, j int) bool { return r.faces[i].depth > r.faces[j].depth })

	for start := 0; start < len(r.faces); start += maxBatchFaces {
		r.flush(screen, r.faces[start:min(len(r.faces), start+maxBatchFaces)])
	}
}

func (r *RenderSystem) flush(screen *ebiten.Image, faces []projectedFace) {
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	for _, f := range faces {
		base := uint16(len(r.vertices))
		for _, p := range f.points {
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX:   p.X(),
				DstY:   p.Y(),
				SrcX:   1,
				SrcY:   1,
				ColorR: f.color.X(),
				ColorG: f.color.Y(),
				ColorB: f.color.Z(),
				ColorA: f.color.W(),
			})
		}
		r.indices = append(r.indices, base, base+1, base+2)
	}
	if r.white == nil {
		r.white = ebiten.NewImage(3, 3)
		r.white.Fill(color.White)
	}
	src := r.white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	screen.DrawTriangles(r.vertices, r.indices, src, &ebiten.DrawTrianglesOptions{})
}

func ViewProjection(cam component.OrbitCamera, aspect float32) mgl32.Mat4 {
	fov := cam.FOV
	if fov <= 0 {
		fov = mgl32.DegToRad(45)
	}
	near, far := cam.Near, cam.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = near + 1000
	}
	view := mgl32.LookAtV(cam.Eye(), cam.Target, mgl32.Vec3{0, 1, 0})
	return mgl32.Perspective(fov, aspect, near, far).Mul4(view)
}

// Project maps a world point to pixel coordinates. The second result is the
// view depth; ok is false for points behind the near plane.
func Project(p mgl32.Vec3, viewProj mgl32.Mat4, width, height, near float32) (mgl32.Vec2, float32, bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip.W() < near {
		return mgl32.Vec2{}, 0, false
	}
	ndcX, ndcY := clip.X()/clip.W(), clip.Y()/clip.W()
	return mgl32.Vec2{(ndcX + 1) * 0.5 * width, (1 - ndcY) * 0.5 * height}, clip.W(), true
}

func projectTriangle(t common.Triangle, viewProj mgl32.Mat4, width, height, near float32) (projectedFace, bool) {
	if near <= 0 {
		near = 0.1
	}
	var f projectedFace
	for i, v := range [3]mgl32.Vec3{t.A, t.B, t.C} {
		p, depth, ok := Project(v, viewProj, width, height, near)
		if !ok {
			return projectedFace{}, false
		}
		f.points[i] = p
		f.depth += depth / 3
	}
	return f, true
}

// Shade returns the lit color of a face: ambient light plus every point
// light facing it, attenuated by distance and a smooth range cutoff.
func Shade(base mgl32.Vec4, normal, at mgl32.Vec3, env component.Environment, lights []Light) mgl32.Vec4 {
	light := env.AmbientColor.Mul(env.AmbientBrightness)
	for _, l := range lights {
		toLight := l.Position.Sub(at)
		d := toLight.Len()
		if d == 0 || (l.Range > 0 && d > l.Range+l.Radius) {
			continue
		}
		lambert := float32(math.Abs(float64(normal.Dot(toLight.Mul(1 / d)))))
		dist := max(d, l.Radius, 0.1)
		falloff := float32(1)
		if l.Range > 0 {
			ratio := d / (l.Range + l.Radius)
			falloff = common.Clamp(1-ratio*ratio*ratio*ratio, 0, 1)
			falloff *= falloff
		}
		strength := l.Intensity / (4 * math.Pi * dist * dist) * lightExposure * lambert * falloff
		light = light.Add(l.Color.Mul(strength))
	}
	return mgl32.Vec4{
		common.Clamp(base.X()*light.X(), 0, 1),
		common.Clamp(base.Y()*light.Y(), 0, 1),
		common.Clamp(base.Z()*light.Z(), 0, 1),
		base.W(),
	}
}

func vecColor(c mgl32.Vec4) color.RGBA {
	to8 := func(v float32) uint8 { return uint8(common.Clamp(v, 0, 1)*255 + 0.5) }
	return color.RGBA{R: to8(c.X()), G: to8(c.Y()), B: to8(c.Z()), A: to8(c.W())}
}
