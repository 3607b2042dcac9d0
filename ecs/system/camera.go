package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
)

// maxPitch keeps the orbit camera just short of the poles.
const maxPitch = math.Pi/2 - 0.01

type PointerSource interface {
	CursorPosition() (int, int)
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	Wheel() (float64, float64)
}

type EbitenPointer struct{}

func (EbitenPointer) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (EbitenPointer) IsMouseButtonPressed(b ebiten.MouseButton) bool {
	return ebiten.IsMouseButtonPressed(b)
}

func (EbitenPointer) Wheel() (float64, float64) { return ebiten.Wheel() }

// OrbitCameraSystem orbits the camera while the right mouse button is
// dragged and zooms with the wheel.
type OrbitCameraSystem struct {
	pointer      PointerSource
	dragging     bool
	lastX, lastY int
}

func NewOrbitCameraSystem(pointer PointerSource) *OrbitCameraSystem {
	if pointer == nil {
		pointer = EbitenPointer{}
	}
	return &OrbitCameraSystem{pointer: pointer}
}

func (cs *OrbitCameraSystem) Update(w *ecs.World) {
	e, ok := ecs.First(w, component.OrbitCameraComponent.Kind())
	if !ok {
		return
	}
	cam, ok := ecs.Get(w, e, component.OrbitCameraComponent.Kind())
	if !ok {
		return
	}

	x, y := cs.pointer.CursorPosition()
	if cs.pointer.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if cs.dragging {
			cam.Yaw += float32(x-cs.lastX) * cam.RotateSensitivity
			cam.Pitch = common.Clamp(cam.Pitch+float32(y-cs.lastY)*cam.RotateSensitivity, -maxPitch, maxPitch)
		}
		cs.dragging = true
		cs.lastX, cs.lastY = x, y
	} else {
		cs.dragging = false
	}

	if _, wy := cs.pointer.Wheel(); wy != 0 {
		cam.Radius *= 1 - float32(wy)*cam.ZoomSensitivity
		lo, hi := cam.MinRadius, cam.MaxRadius
		if hi <= lo {
			hi = float32(math.MaxFloat32)
		}
		cam.Radius = common.Clamp(cam.Radius, lo, hi)
	}

	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		tr.Translation = cam.Eye()
	}
}
