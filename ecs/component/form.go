package component

import "github.com/go-gl/mathgl/mgl32"

// Form tunes how strongly a body reacts to intents and how quickly it slows
// down. Both vectors are per axis.
type Form struct {
	Thrust mgl32.Vec3
	Drag   mgl32.Vec3
}

type IntentKind int

const (
	PushForward IntentKind = iota
	PushBackward
	PushLeft
	PushRight
	TurnLeft
	TurnRight
	Lift
)

var intentKindNames = map[IntentKind]string{
	PushForward:  "push_forward",
	PushBackward: "push_backward",
	PushLeft:     "push_left",
	PushRight:    "push_right",
	TurnLeft:     "turn_left",
	TurnRight:    "turn_right",
	Lift:         "lift",
}

func (k IntentKind) String() string {
	if name, ok := intentKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseIntentKind maps a binding name such as "push_forward" to its kind.
func ParseIntentKind(name string) (IntentKind, bool) {
	for k, n := range intentKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Intent is one movement request for the current tick. Magnitude is a scale
// factor multiplied against Form.Thrust, not a physical unit.
type Intent struct {
	Kind      IntentKind
	Magnitude float32
}

// Linear returns the body-space force direction of the intent.
func (i Intent) Linear() mgl32.Vec3 {
	p := i.Magnitude
	switch i.Kind {
	case PushForward:
		return mgl32.Vec3{p, 0, 0}
	case PushBackward:
		return mgl32.Vec3{-p, 0, 0}
	case PushLeft:
		return mgl32.Vec3{0, 0, -p}
	case PushRight:
		return mgl32.Vec3{0, 0, p}
	case Lift:
		return mgl32.Vec3{0, p, 0}
	}
	return mgl32.Vec3{}
}

// Angular returns the body-space torque axis of the intent.
func (i Intent) Angular() mgl32.Vec3 {
	switch i.Kind {
	case TurnLeft:
		return mgl32.Vec3{0, i.Magnitude, 0}
	case TurnRight:
		return mgl32.Vec3{0, -i.Magnitude, 0}
	}
	return mgl32.Vec3{}
}

// Intents is the intent set of one tick. It is rebuilt from input every tick.
type Intents struct {
	Items []Intent
}

func (s *Intents) Reset() {
	s.Items = s.Items[:0]
}

func (s *Intents) Push(kind IntentKind, magnitude float32) {
	s.Items = append(s.Items, Intent{Kind: kind, Magnitude: magnitude})
}

// LocalSums returns the summed body-space force and torque, already scaled by
// thrust. Torque reuses the linear thrust vector.
func (f Form) LocalSums(intents []Intent) (force, torque mgl32.Vec3) {
	for _, in := range intents {
		force = force.Add(in.Linear())
		torque = torque.Add(in.Angular())
	}
	return MulElem(force, f.Thrust), MulElem(torque, f.Thrust)
}

// Resolve converts intents into the world-space force and torque for one tick.
// localToWorld carries the body's rotation and scale; its translation is
// ignored because only directions are transformed.
func (f Form) Resolve(intents []Intent, localToWorld mgl32.Mat4, linvel, angvel mgl32.Vec3) (force, torque mgl32.Vec3) {
	force, torque = f.LocalSums(intents)

	force = localToWorld.Mul4x1(force.Vec4(0)).Vec3()
	torque = localToWorld.Mul4x1(torque.Vec4(0)).Vec3()

	force = force.Sub(MulElem(linvel, f.Drag))
	torque = torque.Sub(MulElem(angvel, f.Drag))
	return force, torque
}

// MulElem multiplies two vectors component-wise.
func MulElem(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

var (
	FormComponent    = NewComponent[Form]()
	IntentsComponent = NewComponent[Intents]()
)
