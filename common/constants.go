package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	TicksPerSecond = 60
	FixedDelta     = float32(1.0) / TicksPerSecond
)
