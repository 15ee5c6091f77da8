package mathutil

import "math"

// Default preview camera: turned 30° around the trunk, tilted 12° down.
const (
	DefaultViewYaw   = 30.0
	DefaultViewPitch = 12.0
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// ViewFromAngles returns the camera rotation for a yaw around the world up
// axis followed by a downward pitch, both in degrees. Screen space is
// X=right, Y=up, Z=toward the viewer.
func ViewFromAngles(yawDeg, pitchDeg float64) Mat3 {
	return QuatToMat3(QuatMul(QuatPitch(Deg2Rad(pitchDeg)), QuatYaw(Deg2Rad(-yawDeg))))
}
