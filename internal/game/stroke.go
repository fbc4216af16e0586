package game

import (
	"fmt"
	"strings"
)

// ShootingMode rotates the shot relative to the aim direction.
type ShootingMode int

const (
	ModeNormal ShootingMode = iota
	ModeReverse
	ModeRight
	ModeLeft

	shootingModeCount = iota
)

var shootingModeNames = [shootingModeCount]string{"normal", "reverse", "right", "left"}

// Next cycles Normal -> Reverse -> Right -> Left -> Normal.
func (m ShootingMode) Next() ShootingMode {
	next := (int(m) + 1) % shootingModeCount
	if next < 0 {
		return ModeNormal
	}
	return ShootingMode(next)
}

func (m ShootingMode) String() string {
	if m < 0 || int(m) >= shootingModeCount {
		return fmt.Sprintf("ShootingMode(%d)", int(m))
	}
	return shootingModeNames[m]
}

// ParseShootingMode accepts the lowercase mode name; empty means normal.
func ParseShootingMode(s string) (ShootingMode, error) {
	if s == "" {
		return ModeNormal, nil
	}
	for i, name := range shootingModeNames {
		if strings.EqualFold(s, name) {
			return ShootingMode(i), nil
		}
	}
	return ModeNormal, fmt.Errorf("unknown shooting mode %q", s)
}

const (
	strokeDeadZone   float32 = 5.0
	strokeDivisor    float32 = 30.0
	MinStrokeScale   float32 = 0.075
	MaxStrokeScale   float32 = 6.5
	speedOffsetScale float32 = 100000.0
	speedOffsetBias  float32 = 0.25
)

// CalculateStrokePower converts the pointer's distance from the ball into a
// launch vector. A pointer on top of the ball gives zero power.
func CalculateStrokePower(origin, pointer Vec2) Vec2 {
	displacement := pointer.Minus(origin)
	distance := displacement.Length()

	scale := (distance - strokeDeadZone) / strokeDivisor
	if scale < MinStrokeScale {
		scale = MinStrokeScale
	}
	if scale > MaxStrokeScale {
		scale = MaxStrokeScale
	}

	return displacement.Normalize().Times(scale)
}

// CalculateSpeed applies the shooting mode to the stroke power and adds the
// fixed speed offset.
func CalculateSpeed(origin, pointer Vec2, mode ShootingMode) Vec2 {
	power := CalculateStrokePower(origin, pointer)
	if power.IsZero() {
		return Vec2{}
	}

	var speed Vec2
	switch mode {
	case ModeReverse:
		speed = power.Invert()
	case ModeRight:
		speed = power.RightNormal()
	case ModeLeft:
		speed = power.LeftNormal()
	default:
		speed = power
	}

	// TODO: replace the fixed offset with seeded per-shot variance once the
	// game server shares a seed with clients.
	ratio := speed.Length() / MaxStrokeScale
	ratio *= ratio
	offset := ratio/speedOffsetScale - speedOffsetBias

	return speed.Plus(Vec2{X: offset, Y: offset})
}
