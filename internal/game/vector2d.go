package game

import (
	"fmt"
	"math"
)

// Number is the set of element types a Vector2D can hold.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Vector2D is a 2D vector. Lengths are computed in float32 so results match
// the client-side physics bit for bit.
type Vector2D[T Number] struct {
	X T `json:"x"`
	Y T `json:"y"`
}

// Vec2 is the float32 vector used by the stroke and movement code.
type Vec2 = Vector2D[float32]

func NewVector2D[T Number](x, y T) Vector2D[T] {
	return Vector2D[T]{X: x, Y: y}
}

func (v Vector2D[T]) Plus(o Vector2D[T]) Vector2D[T] {
	return Vector2D[T]{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2D[T]) Minus(o Vector2D[T]) Vector2D[T] {
	return Vector2D[T]{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2D[T]) Times(s T) Vector2D[T] {
	return Vector2D[T]{X: v.X * s, Y: v.Y * s}
}

func (v Vector2D[T]) Div(s T) Vector2D[T] {
	return Vector2D[T]{X: v.X / s, Y: v.Y / s}
}

func (v Vector2D[T]) Invert() Vector2D[T] {
	return Vector2D[T]{X: -v.X, Y: -v.Y}
}

// RightNormal rotates a quarter turn clockwise on screen: (y, -x).
func (v Vector2D[T]) RightNormal() Vector2D[T] {
	return Vector2D[T]{X: v.Y, Y: -v.X}
}

// LeftNormal rotates a quarter turn counter-clockwise on screen: (-y, x).
func (v Vector2D[T]) LeftNormal() Vector2D[T] {
	return Vector2D[T]{X: -v.Y, Y: v.X}
}

func (v Vector2D[T]) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Length is the Euclidean norm in float32.
func (v Vector2D[T]) Length() float32 {
	x, y := float32(v.X), float32(v.Y)
	// Explicit conversions keep the compiler from fusing into an FMA.
	sq := float32(x*x) + float32(y*y)
	return float32(math.Sqrt(float64(sq)))
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vector2D[T]) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: float32(v.X) / l, Y: float32(v.Y) / l}
}

func (v Vector2D[T]) String() string {
	return fmt.Sprintf("(%v, %v)", v.X, v.Y)
}
