package game

import (
	"math"
	"testing"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.00001
}

func TestShootingModeNext(t *testing.T) {
	want := []ShootingMode{ModeReverse, ModeRight, ModeLeft, ModeNormal}
	mode := ModeNormal
	for i, w := range want {
		mode = mode.Next()
		if mode != w {
			t.Fatalf("step %d: got %v, want %v", i, mode, w)
		}
	}
}

func TestParseShootingMode(t *testing.T) {
	for _, m := range []ShootingMode{ModeNormal, ModeReverse, ModeRight, ModeLeft} {
		got, err := ParseShootingMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseShootingMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if got, err := ParseShootingMode(""); err != nil || got != ModeNormal {
		t.Errorf("empty mode = %v, %v", got, err)
	}
	if _, err := ParseShootingMode("sideways"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestCalculateStrokePower(t *testing.T) {
	origin := Vec2{X: 52.5, Y: 187.5}
	tests := []struct {
		pointer Vec2
		want    Vec2
	}{
		{Vec2{X: 89, Y: 327}, Vec2{X: 1.1744787325618775, Y: 4.4887611833529295}},
		{Vec2{X: 109, Y: 373}, Vec2{X: 1.8347721973612816, Y: 6.023898099301199}},
		{Vec2{X: 99, Y: 349}, Vec2{X: 1.5038857916963326, Y: 5.223173233525973}},
	}
	for _, tt := range tests {
		got := CalculateStrokePower(origin, tt.pointer)
		if !approxEqual(got.X, tt.want.X) || !approxEqual(got.Y, tt.want.Y) {
			t.Errorf("CalculateStrokePower(%v, %v) = %v, want %v", origin, tt.pointer, got, tt.want)
		}
	}
}

func TestCalculateStrokePowerClamps(t *testing.T) {
	origin := Vec2{X: 100, Y: 100}

	near := CalculateStrokePower(origin, Vec2{X: 101, Y: 100})
	if !approxEqual(near.Length(), MinStrokeScale) {
		t.Errorf("short pull length = %v, want %v", near.Length(), MinStrokeScale)
	}

	far := CalculateStrokePower(origin, Vec2{X: 100, Y: 900})
	if !approxEqual(far.Length(), MaxStrokeScale) || far.X != 0 || far.Y <= 0 {
		t.Errorf("long pull = %v, want length %v straight down", far, MaxStrokeScale)
	}

	if zero := CalculateStrokePower(origin, origin); !zero.IsZero() {
		t.Errorf("zero displacement power = %v, want zero", zero)
	}
}

func TestCalculateSpeed(t *testing.T) {
	tests := []struct {
		origin  Vec2
		pointer Vec2
		mode    ShootingMode
		want    Vec2
	}{
		{Vec2{X: 37.5, Y: 52.5}, Vec2{X: 285, Y: 205}, ModeNormal,
			Vec2{X: 5.283868950354069, Y: 3.159761474460588}},
		{Vec2{X: 34.528161559285664, Y: 161.68100780584}, Vec2{X: 27, Y: 209}, ModeReverse,
			Vec2{X: -0.025247113706855367, Y: -1.6627026133673766}},
		{Vec2{X: 37.26683591869343, Y: 253.38915675186678}, Vec2{X: 222, Y: 354}, ModeRight,
			Vec2{X: 2.8589116702757917, Y: -5.958293636331584}},
		{Vec2{X: 309.1215920962632, Y: 184.95071762843094}, Vec2{X: 328, Y: 194}, ModeLeft,
			Vec2{X: -0.479600774949725, Y: 0.2289881419932628}},
	}
	for _, tt := range tests {
		got := CalculateSpeed(tt.origin, tt.pointer, tt.mode)
		if !approxEqual(got.X, tt.want.X) || !approxEqual(got.Y, tt.want.Y) {
			t.Errorf("CalculateSpeed(%v, %v, %v) = %v, want %v", tt.origin, tt.pointer, tt.mode, got, tt.want)
		}
	}
}

func TestCalculateSpeedDeterministic(t *testing.T) {
	origin := Vec2{X: 52.5, Y: 187.5}
	pointer := Vec2{X: 89, Y: 327}
	first := CalculateSpeed(origin, pointer, ModeRight)
	for i := 0; i < 10; i++ {
		if got := CalculateSpeed(origin, pointer, ModeRight); got != first {
			t.Fatalf("run %d = %v, first = %v", i, got, first)
		}
	}
	if got := CalculateSpeed(origin, origin, ModeLeft); !got.IsZero() {
		t.Errorf("zero displacement speed = %v, want zero", got)
	}
}
