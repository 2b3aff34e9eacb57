package level

import (
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/danmaku/motion"
	"github.com/lixenwraith/danmaku/vmath"
)

// Keywords naming the symbolic reference frames in level files
const (
	keyPlayer  = "player"
	keyCurrent = "current"
)

// number accepts TOML integers and floats alike
type number float64

func (n *number) UnmarshalTOML(v any) error {
	f, ok := toFloat(v)
	if !ok {
		return errors.Errorf("expected number, got %T", v)
	}
	*n = number(f)
	return nil
}

func (n number) seconds() time.Duration {
	return time.Duration(float64(n) * float64(time.Second))
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// angleValue decodes `30`, `"player"` and `["player", 15]`
type angleValue struct {
	motion.Angle
}

func (a *angleValue) UnmarshalTOML(v any) error {
	if f, ok := toFloat(v); ok {
		a.Angle = motion.FixedAngle(f)
		return nil
	}
	switch x := v.(type) {
	case string:
		if x == keyPlayer {
			a.Angle = motion.TargetAngle(0)
			return nil
		}
	case []any:
		if len(x) == 2 && x[0] == keyPlayer {
			if f, ok := toFloat(x[1]); ok {
				a.Angle = motion.TargetAngle(f)
				return nil
			}
		}
	}
	return errors.Errorf("invalid angle %v", v)
}

// pointValue decodes `[x, y]`, `["current", x, y]`, `["player", x, y]`, `"player"` and `"current"`
type pointValue struct {
	motion.Point
}

func (p *pointValue) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		switch x {
		case keyPlayer:
			p.Point = motion.Target(0, 0)
			return nil
		case keyCurrent:
			p.Point = motion.Current(0, 0)
			return nil
		}
	case []any:
		switch len(x) {
		case 2:
			if xy, ok := pair(x[0], x[1]); ok {
				p.Point = motion.Fixed(xy.X, xy.Y)
				return nil
			}
		case 3:
			xy, ok := pair(x[1], x[2])
			if !ok {
				break
			}
			switch x[0] {
			case keyPlayer:
				p.Point = motion.Target(xy.X, xy.Y)
				return nil
			case keyCurrent:
				p.Point = motion.Current(xy.X, xy.Y)
				return nil
			}
		}
	}
	return errors.Errorf("invalid point %v", v)
}

func pair(a, b any) (vmath.Vec2, bool) {
	x, ok1 := toFloat(a)
	y, ok2 := toFloat(b)
	return vmath.V(x, y), ok1 && ok2
}

// rotationValue decodes "clockwise" and "counterclockwise"
type rotationValue struct {
	motion.Rotation
}

func (r *rotationValue) UnmarshalTOML(v any) error {
	switch v {
	case "clockwise":
		r.Rotation = motion.Clockwise
	case "counterclockwise":
		r.Rotation = motion.CounterClockwise
	default:
		return errors.Errorf("rotation must be clockwise or counterclockwise, got %v", v)
	}
	return nil
}
