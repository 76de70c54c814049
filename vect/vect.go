package vect

import (
	"math"
)

type Float float32

var (
	Vector_Zero = Vect{0, 0}
)

func FMin(a, b Float) Float {
	if a > b {
		return b
	}
	return a
}

func FMax(a, b Float) Float {
	if a > b {
		return a
	}
	return b
}

func FAbs(a Float) Float {
	if a < 0 {
		return -a
	}
	return a
}

func FClamp(val, min, max Float) Float {
	if val < min {
		return min
	} else if val > max {
		return max
	}
	return val
}

func FSqrt(a Float) Float {
	return Float(math.Sqrt(float64(a)))
}

//basic 2d vector.
type Vect struct {
	X, Y Float
}

//adds v2 to the given vector.
func (v1 *Vect) Add(v2 Vect) {
	v1.X += v2.X
	v1.Y += v2.Y
}

//subtracts v2 from the given vector.
func (v1 *Vect) Sub(v2 Vect) {
	v1.X -= v2.X
	v1.Y -= v2.Y
}

//multiplies the vector by the scalar.
func (v *Vect) Mult(s Float) {
	v.X *= s
	v.Y *= s
}

//returns the squared length of the vector.
func (v Vect) LengthSqr() Float {
	return (v.X * v.X) + (v.Y * v.Y)
}

//returns the length of the vector.
func (v Vect) Length() Float {
	return Float(math.Sqrt(float64(v.LengthSqr())))
}

//compare two vectors by value.
func Equals(v1, v2 Vect) bool {
	return v1.X == v2.X && v1.Y == v2.Y
}

//adds the input vectors and returns the result.
func Add(v1, v2 Vect) Vect {
	return Vect{v1.X + v2.X, v1.Y + v2.Y}
}

//subtracts the input vectors and returns the result.
func Sub(v1, v2 Vect) Vect {
	return Vect{v1.X - v2.X, v1.Y - v2.Y}
}

//multiplies a vector by a scalar and returns the result.
func Mult(v1 Vect, s Float) Vect {
	return Vect{v1.X * s, v1.Y * s}
}

//returns the square distance between two vectors.
func DistSqr(v1, v2 Vect) Float {
	return (v1.X-v2.X)*(v1.X-v2.X) + (v1.Y-v2.Y)*(v1.Y-v2.Y)
}

//returns the distance between two vectors.
func Dist(v1, v2 Vect) Float {
	return Float(math.Sqrt(float64(DistSqr(v1, v2))))
}

//dot product between two vectors.
func Dot(v1, v2 Vect) Float {
	return (v1.X * v2.X) + (v1.Y * v2.Y)
}

//scalar cross product of two vectors.
func Cross(a, b Vect) Float {
	return (a.X * b.Y) - (a.Y * b.X)
}

//returns the normalized input vector, or the zero vector when the
//input has no length.
func Normalize(v Vect) Vect {
	lsqr := v.LengthSqr()
	if lsqr == 0 {
		return Vector_Zero
	}
	f := 1.0 / Float(math.Sqrt(float64(lsqr)))
	return Vect{v.X * f, v.Y * f}
}

//returns v rotated by 90 degrees counter-clockwise.
func Perp(v Vect) Vect {
	return Vect{-v.Y, v.X}
}

//returns a new vector with its x/y values set to the smaller one
//from the two input values.
func Min(v1, v2 Vect) (out Vect) {
	if v1.X < v2.X {
		out.X = v1.X
	} else {
		out.X = v2.X
	}

	if v1.Y < v2.Y {
		out.Y = v1.Y
	} else {
		out.Y = v2.Y
	}
	return
}

//returns a new vector with its x/y values set to the bigger one
//from the two input values.
func Max(v1, v2 Vect) (out Vect) {
	if v1.X > v2.X {
		out.X = v1.X
	} else {
		out.X = v2.X
	}

	if v1.Y > v2.Y {
		out.Y = v1.Y
	} else {
		out.Y = v2.Y
	}
	return
}

//clamps the length of the vector to l.
func Clamp(v Vect, l Float) Vect {
	if Dot(v, v) > l*l {
		return Mult(Normalize(v), l)
	}
	return v
}
