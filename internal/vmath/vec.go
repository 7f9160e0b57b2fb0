// Package vmath holds the small amount of 2D vector math the arena needs.
package vmath

import "math"

// Vec is a point or direction in arena units.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Dot(o Vec) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec) Len() float64        { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64  { return v.Sub(o).Len() }
func (v Vec) IsZero() bool        { return v.X == 0 && v.Y == 0 }

// DistSq is the squared distance between v and o.
func (v Vec) DistSq(o Vec) float64 {
	d := v.Sub(o)
	return d.X*d.X + d.Y*d.Y
}

// Normalize returns the unit vector in v's direction, or the zero vector
// when v has no length.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// Reflect mirrors v across a surface with the given unit normal.
func (v Vec) Reflect(normal Vec) Vec {
	return v.Sub(normal.Scale(2 * v.Dot(normal)))
}

// FromAngle returns the unit vector at angle a (radians).
func FromAngle(a float64) Vec {
	return Vec{math.Cos(a), math.Sin(a)}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Rect is an axis-aligned rectangle, used for the arena bounds.
type Rect struct {
	Min, Max Vec
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ClampVec moves p to the nearest point inside r.
func (r Rect) ClampVec(p Vec) Vec {
	return Vec{Clamp(p.X, r.Min.X, r.Max.X), Clamp(p.Y, r.Min.Y, r.Max.Y)}
}

// Center returns the midpoint of r.
func (r Rect) Center() Vec {
	return Vec{(r.Min.X + r.Max.X) / 2, (r.Min.Y + r.Max.Y) / 2}
}
