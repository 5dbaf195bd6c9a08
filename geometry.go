package voidos

// Vec2 is a 2D integer vector used for both positions and sizes.
type Vec2 struct {
	X, Y int
}

// Add returns the componentwise sum.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns the componentwise difference.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Rectangle is an axis-aligned rectangle: x ranges over [Pos.X, Pos.X+Size.X)
// and y over [Pos.Y, Pos.Y+Size.Y).
type Rectangle struct {
	Pos  Vec2
	Size Vec2
}

// Empty reports whether the rectangle has no area.
func (r Rectangle) Empty() bool {
	return r.Size.X <= 0 || r.Size.Y <= 0
}

// Intersect returns the intersection of r and o. The result is the empty
// (zero-sized) rectangle when the two are disjoint; callers never need to
// special-case disjointness beyond checking Empty().
func (r Rectangle) Intersect(o Rectangle) Rectangle {
	x0 := max(r.Pos.X, o.Pos.X)
	y0 := max(r.Pos.Y, o.Pos.Y)
	x1 := min(r.Pos.X+r.Size.X, o.Pos.X+o.Size.X)
	y1 := min(r.Pos.Y+r.Size.Y, o.Pos.Y+o.Size.Y)
	if x1 <= x0 || y1 <= y0 {
		return Rectangle{}
	}
	return Rectangle{Pos: Vec2{x0, y0}, Size: Vec2{x1 - x0, y1 - y0}}
}

// Contains reports whether p lies within the rectangle.
func (r Rectangle) Contains(p Vec2) bool {
	return p.X >= r.Pos.X && p.X < r.Pos.X+r.Size.X &&
		p.Y >= r.Pos.Y && p.Y < r.Pos.Y+r.Size.Y
}
