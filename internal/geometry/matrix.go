package geometry

import "math"

// Matrix2D is a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
//
// a, d scale; b, c rotate/skew; e, f translate.
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation matrix (radians). With y pointing down a
// positive angle turns clockwise on screen.
func Rotate(radians float64) Matrix2D {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// RotateDegrees returns a rotation matrix (degrees).
func RotateDegrees(degrees float64) Matrix2D {
	return Rotate(Radians(degrees))
}

// Multiply returns m * other: other is applied first, then m.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],
		m[1]*other[0] + m[3]*other[1],
		m[0]*other[2] + m[2]*other[3],
		m[1]*other[2] + m[3]*other[3],
		m[0]*other[4] + m[2]*other[5] + m[4],
		m[1]*other[4] + m[3]*other[5] + m[5],
	}
}

// Apply maps p through the matrix.
func (m Matrix2D) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// ApplyVector maps a direction, ignoring translation.
func (m Matrix2D) ApplyVector(v Point) Point {
	return Point{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

// TransformRect transforms r and returns its axis-aligned bounding box.
func (m Matrix2D) TransformRect(r Rect) Rect {
	corners := r.Corners()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := m.Apply(c)
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Determinant returns the determinant of the linear part.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if it is singular.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// RotationDegrees extracts the rotation angle of the linear part.
func (m Matrix2D) RotationDegrees() float64 {
	return Degrees(math.Atan2(m[1], m[0]))
}

// ToSlice returns the matrix as a slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// ComposeTransform builds the local-to-document transform of a box
// centered at center: translate to center, rotate, then offset by half
// the size so that local (0,0) is the box's top-left corner.
func ComposeTransform(center Point, width, height, rotationDegrees float64) Matrix2D {
	return Translate(center.X, center.Y).
		Multiply(RotateDegrees(rotationDegrees)).
		Multiply(Translate(-width/2, -height/2))
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}
