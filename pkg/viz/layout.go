package viz

import "math"

// Point3 is a 3D layout coordinate.
type Point3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Point2 is a 2D layout coordinate.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Circular places position i of n on the unit circle in the XY plane:
// (cos(2πi/n), sin(2πi/n), 0). Empty input yields an empty slice. The
// result depends only on len(ids) and the order of ids.
func Circular(ids []string) []Point3 {
	if len(ids) == 0 {
		return nil
	}
	n := float64(len(ids))
	out := make([]Point3, len(ids))
	for i := range ids {
		theta := 2 * math.Pi * float64(i) / n
		out[i] = Point3{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	return out
}

// Circular2D returns the circular layout as an id → coordinate map.
func Circular2D(ids []string) map[string]Point2 {
	if len(ids) == 0 {
		return map[string]Point2{}
	}
	n := float64(len(ids))
	out := make(map[string]Point2, len(ids))
	for i, id := range ids {
		theta := 2 * math.Pi * float64(i) / n
		out[id] = Point2{X: math.Cos(theta), Y: math.Sin(theta)}
	}
	return out
}

// Grid places position i at (i mod c, i div c) with c = ⌈√n⌉ columns.
func Grid(ids []string) map[string]Point2 {
	if len(ids) == 0 {
		return map[string]Point2{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(ids)))))
	out := make(map[string]Point2, len(ids))
	for i, id := range ids {
		out[id] = Point2{X: float64(i % cols), Y: float64(i / cols)}
	}
	return out
}

// Spring2D projects previously computed 3D positions onto their first two
// coordinates. This is a deliberate simplification: no physical simulation
// runs, so consumers get reproducible coordinates that match the 3D view.
// Ids absent from positions are dropped.
func Spring2D(positions map[string]Point3, ids []string) map[string]Point2 {
	if len(positions) == 0 || len(ids) == 0 {
		return map[string]Point2{}
	}
	out := make(map[string]Point2, len(ids))
	for _, id := range ids {
		if p, ok := positions[id]; ok {
			out[id] = Point2{X: p.X, Y: p.Y}
		}
	}
	return out
}

// CircularByID returns the circular layout keyed by id, for feeding
// Spring2D.
func CircularByID(ids []string) map[string]Point3 {
	pts := Circular(ids)
	out := make(map[string]Point3, len(pts))
	for i, id := range ids {
		out[id] = pts[i]
	}
	return out
}

// FlatLayout computes the named 2D layout for the id list. Unknown names
// fall back to the circular layout.
func FlatLayout(name string, ids []string) map[string]Point2 {
	switch name {
	case "grid":
		return Grid(ids)
	case "spring":
		return Spring2D(CircularByID(ids), ids)
	default:
		return Circular2D(ids)
	}
}
