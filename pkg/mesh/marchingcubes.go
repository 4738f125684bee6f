package mesh

import (
	"lungseg/internal/models"
)

// cornerOffsets gives the position of each cube corner relative to the
// cell origin, in cell units, following the standard marching cubes
// corner numbering (corners 0-3 on the lower z face, 4-7 on the upper).
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// edgeCorners lists the pair of cube corners joined by each of the 12
// cube edges, in the same numbering the case table indexes into.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// marchingCubes extracts an iso-surface from a scalar grid as an indexed
// mesh. Vertices generated on a shared cell edge are emitted once and
// referenced by index from every triangle that uses them, which is what
// downstream GL rendering expects.
type marchingCubes struct {
	data     []float64
	width    int
	height   int
	depth    int
	isoLevel float64
	step     int
}

func newMarchingCubes(data []float64, width, height, depth int, isoLevel float64, step int) *marchingCubes {
	return &marchingCubes{
		data:     data,
		width:    width,
		height:   height,
		depth:    depth,
		isoLevel: isoLevel,
		step:     step,
	}
}

// generate walks every cell of the (possibly sub-sampled) grid and emits
// the triangulation for its marching cubes case. A grid with no boundary
// crossing produces an empty mesh.
func (mc *marchingCubes) generate() *models.Mesh {
	mesh := &models.Mesh{}
	if mc.width < 2 || mc.height < 2 || mc.depth < 2 {
		return mesh
	}

	// Map from a global edge key to the index of the vertex already
	// emitted on that edge
	edgeVertices := make(map[int64]uint32)

	step := mc.step
	var corners [8][3]int
	var values [8]float64

	for z := 0; z+step < mc.depth; z += step {
		for y := 0; y+step < mc.height; y += step {
			for x := 0; x+step < mc.width; x += step {
				cubeIndex := 0
				for i := 0; i < 8; i++ {
					cx := x + cornerOffsets[i][0]*step
					cy := y + cornerOffsets[i][1]*step
					cz := z + cornerOffsets[i][2]*step
					corners[i] = [3]int{cx, cy, cz}
					values[i] = mc.data[cz*mc.width*mc.height+cy*mc.width+cx]
					if values[i] < mc.isoLevel {
						cubeIndex |= 1 << i
					}
				}

				if cubeIndex == 0 || cubeIndex == 255 {
					continue
				}

				tri := &triTable[cubeIndex]
				for i := 0; tri[i] != -1; i += 3 {
					i0 := mc.edgeVertex(mesh, edgeVertices, corners, values, int(tri[i]))
					i1 := mc.edgeVertex(mesh, edgeVertices, corners, values, int(tri[i+1]))
					i2 := mc.edgeVertex(mesh, edgeVertices, corners, values, int(tri[i+2]))
					mesh.Faces = append(mesh.Faces, i0, i1, i2)
				}
			}
		}
	}

	return mesh
}

// edgeVertex returns the index of the iso-surface vertex on the given
// cube edge, emitting it if this is the first cell to cross that edge
func (mc *marchingCubes) edgeVertex(mesh *models.Mesh, edgeVertices map[int64]uint32,
	corners [8][3]int, values [8]float64, edge int) uint32 {

	a, b := edgeCorners[edge][0], edgeCorners[edge][1]
	pa, pb := corners[a], corners[b]

	// Canonical key: the lexicographically smaller endpoint plus the axis
	// the edge runs along, so both cells sharing the edge agree on it
	lo := pa
	if pb[2] < pa[2] || (pb[2] == pa[2] && (pb[1] < pa[1] || (pb[1] == pa[1] && pb[0] < pa[0]))) {
		lo = pb
	}
	axis := int64(0)
	switch {
	case pa[1] != pb[1]:
		axis = 1
	case pa[2] != pb[2]:
		axis = 2
	}
	key := ((int64(lo[2])*int64(mc.height)+int64(lo[1]))*int64(mc.width)+int64(lo[0]))*3 + axis

	if idx, ok := edgeVertices[key]; ok {
		return idx
	}

	va, vb := values[a], values[b]
	t := 0.5
	if diff := vb - va; diff != 0 {
		t = (mc.isoLevel - va) / diff
	}

	idx := uint32(mesh.VertexCount())
	mesh.Vertices = append(mesh.Vertices,
		float32(float64(pa[0])+t*float64(pb[0]-pa[0])),
		float32(float64(pa[1])+t*float64(pb[1]-pa[1])),
		float32(float64(pa[2])+t*float64(pb[2]-pa[2])))
	edgeVertices[key] = idx
	return idx
}
