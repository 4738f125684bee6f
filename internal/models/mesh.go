package models

// Mesh is a triangulated surface suitable for rendering.
// Both arrays are flat: Vertices has 3 floats per vertex (x, y, z) and
// Faces has 3 indices per triangle, so they can be handed directly to a
// GL vertex list without repacking.
type Mesh struct {
	Vertices []float32
	Faces    []uint32
}

// VertexCount returns the number of vertices in the mesh
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles in the mesh
func (m *Mesh) TriangleCount() int {
	return len(m.Faces) / 3
}

// IsEmpty reports whether the mesh has no geometry
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns the coordinates of vertex i
func (m *Mesh) Vertex(i int) [3]float32 {
	return [3]float32{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
}

// Face returns the vertex indices of triangle i
func (m *Mesh) Face(i int) [3]uint32 {
	return [3]uint32{m.Faces[i*3], m.Faces[i*3+1], m.Faces[i*3+2]}
}
