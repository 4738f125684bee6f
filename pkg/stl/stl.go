// Package stl converts segmented surface meshes to binary STL files.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"lungseg/internal/models"
)

// Triangle represents a single STL facet with a per-face normal
type Triangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
}

// FromMesh expands an indexed mesh into STL triangle soup, applying the
// given per-axis scale to every vertex and computing unit face normals.
// Scale is how physical voxel spacing gets applied before export; pass
// {1, 1, 1} to keep voxel-index coordinates.
func FromMesh(mesh *models.Mesh, scale [3]float32) []Triangle {
	if mesh == nil || mesh.IsEmpty() {
		return nil
	}

	triangles := make([]Triangle, 0, mesh.TriangleCount())
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.Face(i)
		v1 := scaleVertex(mesh.Vertex(int(face[0])), scale)
		v2 := scaleVertex(mesh.Vertex(int(face[1])), scale)
		v3 := scaleVertex(mesh.Vertex(int(face[2])), scale)

		triangles = append(triangles, Triangle{
			Normal:  faceNormal(v1, v2, v3),
			Vertex1: v1,
			Vertex2: v2,
			Vertex3: v3,
		})
	}

	return triangles
}

func scaleVertex(v [3]float32, scale [3]float32) [3]float32 {
	return [3]float32{v[0] * scale[0], v[1] * scale[1], v[2] * scale[2]}
}

// faceNormal computes the unit normal of the triangle from its winding
// order. Degenerate triangles get a zero normal, which STL readers accept.
func faceNormal(v1, v2, v3 [3]float32) [3]float32 {
	a := r3.Vec{X: float64(v2[0] - v1[0]), Y: float64(v2[1] - v1[1]), Z: float64(v2[2] - v1[2])}
	b := r3.Vec{X: float64(v3[0] - v1[0]), Y: float64(v3[1] - v1[1]), Z: float64(v3[2] - v1[2])}

	n := r3.Cross(a, b)
	if r3.Norm(n) == 0 {
		return [3]float32{}
	}
	n = r3.Unit(n)
	return [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
}

// SaveToSTL writes the triangles to a binary STL file:
// an 80-byte header, a uint32 triangle count, then 50 bytes per triangle
// (normal, three vertices, and a zero attribute word).
func SaveToSTL(filename string, triangles []Triangle) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create STL file: %v", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	header := make([]byte, 80)
	copy(header, []byte("Binary STL generated by lungseg"))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write STL header: %v", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %v", err)
	}

	for i := range triangles {
		t := &triangles[i]
		for _, vec := range [4][3]float32{t.Normal, t.Vertex1, t.Vertex2, t.Vertex3} {
			if err := binary.Write(w, binary.LittleEndian, vec); err != nil {
				return fmt.Errorf("failed to write triangle %d: %v", i, err)
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("failed to write triangle %d attribute: %v", i, err)
		}
	}

	return w.Flush()
}
