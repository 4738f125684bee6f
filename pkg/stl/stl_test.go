package stl

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"lungseg/internal/models"
)

// unitTriangleMesh returns an indexed mesh holding a single right
// triangle in the z=0 plane
func unitTriangleMesh() *models.Mesh {
	return &models.Mesh{
		Vertices: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
		},
		Faces: []uint32{0, 1, 2},
	}
}

// TestFromMesh verifies triangle expansion, per-axis scaling, and the
// unit face normal
func TestFromMesh(t *testing.T) {
	mesh := unitTriangleMesh()

	triangles := FromMesh(mesh, [3]float32{2, 3, 1})
	if len(triangles) != 1 {
		t.Fatalf("Expected 1 triangle, got %d", len(triangles))
	}

	tri := triangles[0]
	if tri.Vertex2 != [3]float32{2, 0, 0} {
		t.Errorf("Expected scaled vertex (2,0,0), got %v", tri.Vertex2)
	}
	if tri.Vertex3 != [3]float32{0, 3, 0} {
		t.Errorf("Expected scaled vertex (0,3,0), got %v", tri.Vertex3)
	}

	// Counter-clockwise in the xy plane, so the normal points along +z
	length := math.Sqrt(float64(tri.Normal[0]*tri.Normal[0] +
		tri.Normal[1]*tri.Normal[1] + tri.Normal[2]*tri.Normal[2]))
	if math.Abs(length-1) > 1e-6 {
		t.Errorf("Expected unit normal, got length %f", length)
	}
	if tri.Normal[2] <= 0 {
		t.Errorf("Expected normal along +z, got %v", tri.Normal)
	}
}

// TestFromMeshDegenerate verifies zero-area triangles get a zero normal
// instead of NaN
func TestFromMeshDegenerate(t *testing.T) {
	mesh := &models.Mesh{
		Vertices: []float32{0, 0, 0, 1, 1, 1, 2, 2, 2},
		Faces:    []uint32{0, 1, 2},
	}

	triangles := FromMesh(mesh, [3]float32{1, 1, 1})
	if len(triangles) != 1 {
		t.Fatalf("Expected 1 triangle, got %d", len(triangles))
	}
	if triangles[0].Normal != [3]float32{} {
		t.Errorf("Expected zero normal for a degenerate triangle, got %v", triangles[0].Normal)
	}
}

// TestFromMeshEmpty verifies nil and empty meshes yield no triangles
func TestFromMeshEmpty(t *testing.T) {
	if triangles := FromMesh(nil, [3]float32{1, 1, 1}); triangles != nil {
		t.Errorf("Expected nil for a nil mesh, got %d triangles", len(triangles))
	}
	if triangles := FromMesh(&models.Mesh{}, [3]float32{1, 1, 1}); triangles != nil {
		t.Errorf("Expected nil for an empty mesh, got %d triangles", len(triangles))
	}
}

// TestSaveToSTL verifies the binary layout: 80-byte header, triangle
// count, and 50 bytes per facet
func TestSaveToSTL(t *testing.T) {
	triangles := FromMesh(unitTriangleMesh(), [3]float32{1, 1, 1})

	path := filepath.Join(t.TempDir(), "test.stl")
	if err := SaveToSTL(path, triangles); err != nil {
		t.Fatalf("SaveToSTL failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read STL file: %v", err)
	}

	wantSize := 80 + 4 + 50*len(triangles)
	if len(data) != wantSize {
		t.Fatalf("Expected file size %d, got %d", wantSize, len(data))
	}

	count := binary.LittleEndian.Uint32(data[80:84])
	if int(count) != len(triangles) {
		t.Errorf("Expected triangle count %d in header, got %d", len(triangles), count)
	}
}

// TestSaveToSTLEmpty verifies an empty triangle list still produces a
// valid file with a zero count
func TestSaveToSTLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.stl")
	if err := SaveToSTL(path, nil); err != nil {
		t.Fatalf("SaveToSTL failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read STL file: %v", err)
	}
	if len(data) != 84 {
		t.Fatalf("Expected 84-byte file, got %d bytes", len(data))
	}
	if count := binary.LittleEndian.Uint32(data[80:84]); count != 0 {
		t.Errorf("Expected zero triangle count, got %d", count)
	}
}
