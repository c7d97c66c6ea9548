package loader

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// buildBinarySTL assembles a binary STL byte stream from triangles given as
// [normal, v1, v2, v3] float triples.
func buildBinarySTL(header string, triangles [][4][3]float32) []byte {
	buf := make([]byte, 80+4+len(triangles)*50)
	copy(buf, header)
	binary.LittleEndian.PutUint32(buf[80:84], uint32(len(triangles)))

	off := 84
	for _, tri := range triangles {
		for _, vec := range tri {
			for _, f := range vec {
				binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
				off += 4
			}
		}
		off += 2 // attribute byte count
	}
	return buf
}

func TestParseSTLSingleTriangle(t *testing.T) {
	data := buildBinarySTL("test", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	m, err := ParseSTL(data, [4]float32{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(m.Vertices()) != 3 {
		t.Fatalf("vertex count = %d, want 3", len(m.Vertices()))
	}
	if m.IndexCount() != 3 {
		t.Fatalf("index count = %d, want 3", m.IndexCount())
	}
	for i, v := range m.Vertices() {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Fatalf("vertex %d normal = %v, want facet normal", i, v.Normal)
		}
	}
	if m.Vertices()[1].Position != [3]float32{1, 0, 0} {
		t.Fatalf("vertex 1 position = %v", m.Vertices()[1].Position)
	}
}

func TestParseSTLFacetNormalsStayFlat(t *testing.T) {
	data := buildBinarySTL("two facets", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{0, 1, 0}, {0, 0, 0}, {0, 0, 1}, {1, 0, 0}},
	})

	m, err := ParseSTL(data, [4]float32{0.5, 0.5, 0.5, 1})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(m.Vertices()) != 6 {
		t.Fatalf("vertex count = %d, want 6", len(m.Vertices()))
	}

	// Shared positions across facets keep their own facet normal.
	if m.Vertices()[0].Normal == m.Vertices()[3].Normal {
		t.Fatal("facets must not share normals")
	}
	for _, idx := range m.Indices() {
		if idx >= uint32(len(m.Vertices())) {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestParseSTLAppliesColor(t *testing.T) {
	data := buildBinarySTL("", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	color := [4]float32{0.1, 0.9, 0.3, 0.5}
	m, err := ParseSTL(data, color)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for i, v := range m.Vertices() {
		if v.Color != color {
			t.Fatalf("vertex %d color = %v, want %v", i, v.Color, color)
		}
	}
}

func TestParseSTLBinaryWithSolidHeader(t *testing.T) {
	// Some exporters write "solid" into the binary header; the size check must
	// keep accepting those.
	data := buildBinarySTL("solid exported-part", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})

	if _, err := ParseSTL(data, [4]float32{1, 1, 1, 1}); err != nil {
		t.Fatalf("binary stl with solid header rejected: %v", err)
	}
}

func TestParseSTLRejectsASCII(t *testing.T) {
	ascii := []byte("solid cube\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nvertex 0 1 0\nendloop\nendfacet\nendsolid cube\n")
	// Pad past the minimum length so the format check is what rejects it.
	for len(ascii) < 100 {
		ascii = append(ascii, '\n')
	}

	if _, err := ParseSTL(ascii, [4]float32{1, 1, 1, 1}); err == nil {
		t.Fatal("expected error for ascii stl")
	}
}

func TestParseSTLRejectsTruncated(t *testing.T) {
	data := buildBinarySTL("trunc", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})
	if _, err := ParseSTL(data[:len(data)-10], [4]float32{1, 1, 1, 1}); err == nil {
		t.Fatal("expected error for truncated body")
	}
	if _, err := ParseSTL(data[:50], [4]float32{1, 1, 1, 1}); err == nil {
		t.Fatal("expected error for missing header")
	}
}

func TestLoadSTLNamesMeshAfterFile(t *testing.T) {
	data := buildBinarySTL("file", [][4][3]float32{
		{{0, 0, 1}, {0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	})
	path := filepath.Join(t.TempDir(), "bracket.stl")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadSTL(path, [4]float32{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.Name() != "bracket" {
		t.Fatalf("mesh name = %q, want bracket", m.Name())
	}
}

func TestLoadSTLMissingFile(t *testing.T) {
	if _, err := LoadSTL(filepath.Join(t.TempDir(), "missing.stl"), [4]float32{1, 1, 1, 1}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
