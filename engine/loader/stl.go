// package loader imports external mesh files into the engine's mesh
// representation. Only binary STL is supported; ASCII STL files are rejected.
package loader

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lumen-engine/lumen-go/engine/model"
	"github.com/lumen-engine/lumen-go/engine/stage"
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal (12) + 3 vertices (36) + attribute count (2)
)

// LoadSTL reads a binary STL file and converts it into a Mesh. Every triangle
// contributes three vertices carrying the facet normal, so no vertex sharing
// occurs across facets.
//
// Parameters:
//   - path: the file path to read
//   - color: the RGBA color applied to every vertex
//
// Returns:
//   - model.Mesh: the loaded mesh
//   - error: if the file cannot be read or is not valid binary STL
func LoadSTL(path string, color [4]float32) (model.Mesh, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stl file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := ParseSTL(b, color, model.WithName(name))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	log.Printf("[LOADER] loaded %s: %d triangles", path, m.IndexCount()/3)
	return m, nil
}

// ParseSTL converts raw binary STL bytes into a Mesh.
//
// Parameters:
//   - b: the file contents
//   - color: the RGBA color applied to every vertex
//   - options: additional mesh options, applied after the geometry is set
//
// Returns:
//   - model.Mesh: the parsed mesh
//   - error: if the bytes are not valid binary STL
func ParseSTL(b []byte, color [4]float32, options ...model.MeshBuilderOption) (model.Mesh, error) {
	if len(b) < stlHeaderSize+4 {
		return nil, fmt.Errorf("stl data too short: %d bytes", len(b))
	}
	// Binary STL has no magic number; the conventional check is that the file
	// does not start with the ASCII keyword.
	if strings.HasPrefix(strings.TrimLeft(string(b[:6]), " \t"), "solid") && !binarySizeMatches(b) {
		return nil, fmt.Errorf("ascii stl is not supported")
	}

	triangleCount := binary.LittleEndian.Uint32(b[stlHeaderSize : stlHeaderSize+4])
	body := b[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(triangleCount)*stlTriangleSize {
		return nil, fmt.Errorf("stl truncated: header declares %d triangles, body holds %d bytes", triangleCount, len(body))
	}

	vertices := make([]stage.VertexAttributes, 0, triangleCount*3)
	indices := make([]uint32, 0, triangleCount*3)
	for i := uint32(0); i < triangleCount; i++ {
		tri := body[i*stlTriangleSize : (i+1)*stlTriangleSize]
		normal := readVec3(tri[0:12])
		for corner := 0; corner < 3; corner++ {
			off := 12 + corner*12
			indices = append(indices, uint32(len(vertices)))
			vertices = append(vertices, stage.VertexAttributes{
				Position: readVec3(tri[off : off+12]),
				Normal:   normal,
				Color:    color,
			})
		}
	}

	opts := append([]model.MeshBuilderOption{
		model.WithVertices(vertices),
		model.WithIndices(indices),
	}, options...)
	return model.NewMesh(opts...), nil
}

// binarySizeMatches reports whether the byte length is exactly what the
// declared triangle count requires. Some binary exporters write "solid" into
// the free-form header; the size check disambiguates those from ASCII files.
func binarySizeMatches(b []byte) bool {
	if len(b) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(b[stlHeaderSize : stlHeaderSize+4])
	return uint64(len(b)) == stlHeaderSize+4+uint64(count)*stlTriangleSize
}

func readVec3(b []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	}
}
