// Package formats provides parsers for the asset file formats the viewer loads.
// OBJ (Wavefront) format parser for text meshes.
package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidOBJ is wrapped by every OBJ syntax or reference error.
var ErrInvalidOBJ = errors.New("invalid OBJ data")

// NoIndex marks a face vertex without a texture coordinate or normal.
const NoIndex = -1

// OBJIndex is one face-vertex reference, resolved to zero-based indices.
type OBJIndex struct {
	Vertex   int // Into OBJ.Positions, always valid
	TexCoord int // Into OBJ.TexCoords or NoIndex
	Normal   int // Into OBJ.Normals or NoIndex
}

// OBJShape is a named group of triangles.
type OBJShape struct {
	Name string
	// Indices holds three entries per triangle, in file order.
	Indices []OBJIndex
}

// TriangleCount returns the number of triangles in the shape.
func (s *OBJShape) TriangleCount() int {
	return len(s.Indices) / 3
}

// OBJ is a parsed Wavefront OBJ file. Attribute arrays are shared by all shapes.
type OBJ struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Shapes    []OBJShape

	// Warnings lists statements that were skipped.
	Warnings []string
}

// IndexCount returns the number of face-vertex references across all shapes.
func (o *OBJ) IndexCount() int {
	n := 0
	for i := range o.Shapes {
		n += len(o.Shapes[i].Indices)
	}
	return n
}

// LoadOBJ reads and parses an OBJ file from disk.
func LoadOBJ(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	obj, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// ParseOBJ parses OBJ text. Polygons are fan-triangulated, relative indices
// are resolved, and every "o" or "g" statement starts a new shape. Faces
// before the first group go to a shape named "default". Shapes without
// faces are dropped.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := objParser{obj: &OBJ{}}
	if err := p.parse(r); err != nil {
		return nil, err
	}

	shapes := p.obj.Shapes[:0]
	for _, s := range p.obj.Shapes {
		if len(s.Indices) > 0 {
			shapes = append(shapes, s)
		}
	}
	p.obj.Shapes = shapes
	return p.obj, nil
}

type objParser struct {
	obj     *OBJ
	line    int
	current *OBJShape
	face    []OBJIndex
}

func (p *objParser) parse(r io.Reader) error {
	reader := bufio.NewReader(r)
	for {
		text, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading OBJ data: %w", err)
		}
		p.line++
		if perr := p.parseLine(text); perr != nil {
			return perr
		}
		if err == io.EOF {
			return nil
		}
	}
}

func (p *objParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidOBJ, p.line, fmt.Sprintf(format, args...))
}

func (p *objParser) parseLine(text string) error {
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := p.floats(fields[1:], 3, 3)
		if err != nil {
			return err
		}
		p.obj.Positions = append(p.obj.Positions, [3]float32{v[0], v[1], v[2]})
	case "vn":
		v, err := p.floats(fields[1:], 3, 3)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, [3]float32{v[0], v[1], v[2]})
	case "vt":
		// The optional w component is ignored; a lone u means v = 0.
		v, err := p.floats(fields[1:], 1, 2)
		if err != nil {
			return err
		}
		tc := [2]float32{v[0], 0}
		if len(v) > 1 {
			tc[1] = v[1]
		}
		p.obj.TexCoords = append(p.obj.TexCoords, tc)
	case "f":
		return p.parseFace(fields[1:])
	case "o", "g":
		name := strings.Join(fields[1:], " ")
		if name == "" {
			name = fmt.Sprintf("unnamed%d", p.line)
		}
		p.beginShape(name)
	case "mtllib", "usemtl", "s", "l", "p":
		p.obj.Warnings = append(p.obj.Warnings, fmt.Sprintf("line %d: %s ignored", p.line, fields[0]))
	default:
		p.obj.Warnings = append(p.obj.Warnings, fmt.Sprintf("line %d: unsupported statement %q", p.line, fields[0]))
	}
	return nil
}

func (p *objParser) beginShape(name string) {
	p.obj.Shapes = append(p.obj.Shapes, OBJShape{Name: name})
	p.current = &p.obj.Shapes[len(p.obj.Shapes)-1]
}

// floats parses between min and max leading values; extra values are ignored.
func (p *objParser) floats(fields []string, min, max int) ([]float32, error) {
	if len(fields) < min {
		return nil, p.errorf("expected %d values, got %d", min, len(fields))
	}
	if len(fields) > max {
		fields = fields[:max]
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, p.errorf("bad number %q", f)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseFace parses f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (p *objParser) parseFace(fields []string) error {
	if len(fields) < 3 {
		return p.errorf("face with %d vertices", len(fields))
	}
	if p.current == nil {
		p.beginShape("default")
	}

	p.face = p.face[:0]
	for _, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) > 3 {
			return p.errorf("bad face vertex %q", f)
		}

		var idx OBJIndex
		var err error
		if idx.Vertex, err = p.resolve(parts[0], len(p.obj.Positions), "vertex"); err != nil {
			return err
		}
		idx.TexCoord, idx.Normal = NoIndex, NoIndex
		if len(parts) > 1 && parts[1] != "" {
			if idx.TexCoord, err = p.resolve(parts[1], len(p.obj.TexCoords), "texcoord"); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if idx.Normal, err = p.resolve(parts[2], len(p.obj.Normals), "normal"); err != nil {
				return err
			}
		}
		p.face = append(p.face, idx)
	}

	// Fan around the first vertex: (0,1,2), (0,2,3), ...
	for i := 1; i+1 < len(p.face); i++ {
		p.current.Indices = append(p.current.Indices, p.face[0], p.face[i], p.face[i+1])
	}
	return nil
}

// resolve converts a one-based or negative relative reference to a zero-based index.
func (p *objParser) resolve(s string, count int, kind string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, p.errorf("bad %s index %q", kind, s)
	}
	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = count + n
	default:
		return 0, p.errorf("%s index 0", kind)
	}
	if idx < 0 || idx >= count {
		return 0, p.errorf("%s index %d out of range (%d defined)", kind, n, count)
	}
	return idx, nil
}
