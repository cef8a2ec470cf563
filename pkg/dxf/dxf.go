package dxf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrBinary is returned for binary DXF files.
var ErrBinary = errors.New("binary DXF is not supported")

var binarySentinel = []byte("AutoCAD Binary DXF")

// Vec is a position in the drawing's native units.
type Vec struct {
	X, Y float64
}

// Layer is a named drawing layer and the entities on it.
type Layer struct {
	Name string
	// Color is the AutoCAD Color Index, nil when undefined or when the
	// layer is switched off (negative index).
	Color *int
	// LineWeight is in hundredths of a millimetre, nil when the layer uses
	// a default, BYLAYER or BYBLOCK weight.
	LineWeight *int
	Points     []Vec
	Polylines  [][]Vec
}

// HasGeometry reports whether the layer carries points or polylines.
func (l *Layer) HasGeometry() bool {
	return len(l.Points) > 0 || len(l.Polylines) > 0
}

// Drawing is the decoded content of a DXF file. Layers are ordered as they
// appear in the layer table, followed by layers only referenced by
// entities, in order of first use.
type Drawing struct {
	Layers []*Layer
	byName map[string]*Layer
}

// LayerByName returns the named layer or nil.
func (d *Drawing) LayerByName(name string) *Layer {
	return d.byName[name]
}

func (d *Drawing) layer(name string) *Layer {
	if d.byName == nil {
		d.byName = make(map[string]*Layer)
	}
	if l, ok := d.byName[name]; ok {
		return l
	}
	l := &Layer{Name: name}
	d.byName[name] = l
	d.Layers = append(d.Layers, l)
	return l
}

// ReadFile reads the DXF file at path.
func ReadFile(path string) (*Drawing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Read decodes an ASCII DXF drawing from r.
func Read(r io.Reader) (*Drawing, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(binarySentinel)); bytes.Equal(head, binarySentinel) {
		return nil, ErrBinary
	}
	p := &parser{s: newScanner(br), d: &Drawing{}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.d, nil
}

type pair struct {
	code  int
	value string
}

type scanner struct {
	s    *bufio.Scanner
	line int
	peek *pair
}

func newScanner(r io.Reader) *scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	return &scanner{s: s}
}

// next returns the next group pair, or io.EOF at the end of input.
func (s *scanner) next() (pair, error) {
	if s.peek != nil {
		p := *s.peek
		s.peek = nil
		return p, nil
	}
	if !s.s.Scan() {
		if err := s.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, io.EOF
	}
	s.line++
	codeLine := strings.TrimSpace(s.s.Text())
	code, err := strconv.Atoi(codeLine)
	if err != nil {
		return pair{}, fmt.Errorf("line %d: invalid group code %q", s.line, codeLine)
	}
	if !s.s.Scan() {
		if err := s.s.Err(); err != nil {
			return pair{}, err
		}
		return pair{}, fmt.Errorf("line %d: group code %d without value", s.line, code)
	}
	s.line++
	return pair{code: code, value: strings.TrimRight(s.s.Text(), "\r")}, nil
}

func (s *scanner) unread(p pair) {
	s.peek = &p
}

type parser struct {
	s *scanner
	d *Drawing
}

func (p *parser) run() error {
	for {
		g, err := p.s.next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if g.code != 0 {
			continue
		}
		switch strings.TrimSpace(g.value) {
		case "SECTION":
			if err := p.section(); err != nil {
				return err
			}
		case "EOF":
			return nil
		}
	}
}

func (p *parser) section() error {
	g, err := p.s.next()
	if err != nil {
		return fmt.Errorf("section header: %w", noEOF(err))
	}
	if g.code != 2 {
		return fmt.Errorf("line %d: section without name", p.s.line)
	}
	switch strings.TrimSpace(g.value) {
	case "TABLES":
		return p.tables()
	case "ENTITIES":
		return p.entities()
	default:
		return p.skipSection()
	}
}

func (p *parser) skipSection() error {
	for {
		g, err := p.s.next()
		if err != nil {
			return fmt.Errorf("unterminated section: %w", noEOF(err))
		}
		if g.code == 0 && strings.TrimSpace(g.value) == "ENDSEC" {
			return nil
		}
	}
}

func (p *parser) tables() error {
	for {
		g, err := p.s.next()
		if err != nil {
			return fmt.Errorf("TABLES: %w", noEOF(err))
		}
		if g.code != 0 {
			continue
		}
		switch strings.TrimSpace(g.value) {
		case "ENDSEC":
			return nil
		case "LAYER":
			if err := p.layerRecord(); err != nil {
				return err
			}
		}
	}
}

// layerRecord reads one "0 LAYER" table record. The "0 TABLE / 2 LAYER"
// header of the table never reaches here.
func (p *parser) layerRecord() error {
	var (
		name   string
		color  *int
		weight *int
	)
	err := p.fields(func(g pair) error {
		switch g.code {
		case 2:
			name = strings.TrimSpace(g.value)
		case 62:
			v, err := atoi(g)
			if err != nil {
				return err
			}
			if v >= 0 {
				color = &v
			}
		case 370:
			v, err := atoi(g)
			if err != nil {
				return err
			}
			if v >= 0 {
				weight = &v
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("LAYER %q: %w", name, err)
	}
	l := p.d.layer(name)
	l.Color = color
	l.LineWeight = weight
	return nil
}

// fields calls fn for every pair up to the next group code 0, which is
// pushed back.
func (p *parser) fields(fn func(pair) error) error {
	for {
		g, err := p.s.next()
		if err != nil {
			return noEOF(err)
		}
		if g.code == 0 {
			p.s.unread(g)
			return nil
		}
		if err := fn(g); err != nil {
			return err
		}
	}
}

func (p *parser) entities() error {
	for {
		g, err := p.s.next()
		if err != nil {
			return fmt.Errorf("ENTITIES: %w", noEOF(err))
		}
		if g.code != 0 {
			continue
		}
		var perr error
		switch strings.TrimSpace(g.value) {
		case "ENDSEC":
			return nil
		case "POINT":
			perr = p.point()
		case "LWPOLYLINE":
			perr = p.lwpolyline()
		case "POLYLINE":
			perr = p.polyline()
		}
		if perr != nil {
			return perr
		}
	}
}

func (p *parser) point() error {
	var (
		layer = "0"
		v     Vec
	)
	err := p.fields(func(g pair) error {
		var err error
		switch g.code {
		case 8:
			layer = strings.TrimSpace(g.value)
		case 10:
			v.X, err = atof(g)
		case 20:
			v.Y, err = atof(g)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("POINT: %w", err)
	}
	l := p.d.layer(layer)
	l.Points = append(l.Points, v)
	return nil
}

func (p *parser) lwpolyline() error {
	var (
		layer = "0"
		pts   []Vec
	)
	err := p.fields(func(g pair) error {
		switch g.code {
		case 8:
			layer = strings.TrimSpace(g.value)
		case 10:
			x, err := atof(g)
			if err != nil {
				return err
			}
			pts = append(pts, Vec{X: x})
		case 20:
			y, err := atof(g)
			if err != nil {
				return err
			}
			if len(pts) == 0 {
				return errors.New("y coordinate before x")
			}
			pts[len(pts)-1].Y = y
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("LWPOLYLINE: %w", err)
	}
	l := p.d.layer(layer)
	l.Polylines = append(l.Polylines, pts)
	return nil
}

// polyline reads a heavy POLYLINE followed by its VERTEX records and SEQEND.
// Spline frame control points (vertex flag 16) are skipped.
func (p *parser) polyline() error {
	layer := "0"
	if err := p.fields(func(g pair) error {
		if g.code == 8 {
			layer = strings.TrimSpace(g.value)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("POLYLINE: %w", err)
	}

	var pts []Vec
	for {
		g, err := p.s.next()
		if err != nil {
			return fmt.Errorf("POLYLINE: %w", noEOF(err))
		}
		switch strings.TrimSpace(g.value) {
		case "VERTEX":
			v, keep, err := p.vertex()
			if err != nil {
				return err
			}
			if keep {
				pts = append(pts, v)
			}
			continue
		case "SEQEND":
			if err := p.fields(func(pair) error { return nil }); err != nil {
				return fmt.Errorf("SEQEND: %w", err)
			}
		default:
			// Some writers omit SEQEND.
			p.s.unread(g)
		}
		break
	}
	l := p.d.layer(layer)
	l.Polylines = append(l.Polylines, pts)
	return nil
}

func (p *parser) vertex() (Vec, bool, error) {
	var (
		v    Vec
		flag int
	)
	err := p.fields(func(g pair) error {
		var err error
		switch g.code {
		case 10:
			v.X, err = atof(g)
		case 20:
			v.Y, err = atof(g)
		case 70:
			flag, err = atoi(g)
		}
		return err
	})
	if err != nil {
		return Vec{}, false, fmt.Errorf("VERTEX: %w", err)
	}
	return v, flag&16 == 0, nil
}

func atoi(g pair) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(g.value))
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid integer %q", g.code, g.value)
	}
	return v, nil
}

func atof(g pair) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(g.value), 64)
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid number %q", g.code, g.value)
	}
	return v, nil
}

func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
