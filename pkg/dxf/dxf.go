package dxf

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrSyntax is returned for input that is not a sequence of code/value pairs.
	ErrSyntax = errors.New("dxf: syntax error")
	// ErrBinary is returned for binary DXF input.
	ErrBinary = errors.New("dxf: binary DXF is not supported")
)

const binarySentinel = "AutoCAD Binary DXF"

// Pair is one group code and its raw value.
type Pair struct {
	Code  int
	Value string
}

// Entity is one record of the ENTITIES section.
type Entity struct {
	Type     string
	Pairs    []Pair
	Vertices []Entity // POLYLINE only
}

// File is a parsed drawing.
type File struct {
	name     string
	header   map[string][]Pair
	entities []Entity
}

// Name returns the base name of the file the drawing was read from.
func (f *File) Name() string { return f.name }

// Entities returns the entities in file order.
func (f *File) Entities() []Entity { return f.entities }

// InsUnits returns the $INSUNITS header value, or 0 (unitless) when absent.
func (f *File) InsUnits() int {
	for _, p := range f.header["$INSUNITS"] {
		if p.Code == 70 {
			if n, err := strconv.Atoi(p.Value); err == nil {
				return n
			}
		}
	}
	return 0
}

// ParseFile reads and parses the DXF file at path.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dxf: %w", err)
	}
	f, err := Parse(filepath.Base(path), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Parse reads an ASCII DXF stream. name is recorded as the drawing name.
func Parse(name string, r io.Reader) (*File, error) {
	pairs, err := readPairs(r)
	if err != nil {
		return nil, err
	}
	f := &File{name: name, header: make(map[string][]Pair)}

	for i := 0; i < len(pairs); i++ {
		if pairs[i].Code != 0 || pairs[i].Value != "SECTION" {
			continue
		}
		if i+1 >= len(pairs) || pairs[i+1].Code != 2 {
			continue
		}
		section := pairs[i+1].Value
		end := i + 2
		for end < len(pairs) && !(pairs[end].Code == 0 && pairs[end].Value == "ENDSEC") {
			end++
		}
		body := pairs[i+2 : end]
		switch section {
		case "HEADER":
			parseHeader(f, body)
		case "ENTITIES":
			f.entities = parseEntities(body)
		}
		i = end
	}
	return f, nil
}

// readPairs splits the stream into code/value pairs.
func readPairs(r io.Reader) ([]Pair, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var pairs []Pair
	line := 0
	for sc.Scan() {
		line++
		codeText := strings.TrimSpace(sc.Text())
		if line == 1 && strings.HasPrefix(codeText, binarySentinel) {
			return nil, ErrBinary
		}
		if codeText == "" {
			continue
		}
		code, err := strconv.Atoi(codeText)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid group code %q", ErrSyntax, line, codeText)
		}
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: line %d: group code %d has no value", ErrSyntax, line, code)
		}
		line++
		pairs = append(pairs, Pair{Code: code, Value: strings.TrimSpace(sc.Text())})
		if code == 0 && pairs[len(pairs)-1].Value == "EOF" {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dxf: %w", err)
	}
	return pairs, nil
}

// parseHeader records "9 $NAME" variables and the pairs that follow them.
func parseHeader(f *File, body []Pair) {
	var current string
	for _, p := range body {
		if p.Code == 9 {
			current = p.Value
			f.header[current] = nil
			continue
		}
		if current != "" {
			f.header[current] = append(f.header[current], p)
		}
	}
}

// parseEntities groups pairs into entities at each code 0 and attaches
// VERTEX records to their POLYLINE.
func parseEntities(body []Pair) []Entity {
	var (
		out      []Entity
		polyline *Entity
	)
	flush := func(e *Entity) {
		if e == nil {
			return
		}
		switch {
		case polyline != nil && e.Type == "VERTEX":
			polyline.Vertices = append(polyline.Vertices, *e)
		case polyline != nil && e.Type == "SEQEND":
			out = append(out, *polyline)
			polyline = nil
		case e.Type == "POLYLINE":
			if polyline != nil {
				out = append(out, *polyline)
			}
			cp := *e
			polyline = &cp
		default:
			if polyline != nil {
				// Missing SEQEND.
				out = append(out, *polyline)
				polyline = nil
			}
			out = append(out, *e)
		}
	}

	var cur *Entity
	for _, p := range body {
		if p.Code == 0 {
			flush(cur)
			cur = &Entity{Type: strings.ToUpper(p.Value)}
			continue
		}
		if cur != nil {
			cur.Pairs = append(cur.Pairs, p)
		}
	}
	flush(cur)
	if polyline != nil {
		out = append(out, *polyline)
	}
	return out
}
