package tsplib

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/lktsp/datastore"
)

// Instance is a parsed TSPLIB file, before its cities have been bound to
// a Metric and assembled into a DataStore.
type Instance struct {
	Name           string
	Comment        string
	Type           string
	Dimension      int
	EdgeWeightType string
	Cities         []datastore.City
}

// Metric resolves EdgeWeightType to a datastore.Metric. An empty
// EdgeWeightType is treated as EUC_2D, the overwhelmingly common default
// for files that omit it.
func (inst *Instance) Metric() (datastore.Metric, error) {
	switch inst.EdgeWeightType {
	case "EUC_2D", "":
		return datastore.EuclideanTSPLIB{}, nil
	case "GEO":
		return datastore.Geo{}, nil
	case "ATT":
		return datastore.ATT{}, nil
	default:
		return nil, ErrUnsupportedEdgeWeightType
	}
}

// DataStore resolves the instance's metric and builds a DataStore from
// its cities.
func (inst *Instance) DataStore() (*datastore.DataStore, error) {
	metric, err := inst.Metric()
	if err != nil {
		return nil, err
	}
	return datastore.New(inst.Cities, metric)
}

// Load parses r as a TSPLIB file and builds a DataStore directly.
func Load(r io.Reader) (*datastore.DataStore, error) {
	inst, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return inst.DataStore()
}

// Parse reads a TSPLIB file into an Instance. It does not resolve the
// edge-weight type or build a DataStore — callers that want both in one
// step should use Load.
func Parse(r io.Reader) (*Instance, error) {
	inst := &Instance{}
	var cities []datastore.City

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNo := 0
	inNodeCoord := false
	skipping := false

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "EOF" {
			break
		}

		if inNodeCoord {
			if isSectionHeader(line) {
				inNodeCoord = false
			} else {
				city, err := parseCoordLine(line, lineNo)
				if err != nil {
					return nil, err
				}
				cities = append(cities, city)
				continue
			}
		}

		if skipping {
			if isSectionHeader(line) {
				skipping = false
			} else {
				continue
			}
		}

		if line == "NODE_COORD_SECTION" {
			inNodeCoord = true
			continue
		}
		if isSectionHeader(line) {
			skipping = true
			continue
		}

		key, val, ok := splitHeader(line)
		if !ok {
			return nil, &ParseError{Line: lineNo, Msg: "unrecognized line: " + line}
		}
		switch key {
		case "NAME":
			inst.Name = val
		case "COMMENT":
			inst.Comment = val
		case "TYPE":
			inst.Type = val
		case "DIMENSION":
			d, err := strconv.Atoi(val)
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: "bad DIMENSION: " + val}
			}
			inst.Dimension = d
		case "EDGE_WEIGHT_TYPE":
			inst.EdgeWeightType = val
		default:
			// Unrecognized header key; TSPLIB has several we don't need
			// (EDGE_WEIGHT_FORMAT, NODE_COORD_TYPE, DISPLAY_DATA_TYPE, ...).
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(cities) == 0 {
		return nil, ErrNoCoordinates
	}
	if inst.Dimension > 0 && inst.Dimension != len(cities) {
		return nil, ErrDimensionMismatch
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].ID < cities[j].ID })
	inst.Cities = cities
	return inst, nil
}

// isSectionHeader reports whether line looks like a bare TSPLIB section
// keyword (e.g. NODE_COORD_SECTION, EDGE_WEIGHT_SECTION) rather than a
// "KEY : value" header line or a data line.
func isSectionHeader(line string) bool {
	if strings.Contains(line, ":") {
		return false
	}
	for _, r := range line {
		if r == '_' || (r >= 'A' && r <= 'Z') {
			continue
		}
		return false
	}
	return true
}

func splitHeader(line string) (key, val string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

// parseCoordLine parses a "id x y" NODE_COORD_SECTION line. TSPLIB ids
// are 1-based; the returned City uses the 0-based id = id-1.
func parseCoordLine(line string, lineNo int) (datastore.City, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return datastore.City{}, &ParseError{Line: lineNo, Msg: "expected 'id x y', got: " + line}
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return datastore.City{}, &ParseError{Line: lineNo, Msg: "bad node id: " + fields[0]}
	}
	x, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return datastore.City{}, &ParseError{Line: lineNo, Msg: "bad x coordinate: " + fields[1]}
	}
	y, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return datastore.City{}, &ParseError{Line: lineNo, Msg: "bad y coordinate: " + fields[2]}
	}
	return datastore.City{ID: id - 1, X: x, Y: y}, nil
}
