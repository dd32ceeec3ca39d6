package pointcloud

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chenzhekl/goply"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// NewFromFile returns a point cloud read in from the given file.
func NewFromFile(fn string, logger golog.Logger) (PointCloud, error) {
	switch filepath.Ext(fn) {
	case ".ply":
		return NewFromPLYFile(fn, logger)
	case ".pcd":
		return NewFromPCDFile(fn, logger)
	default:
		return nil, errors.Errorf("do not know how to read file %q", fn)
	}
}

// NewFromPLYFile returns a point cloud read from the vertex element of a PLY
// file.
func NewFromPLYFile(fn string, logger golog.Logger) (_ PointCloud, err error) {
	f, err := os.Open(filepath.Clean(fn))
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return ReadPLY(f)
}

// ReadPLY parses a PLY stream into a point cloud.
func ReadPLY(in io.Reader) (PointCloud, error) {
	ply := goply.New(in)
	vertices := ply.Elements("vertex")
	cloud := NewWithPrealloc(len(vertices))
	for i, v := range vertices {
		x, xOk := plyFloat(v["x"])
		y, yOk := plyFloat(v["y"])
		z, zOk := plyFloat(v["z"])
		if !xOk || !yOk || !zOk {
			return nil, errors.Errorf("vertex %d is missing an x, y, or z property", i)
		}
		cloud.Add(r3.Vector{X: x, Y: y, Z: z})
	}
	return cloud, nil
}

func plyFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// NewFromPCDFile returns a point cloud read from an ASCII PCD file.
func NewFromPCDFile(fn string, logger golog.Logger) (_ PointCloud, err error) {
	f, err := os.Open(filepath.Clean(fn))
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return ReadPCD(f)
}

// pcdHeader carries the header fields needed to locate the x, y, and z
// columns of a PCD stream.
type pcdHeader struct {
	fields []string
	points int
	data   string
}

func parsePCDHeader(in *bufio.Reader) (pcdHeader, error) {
	var header pcdHeader
	for {
		line, err := in.ReadString('\n')
		if err != nil {
			return header, errors.Wrap(err, "truncated pcd header")
		}
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case "FIELDS":
			header.fields = tokens[1:]
		case "POINTS":
			n, err := strconv.Atoi(tokens[1])
			if err != nil || n < 0 {
				return header, errors.Errorf("invalid POINTS value %q", tokens[1])
			}
			header.points = n
		case "DATA":
			if len(tokens) < 2 {
				return header, errors.New("DATA line is missing its format")
			}
			header.data = tokens[1]
			return header, nil
		}
	}
}

// ReadPCD parses an ASCII PCD stream into a point cloud. Binary and
// compressed PCD data are not supported.
func ReadPCD(inRaw io.Reader) (PointCloud, error) {
	in := bufio.NewReader(inRaw)
	header, err := parsePCDHeader(in)
	if err != nil {
		return nil, err
	}
	if header.data != "ascii" {
		return nil, errors.Errorf("unsupported pcd data format %q", header.data)
	}
	xi, yi, zi := -1, -1, -1
	for i, f := range header.fields {
		switch f {
		case "x":
			xi = i
		case "y":
			yi = i
		case "z":
			zi = i
		}
	}
	if xi < 0 || yi < 0 || zi < 0 {
		return nil, errors.Errorf("pcd fields %v are missing x, y, or z", header.fields)
	}

	cloud := NewWithPrealloc(header.points)
	for i := 0; i < header.points; i++ {
		line, err := in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, errors.Wrapf(err, "pcd data ended after %d of %d points", i, header.points)
		}
		tokens := strings.Fields(line)
		if len(tokens) < len(header.fields) {
			return nil, errors.Errorf("pcd data line %d has %d of %d fields", i, len(tokens), len(header.fields))
		}
		x, xErr := strconv.ParseFloat(tokens[xi], 64)
		y, yErr := strconv.ParseFloat(tokens[yi], 64)
		z, zErr := strconv.ParseFloat(tokens[zi], 64)
		if err := multierr.Combine(xErr, yErr, zErr); err != nil {
			return nil, errors.Wrapf(err, "pcd data line %d", i)
		}
		cloud.Add(r3.Vector{X: x, Y: y, Z: z})
	}
	return cloud, nil
}
