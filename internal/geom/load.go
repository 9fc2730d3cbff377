package geom

import (
	"path/filepath"
	"strings"
)

// Extensions lists the overlay file extensions Load understands.
var Extensions = []string{".geojson", ".json", ".csv", ".wkt"}

// Supported reports whether Load understands path's extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads an overlay, choosing the format by extension.
func Load(path string) (*Overlay, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".wkt":
		return LoadWKT(path)
	}
	return nil, &UnsupportedError{Path: path}
}

// UnsupportedError reports a file Load cannot read.
type UnsupportedError struct {
	Path string
}

func (e *UnsupportedError) Error() string {
	return "unsupported file: " + filepath.Ext(e.Path)
}
