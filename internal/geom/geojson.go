package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a FeatureCollection, a Feature or a bare geometry.
// Feature properties become attribute rows, columns in first-seen order.
func LoadGeoJSON(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON is LoadGeoJSON on in-memory data.
func ParseGeoJSON(data []byte) (*Overlay, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}

	o := &Overlay{}
	var features []*geojson.Feature
	switch probe.Type {
	case "":
		return nil, errors.New("geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		features = fc.Features
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		features = []*geojson.Feature{f}
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("geojson: %w", err)
		}
		o.Add(g.Geometry())
	}

	seen := map[string]bool{}
	for _, f := range features {
		if f.Geometry != nil {
			o.Add(f.Geometry)
		}
		keys := make([]string, 0, len(f.Properties))
		for k := range f.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				o.Columns = append(o.Columns, k)
			}
		}
	}
	if len(o.Columns) > 0 {
		for _, f := range features {
			row := make([]string, len(o.Columns))
			for k, col := range o.Columns {
				row[k] = formatProperty(f.Properties[col])
			}
			o.Rows = append(o.Rows, row)
		}
	}

	if o.Empty() {
		return nil, errors.New("geojson: no geometries found")
	}
	return o, nil
}

func formatProperty(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
