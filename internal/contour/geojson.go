package contour

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders s as one MultiLineString feature per level with a
// "level" property, in level order.
func (s Set) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, c := range s {
		mls := make(orb.MultiLineString, len(c.Lines))
		copy(mls, c.Lines)
		f := geojson.NewFeature(mls)
		f.Properties["level"] = c.Level
		fc.Append(f)
	}
	return fc
}
