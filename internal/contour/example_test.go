package contour_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"isomap/internal/contour"
	"isomap/internal/grid"
)

func ExampleExtract() {
	g, _ := grid.NewLatLon([]float64{
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	}, 3, 3, orb.Bound{Max: orb.Point{2, 2}})

	set, err := contour.Extract(g, contour.Options{Levels: []float64{0.5}})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, c := range set {
		for _, l := range c.Lines {
			fmt.Println(c.Level, l.Bound().Min, l.Bound().Max, len(l))
		}
	}
	// Output:
	// 0.5 [0.5 0.5] [1.5 1.5] 5
}
