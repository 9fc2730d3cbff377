package geom

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
)

// ParseWKT parses one WKT geometry per non-empty line.
func ParseWKT(s string) (*Overlay, error) {
	o := &Overlay{}
	sc := bufio.NewScanner(strings.NewReader(s))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		g, err := wkt.Unmarshal(line)
		if err != nil {
			return nil, fmt.Errorf("wkt line %d: %w", n, err)
		}
		o.Add(g)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if o.Empty() {
		return nil, errors.New("wkt: no geometries parsed")
	}
	return o, nil
}

// LoadWKT reads a WKT file.
func LoadWKT(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWKT(string(data))
}
