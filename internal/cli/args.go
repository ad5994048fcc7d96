package cli

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/nodecanvas/pkg/errors"
	"github.com/matzehuels/nodecanvas/pkg/geom"
)

// parseFloats splits a comma-separated list of exactly n finite numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expected %d comma-separated numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not a finite number", p)
		}
		out[i] = v
	}
	return out, nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (geom.WorldPosition, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return geom.WorldPosition{}, err
	}
	return geom.Pt[geom.World](v[0], v[1]), nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (geom.WorldRect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return geom.WorldRect{}, err
	}
	if v[2] < 0 || v[3] < 0 {
		return geom.WorldRect{}, errors.New(errors.ErrCodeInvalidInput, "rect %q has negative size", s)
	}
	return geom.RectFromLTWH[geom.World](v[0], v[1], v[2], v[3]), nil
}
