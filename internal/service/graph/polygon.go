package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
)

const (
	pointSeparator = ","
	axisSeparator  = "|"
)

// ParseRing parses "a|b,c|d,..." into [[a b] [c d] ...]. The axis order of
// the source is kept as is.
func ParseRing(raw string) (domain.Ring, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty ring", constants.ErrMalformedPolygon)
	}

	groups := strings.Split(raw, pointSeparator)
	ring := make(domain.Ring, 0, len(groups))
	for i, group := range groups {
		axes := strings.Split(group, axisSeparator)
		if len(axes) != 2 {
			return nil, fmt.Errorf("%w: point %d %q is not a pair", constants.ErrMalformedPolygon, i, group)
		}

		var pt domain.Point
		for n, axis := range axes {
			v, err := strconv.ParseFloat(strings.TrimSpace(axis), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: point %d %q has a bad coordinate", constants.ErrMalformedPolygon, i, group)
			}
			pt[n] = v
		}
		ring = append(ring, pt)
	}

	return ring, nil
}

func ParseRings(raws []string) ([]domain.Ring, error) {
	rings := make([]domain.Ring, 0, len(raws))
	for i, raw := range raws {
		ring, err := ParseRing(raw)
		if err != nil {
			return nil, fmt.Errorf("ring %d: %w", i, err)
		}
		rings = append(rings, ring)
	}
	return rings, nil
}
