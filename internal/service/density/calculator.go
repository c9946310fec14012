package density

import (
	"context"
	"math"

	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
)

// Filter selects the programs and school years taken into account.
// An empty Years list means every year.
type Filter struct {
	Programs []string      `json:"programs" validate:"dive,required"`
	Years    []domain.Year `json:"years" validate:"dive,required"`
}

// Snapshot maps zone keys to their current density.
type Snapshot map[string]float64

type Calculator struct {
	params Params
}

func NewCalculator(params Params) *Calculator {
	return &Calculator{params: params}
}

// Recompute rewrites the aggregate fields of every zone of g for the given
// filter. No other graph field is touched and calling it twice with the same
// input gives the same result.
func (c *Calculator) Recompute(ctx context.Context, g *domain.Graph, f Filter) Snapshot {
	for _, z := range g.Zones {
		z.ResetAggregates(c.params.Floor)
	}

	current := c.currentCentres(ctx, g, f)
	for _, centre := range current {
		for _, category := range domain.ZoneCategories {
			if z := g.ZoneOf(centre, category); z != nil {
				countParticipation(z, centre)
			}
		}
	}

	maxDensity := make(map[domain.ZoneCategory]float64, len(domain.ZoneCategories))
	for _, z := range g.Zones {
		base := z.BaseTotal()
		if base <= 0 {
			continue
		}
		ratio := float64(z.PartTotal()) / float64(base)
		z.Density = math.Max(c.params.Floor, ratio)
		if ratio > 0 && z.Density > maxDensity[z.Category] {
			maxDensity[z.Category] = z.Density
		}
	}

	for _, category := range domain.ZoneCategories {
		c.rescale(g.ZoneList, category, maxDensity[category])
	}

	logger.Debugf(ctx, "densities recomputed for %d programs, %d centres participating", len(f.Programs), len(current))

	return TakeSnapshot(g)
}

// currentCentres sets the eligible base of every zone for the selected
// programs and returns the centres enrolled in them during the selected years.
func (c *Calculator) currentCentres(ctx context.Context, g *domain.Graph, f Filter) map[string]*domain.Centre {
	var years map[domain.Year]bool
	if len(f.Years) > 0 {
		years = make(map[domain.Year]bool, len(f.Years))
		for _, y := range f.Years {
			years[y] = true
		}
	}

	current := make(map[string]*domain.Centre)
	seen := make(map[string]bool, len(f.Programs))
	for _, id := range f.Programs {
		if seen[id] {
			continue
		}
		seen[id] = true

		p, ok := g.Programs[id]
		if !ok {
			logger.Debugf(ctx, "selected program %s does not exist", id)
			continue
		}
		if len(p.Levels) == 0 || !p.HasCentres() {
			continue
		}

		for _, z := range g.Zones {
			for _, level := range p.Levels {
				if n := z.EligibleGroups[level]; n > 0 {
					z.EstudisBase[level] = n
				}
			}
		}

		for year, centres := range p.Centres {
			if years != nil && !years[year] {
				continue
			}
			for _, centre := range centres {
				current[centre.ID] = centre
			}
		}
	}
	return current
}

// countParticipation adds one school group per level the centre offers and
// the zone counts in its base.
func countParticipation(z *domain.Zone, centre *domain.Centre) {
	counted := make(map[string]bool, len(centre.Levels))
	for _, level := range centre.Levels {
		if counted[level] {
			continue
		}
		if _, ok := z.EstudisBase[level]; !ok {
			continue
		}
		counted[level] = true
		z.EstudisPart[level]++
	}
	if len(counted) > 0 {
		z.CentresPart[centre.ID] = struct{}{}
	}
}

// rescale applies the factor of one category to all of its zones.
func (c *Calculator) rescale(zones []*domain.Zone, category domain.ZoneCategory, max float64) {
	factor := c.params.Factor(max)
	if factor == 1 {
		return
	}
	for _, z := range zones {
		if z.Category != category {
			continue
		}
		z.Density = math.Max(c.params.Floor, z.Density*factor)
	}
}

func TakeSnapshot(g *domain.Graph) Snapshot {
	s := make(Snapshot, len(g.Zones))
	for key, z := range g.Zones {
		s[key] = z.Density
	}
	return s
}
