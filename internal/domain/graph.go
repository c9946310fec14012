package domain

import "sort"

// Lookups are static code -> display name tables, used only for labels.
type Lookups struct {
	Levels     map[string]string `json:"estudis"`
	AmbitsCurr map[string]string `json:"ambitsCurr"`
	AmbitsInn  map[string]string `json:"ambitsInn"`
	Years      []Year            `json:"cursos"`
}

func (l *Lookups) LevelName(code string) string {
	return lookup(l.Levels, code)
}

func (l *Lookups) AmbitCurrName(code string) string {
	return lookup(l.AmbitsCurr, code)
}

func (l *Lookups) AmbitInnName(code string) string {
	return lookup(l.AmbitsInn, code)
}

func lookup(m map[string]string, code string) string {
	if name, ok := m[code]; ok && name != "" {
		return name
	}
	return code
}

// Graph is the cross-referenced result of one dataset load.
type Graph struct {
	Programs map[string]*Program
	Centres  map[string]*Centre
	Zones    map[string]*Zone

	// Lists are sorted by display name (zones by category, then name).
	ProgramList []*Program
	CentreList  []*Centre
	ZoneList    []*Zone

	Lookups *Lookups
}

func (g *Graph) ZonesByCategory(category ZoneCategory) []*Zone {
	res := make([]*Zone, 0, len(g.ZoneList))
	for _, z := range g.ZoneList {
		if z.Category == category {
			res = append(res, z)
		}
	}
	return res
}

// ZoneOf returns the zone the centre belongs to in the given category, or nil.
func (g *Graph) ZoneOf(c *Centre, category ZoneCategory) *Zone {
	key := c.ZoneKey(category)
	if key == "" {
		return nil
	}
	z, ok := g.Zones[key]
	if !ok || z.Category != category {
		return nil
	}
	return z
}

func sortedYears[T any](m map[Year][]T) []Year {
	years := make([]Year, 0, len(m))
	for y, items := range m {
		if len(items) > 0 {
			years = append(years, y)
		}
	}
	sort.Strings(years)
	return years
}
