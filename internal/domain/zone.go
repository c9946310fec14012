package domain

// Point keeps the axis order of the source dataset.
type Point = [2]float64

type Ring = []Point

type Zone struct {
	Key      string       `json:"key"`
	Name     string       `json:"nom"`
	Category ZoneCategory `json:"tipus"`
	Rings    []Ring       `json:"poligons"`

	Centres  []*Centre  `json:"-"`
	Programs []*Program `json:"-"`

	// EligibleGroups counts, per educational level, the school groups of the zone.
	EligibleGroups map[string]int `json:"-"`

	// Aggregates below are the only fields mutated after the graph is built.
	EstudisBase map[string]int      `json:"estudisBase"`
	EstudisPart map[string]int      `json:"estudisPart"`
	CentresPart map[string]struct{} `json:"-"`
	Density     float64             `json:"density"`
}

// ResetAggregates clears the participation aggregates and sets density to floor.
func (z *Zone) ResetAggregates(floor float64) {
	z.EstudisBase = make(map[string]int)
	z.EstudisPart = make(map[string]int)
	z.CentresPart = make(map[string]struct{})
	z.Density = floor
}

func (z *Zone) BaseTotal() int {
	return sumValues(z.EstudisBase)
}

func (z *Zone) PartTotal() int {
	return sumValues(z.EstudisPart)
}

func sumValues(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
