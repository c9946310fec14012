package density

import (
	"context"
	"math"
	"testing"

	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/service/graph"
	"github.com/ougirez/mapa-innovacio/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, ds *dto.Datasets) *domain.Graph {
	t.Helper()
	g, err := graph.Build(context.Background(), ds, graph.DefaultOptions())
	require.NoError(t, err)
	return g
}

func allPrograms(g *domain.Graph) []string {
	ids := make([]string, 0, len(g.ProgramList))
	for _, p := range g.ProgramList {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestParams_Factor(t *testing.T) {
	p := DefaultParams()
	for _, tc := range []struct {
		max    float64
		factor float64
	}{
		{max: 0, factor: 1},
		{max: 0.2, factor: 2},
		{max: 0.4, factor: 1},
		{max: 0.6, factor: 1},
		{max: 0.8, factor: 1},
		{max: 1, factor: 0.8},
	} {
		assert.InDelta(t, tc.factor, p.Factor(tc.max), 1e-12, "max %v", tc.max)
	}
}

func TestRecompute_AllProgramsAllYears(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	calc := NewCalculator(DefaultParams())

	snap := calc.Recompute(context.Background(), g, Filter{Programs: allPrograms(g)})

	st1, st2 := g.Zones["ST1"], g.Zones["ST2"]
	assert.Equal(t, map[string]int{"EPRI": 1, "ESO": 1}, st1.EstudisBase)
	assert.Equal(t, map[string]int{"EPRI": 1, "ESO": 1}, st1.EstudisPart)
	assert.Equal(t, map[string]int{"EPRI": 2, "ESO": 1}, st2.EstudisBase)
	assert.Equal(t, map[string]int{"EPRI": 1, "ESO": 1}, st2.EstudisPart)
	assert.Len(t, st1.CentresPart, 2)
	assert.Contains(t, st2.CentresPart, "c3")
	assert.NotContains(t, st2.CentresPart, "c4")

	// Raw ratios 1 and 2/3; the maximum exceeds the ceiling and is compressed to 0.8.
	assert.InDelta(t, 0.8, snap["ST1"], 1e-12)
	assert.InDelta(t, 2.0/3.0*0.8, snap["ST2"], 1e-12)
	assert.InDelta(t, 0.8, snap["SEZ1"], 1e-12)
	assert.InDelta(t, 2.0/3.0*0.8, snap["SEZ2"], 1e-12)
}

func TestRecompute_CorridorStretch(t *testing.T) {
	ds := &dto.Datasets{
		Programs: []*dto.ProgramDto{{ID: "P", Nom: "Programa", Tipus: []string{"EPRI"}}},
		Zones: []*dto.ZoneDto{
			{Key: "Z", Nom: "Zona", Tipus: "ST", Poligons: []string{"1|2,3|4"}, Centres: map[string]int{"EPRI": 10}},
		},
	}
	for _, id := range []string{"a", "b", "c"} {
		ds.Centres = append(ds.Centres, &dto.CentreDto{ID: id, Nom: "Escola " + id, Estudis: []string{"EPRI"}, SSTT: "Z"})
		ds.Instances = append(ds.Instances, &dto.InstanceDto{Programa: "P", Centre: id, Curs: "2021"})
	}
	g := buildGraph(t, ds)

	snap := NewCalculator(DefaultParams()).Recompute(context.Background(), g, Filter{Programs: []string{"P"}})

	z := g.Zones["Z"]
	assert.Equal(t, map[string]int{"EPRI": 10}, z.EstudisBase)
	assert.Equal(t, map[string]int{"EPRI": 3}, z.EstudisPart)
	assert.InDelta(t, 0.4, snap["Z"], 1e-12, "0.3 stretched to the corridor")
}

func TestRecompute_YearFilter(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	calc := NewCalculator(DefaultParams())

	snap := calc.Recompute(context.Background(), g, Filter{Programs: []string{"p1"}, Years: []domain.Year{testutil.Year1}})

	// c2 only joined in the second year.
	assert.NotContains(t, g.Zones["ST1"].CentresPart, "c2")
	assert.InDelta(t, 0.5, snap["ST1"], 1e-12)
	assert.InDelta(t, 2.0/3.0, snap["ST2"], 1e-12, "maximum already inside the corridor")
}

func TestRecompute_NothingSelected(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	params := DefaultParams()
	calc := NewCalculator(params)

	for _, f := range []Filter{
		{},
		{Programs: []string{"p3"}},
		{Programs: []string{"unknown"}},
		{Programs: []string{"p1"}, Years: []domain.Year{"1999-2000"}},
	} {
		snap := calc.Recompute(context.Background(), g, f)
		for key, d := range snap {
			assert.Equal(t, params.Floor, d, "zone %s with filter %+v", key, f)
		}
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	calc := NewCalculator(DefaultParams())
	f := Filter{Programs: allPrograms(g)}

	d1 := calc.Recompute(context.Background(), g, f)
	base1 := g.Zones["ST2"].EstudisBase
	d2 := calc.Recompute(context.Background(), g, f)

	assert.Equal(t, d1, d2)
	assert.Equal(t, base1, g.Zones["ST2"].EstudisBase)

	// Switching filters and back gives the same state again.
	calc.Recompute(context.Background(), g, Filter{Programs: []string{"p2"}})
	assert.Equal(t, d1, calc.Recompute(context.Background(), g, f))
}

func TestRecompute_DuplicateSelectionCountsOnce(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	calc := NewCalculator(DefaultParams())

	once := calc.Recompute(context.Background(), g, Filter{Programs: []string{"p1", "p2"}})
	twice := calc.Recompute(context.Background(), g, Filter{Programs: []string{"p1", "p2", "p1"}})
	assert.Equal(t, once, twice)
}

func TestRecompute_Bounds(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	params := DefaultParams()
	calc := NewCalculator(params)

	filters := []Filter{
		{Programs: allPrograms(g)},
		{Programs: []string{"p1"}},
		{Programs: []string{"p2"}},
		{Programs: []string{"p1"}, Years: []domain.Year{testutil.Year2}},
	}
	for _, f := range filters {
		snap := calc.Recompute(context.Background(), g, f)

		maxByCategory := map[domain.ZoneCategory]float64{}
		for key, d := range snap {
			assert.False(t, math.IsNaN(d), key)
			assert.GreaterOrEqual(t, d, params.Floor, key)
			if d > maxByCategory[g.Zones[key].Category] {
				maxByCategory[g.Zones[key].Category] = d
			}
		}
		for category, max := range maxByCategory {
			assert.LessOrEqual(t, max, params.Ceiling+1e-12, "%s with %+v", category, f)
		}
	}
}

func TestRecompute_TouchesOnlyAggregates(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	st1 := g.Zones["ST1"]
	centres, programs, eligible := len(st1.Centres), len(st1.Programs), st1.EligibleGroups["EPRI"]

	NewCalculator(DefaultParams()).Recompute(context.Background(), g, Filter{Programs: allPrograms(g)})

	assert.Len(t, st1.Centres, centres)
	assert.Len(t, st1.Programs, programs)
	assert.Equal(t, eligible, st1.EligibleGroups["EPRI"])
	assert.Len(t, g.Programs["p1"].AllCentres, 3)
}

func TestSummarize(t *testing.T) {
	g := buildGraph(t, testutil.Datasets())
	NewCalculator(DefaultParams()).Recompute(context.Background(), g, Filter{Programs: allPrograms(g)})

	s := Summarize(g.Zones["ST2"])
	assert.Equal(t, "Tarragona", s.Name)
	assert.Equal(t, "Serveis Territorials", s.CategoryName)
	assert.Equal(t, 1, s.CentresPart)
	assert.Equal(t, 2, s.EstudisPart)
	assert.Equal(t, 3, s.EstudisBase)
	assert.True(t, s.Percent.Equal(decimal.RequireFromString("66.7")), s.Percent.String())

	empty := Summarize(&domain.Zone{Key: "Z"})
	assert.True(t, empty.Percent.IsZero())
	assert.Empty(t, empty.CategoryName)
}
