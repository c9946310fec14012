package atlas

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/service/density"
	"github.com/ougirez/mapa-innovacio/internal/service/loader"
	"github.com/ougirez/mapa-innovacio/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns the queued results in order, repeating the last.
type scriptedFetcher struct {
	mu      sync.Mutex
	results []func() (*dto.Datasets, error)
}

func (f *scriptedFetcher) Fetch(context.Context) (*dto.Datasets, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return next()
}

func fixture() (*dto.Datasets, error) {
	return testutil.Datasets(), nil
}

func loadedService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(FetcherFunc(func(context.Context) (*dto.Datasets, error) { return fixture() }), DefaultOptions())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestService_NotLoaded(t *testing.T) {
	svc := NewService(FetcherFunc(func(context.Context) (*dto.Datasets, error) { return fixture() }), DefaultOptions())

	_, err := svc.Program("p1")
	assert.ErrorIs(t, err, constants.ErrNotLoaded)
	_, err = svc.Zones("")
	assert.ErrorIs(t, err, constants.ErrNotLoaded)
	_, _, err = svc.Densities()
	assert.ErrorIs(t, err, constants.ErrNotLoaded)
	_, err = svc.SearchCentres("olot", 0)
	assert.ErrorIs(t, err, constants.ErrNotLoaded)
	_, err = svc.Recompute(context.Background(), density.Filter{})
	assert.ErrorIs(t, err, constants.ErrNotLoaded)

	assert.False(t, svc.Status().Loaded)
}

func TestService_LoadSelectsEverything(t *testing.T) {
	svc := loadedService(t)

	st := svc.Status()
	assert.True(t, st.Loaded)
	assert.NotEmpty(t, st.LoadID)
	assert.Equal(t, 3, st.Programs)
	assert.Equal(t, 4, st.Centres)
	assert.Equal(t, 4, st.Zones)
	assert.Equal(t, []domain.Year{testutil.Year1, testutil.Year2}, st.Years)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, st.Filter.Programs)
	assert.Empty(t, st.Filter.Years)

	snap, _, err := svc.Densities()
	require.NoError(t, err)
	assert.InDelta(t, 0.8, snap["ST1"], 1e-12)
}

func TestService_Recompute(t *testing.T) {
	svc := loadedService(t)

	snap, err := svc.Recompute(context.Background(), density.Filter{Programs: []string{"p1"}, Years: []domain.Year{testutil.Year1}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, snap["ST1"], 1e-12)

	// The returned snapshot is a copy.
	snap["ST1"] = 42
	current, f, err := svc.Densities()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, current["ST1"], 1e-12)
	assert.Equal(t, []string{"p1"}, f.Programs)

	z, err := svc.Zone("ST1")
	require.NoError(t, err)
	assert.True(t, z.Percent.Equal(decimal.NewFromInt(50)), z.Percent.String())
	assert.Len(t, z.Rings, 1)
}

func TestService_FailedLoadKeepsPreviousState(t *testing.T) {
	boom := errors.New("upstream down")
	fetcher := &scriptedFetcher{results: []func() (*dto.Datasets, error){
		fixture,
		func() (*dto.Datasets, error) { return nil, boom },
		func() (*dto.Datasets, error) {
			ds := testutil.Datasets()
			ds.Zones[0].Poligons = []string{"broken"}
			return ds, nil
		},
	}}
	svc := NewService(fetcher, DefaultOptions())
	require.NoError(t, svc.Load(context.Background()))
	before := svc.Status()

	err := svc.Load(context.Background())
	require.ErrorIs(t, err, constants.ErrLoadFailed)
	require.ErrorIs(t, err, boom)

	err = svc.Load(context.Background())
	require.ErrorIs(t, err, constants.ErrMalformedPolygon)

	after := svc.Status()
	assert.Equal(t, before.LoadID, after.LoadID)
	assert.Contains(t, after.LastError, "malformed polygon")

	p, err := svc.Program("p1")
	require.NoError(t, err)
	assert.Equal(t, "Robòtica", p.Name)
}

func TestService_InvalidZoneFailsTheLoad(t *testing.T) {
	src := testutil.Datasets()
	src.Zones[0].Tipus = "XX"
	svc := NewService(loader.New(loader.NewFileSource(testutil.WriteDatasets(t, src))), DefaultOptions())

	err := svc.Load(context.Background())
	require.ErrorIs(t, err, constants.ErrInvalidDataset)
	assert.False(t, svc.Status().Loaded)

	_, err = svc.Zone("ST1")
	assert.ErrorIs(t, err, constants.ErrNotLoaded)
}

func TestService_ReloadReplacesEverything(t *testing.T) {
	fetcher := &scriptedFetcher{results: []func() (*dto.Datasets, error){
		fixture,
		func() (*dto.Datasets, error) {
			ds := testutil.Datasets()
			ds.Programs = ds.Programs[:1]
			return ds, nil
		},
	}}
	svc := NewService(fetcher, DefaultOptions())
	require.NoError(t, svc.Load(context.Background()))
	first := svc.Status().LoadID

	_, err := svc.Recompute(context.Background(), density.Filter{Programs: []string{"p2"}})
	require.NoError(t, err)
	require.NoError(t, svc.Load(context.Background()))

	st := svc.Status()
	assert.NotEqual(t, first, st.LoadID)
	assert.Equal(t, 1, st.Programs)
	assert.Equal(t, []string{"p1"}, st.Filter.Programs)
	assert.Empty(t, st.LastError)

	_, err = svc.Program("p2")
	assert.ErrorIs(t, err, constants.ErrNotFound)
}

func TestService_ProgramCentres(t *testing.T) {
	svc := loadedService(t)

	all, err := svc.ProgramCentres("p1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c3", all[0].ID)
	for _, c := range all {
		assert.False(t, c.NotCertified)
	}

	year2, err := svc.ProgramCentres("p1", testutil.Year2)
	require.NoError(t, err)
	assert.Equal(t, []CentreRef{
		{ID: "c1", Name: "Escola Montessori", Municipality: "Olot", Title: "Robots / Robots 2"},
		{ID: "c2", Name: "Institut Bosc", Municipality: "Olot", Title: "Drons", NotCertified: true},
	}, year2)

	progs, err := svc.CentrePrograms("c3", testutil.Year2)
	require.NoError(t, err)
	assert.Equal(t, []ProgramRef{{ID: "p2", Name: "Cantània", NotCertified: true}}, progs)

	_, err = svc.ProgramCentres("nope", "")
	assert.ErrorIs(t, err, constants.ErrNotFound)
}

func TestService_ZonesAndSearch(t *testing.T) {
	svc := loadedService(t)

	st, err := svc.Zones(domain.ZoneCategoryTerritorial)
	require.NoError(t, err)
	require.Len(t, st, 2)
	assert.Equal(t, "ST1", st[0].Key)

	all, err := svc.Zones("")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	_, err = svc.Zones("XX")
	assert.ErrorIs(t, err, constants.ErrBadRequest)

	res, err := svc.SearchCentres("olot", 0)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "c1", res[0].ID)

	res, err = svc.SearchPrograms("robotica", 1)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "p1", res[0].ID)
}

func TestService_ConcurrentReadersAndRecompute(t *testing.T) {
	svc := loadedService(t)
	filters := []density.Filter{
		{Programs: []string{"p1"}},
		{Programs: []string{"p2"}, Years: []domain.Year{testutil.Year2}},
		{Programs: []string{"p1", "p2", "p3"}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Recompute(context.Background(), filters[i%len(filters)])
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			zones, err := svc.Zones("")
			assert.NoError(t, err)
			for _, z := range zones {
				assert.GreaterOrEqual(t, z.Density, DefaultOptions().Density.Floor)
			}
		}()
	}
	wg.Wait()
}
