package atlas

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
	"github.com/ougirez/mapa-innovacio/internal/service/density"
	"github.com/ougirez/mapa-innovacio/internal/service/graph"
	"github.com/ougirez/mapa-innovacio/internal/service/search"
)

type Fetcher interface {
	Fetch(ctx context.Context) (*dto.Datasets, error)
}

type FetcherFunc func(ctx context.Context) (*dto.Datasets, error)

func (f FetcherFunc) Fetch(ctx context.Context) (*dto.Datasets, error) {
	return f(ctx)
}

type Options struct {
	Graph   graph.Options
	Density density.Params
	Search  search.Options
}

func DefaultOptions() Options {
	return Options{
		Graph:   graph.DefaultOptions(),
		Density: density.DefaultParams(),
		Search:  search.DefaultOptions(),
	}
}

func OptionsFromViper() Options {
	return Options{
		Graph:   graph.OptionsFromViper(),
		Density: density.ParamsFromViper(),
		Search:  search.OptionsFromViper(),
	}
}

// state is everything one successful load produced. Only the zone
// aggregates, densities and filter change after the swap, and only under
// the write lock.
type state struct {
	id        uuid.UUID
	loadedAt  time.Time
	graph     *domain.Graph
	indices   *search.Indices
	densities density.Snapshot
	filter    density.Filter
}

// Service holds the last good load. Readers never see a half-built graph or
// a recompute in progress.
type Service struct {
	fetcher    Fetcher
	graphOpts  graph.Options
	searchOpts search.Options
	calc       *density.Calculator

	// loadMu serializes loads, mu guards the state.
	loadMu  sync.Mutex
	mu      sync.RWMutex
	state   *state
	lastErr error
}

func NewService(fetcher Fetcher, opts Options) *Service {
	return &Service{
		fetcher:    fetcher,
		graphOpts:  opts.Graph,
		searchOpts: opts.Search,
		calc:       density.NewCalculator(opts.Density),
	}
}

// Load fetches and rebuilds everything on fresh objects, then swaps them in.
// On failure the previous state stays in place and keeps being served.
func (s *Service) Load(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	id := uuid.New()
	ctx = logger.WithContext(ctx, "load_id", id.String())

	next, err := s.build(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		logger.Errorf(ctx, "load failed, keeping previous state: %s", err.Error())
		return fmt.Errorf("%w: %w", constants.ErrLoadFailed, err)
	}

	s.state = next
	s.lastErr = nil
	logger.Infof(ctx, "load complete")
	return nil
}

func (s *Service) build(ctx context.Context, id uuid.UUID) (*state, error) {
	ds, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	g, err := graph.Build(ctx, ds, s.graphOpts)
	if err != nil {
		return nil, fmt.Errorf("graph.Build: %w", err)
	}

	next := &state{
		id:       id,
		loadedAt: time.Now(),
		graph:    g,
		indices:  search.Build(g, g.Lookups, s.searchOpts),
		filter:   defaultFilter(g),
	}
	next.densities = s.calc.Recompute(ctx, g, next.filter)
	return next, nil
}

// defaultFilter selects every program in every year.
func defaultFilter(g *domain.Graph) density.Filter {
	f := density.Filter{Programs: make([]string, 0, len(g.ProgramList))}
	for _, p := range g.ProgramList {
		f.Programs = append(f.Programs, p.ID)
	}
	return f
}

// Recompute applies a new filter. The write lock is held for the whole pass.
func (s *Service) Recompute(ctx context.Context, f density.Filter) (density.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, constants.ErrNotLoaded
	}

	f = density.Filter{
		Programs: append([]string(nil), f.Programs...),
		Years:    append([]domain.Year(nil), f.Years...),
	}
	s.state.densities = s.calc.Recompute(ctx, s.state.graph, f)
	s.state.filter = f

	return copySnapshot(s.state.densities), nil
}

// read runs fn under the read lock once something is loaded.
func (s *Service) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return constants.ErrNotLoaded
	}
	return fn(s.state)
}

func copySnapshot(snap density.Snapshot) density.Snapshot {
	res := make(density.Snapshot, len(snap))
	for k, v := range snap {
		res[k] = v
	}
	return res
}
