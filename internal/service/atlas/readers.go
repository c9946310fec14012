package atlas

import (
	"fmt"
	"time"

	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/service/density"
	"github.com/ougirez/mapa-innovacio/internal/service/search"
)

type Status struct {
	Loaded    bool           `json:"loaded"`
	LoadID    string         `json:"loadId,omitempty"`
	LoadedAt  *time.Time     `json:"loadedAt,omitempty"`
	Programs  int            `json:"programs"`
	Centres   int            `json:"centres"`
	Zones     int            `json:"zones"`
	Years     []domain.Year  `json:"cursos,omitempty"`
	Filter    density.Filter `json:"filter"`
	LastError string         `json:"lastError,omitempty"`
}

// CentreRef is a centre as listed under a program.
type CentreRef struct {
	ID           string `json:"id"`
	Name         string `json:"nom"`
	Municipality string `json:"municipi"`
	Title        string `json:"titol,omitempty"`
	NotCertified bool   `json:"notCertified,omitempty"`
}

// ProgramRef is a program as listed under a centre.
type ProgramRef struct {
	ID           string `json:"id"`
	Name         string `json:"nom"`
	Title        string `json:"titol,omitempty"`
	NotCertified bool   `json:"notCertified,omitempty"`
}

type ZoneView struct {
	density.ZoneSummary
	Rings []domain.Ring `json:"poligons"`
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Status
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.state == nil {
		return st
	}

	loadedAt := s.state.loadedAt
	st.Loaded = true
	st.LoadID = s.state.id.String()
	st.LoadedAt = &loadedAt
	st.Programs = len(s.state.graph.Programs)
	st.Centres = len(s.state.graph.Centres)
	st.Zones = len(s.state.graph.Zones)
	st.Years = append(st.Years, s.state.graph.Lookups.Years...)
	st.Filter = s.state.filter
	return st
}

func (s *Service) Lookups() (*domain.Lookups, error) {
	var res *domain.Lookups
	err := s.read(func(st *state) error {
		res = st.graph.Lookups
		return nil
	})
	return res, err
}

func (s *Service) Programs() ([]*domain.Program, error) {
	var res []*domain.Program
	err := s.read(func(st *state) error {
		res = st.graph.ProgramList
		return nil
	})
	return res, err
}

func (s *Service) Program(id string) (*domain.Program, error) {
	var res *domain.Program
	err := s.read(func(st *state) error {
		p, ok := st.graph.Programs[id]
		if !ok {
			return fmt.Errorf("program %s: %w", id, constants.ErrNotFound)
		}
		res = p
		return nil
	})
	return res, err
}

// ProgramCentres lists the distinct centres of a program sorted by name. An
// empty year means every year; with a year, centres that did not certify
// their participation that year are marked.
func (s *Service) ProgramCentres(id string, year domain.Year) ([]CentreRef, error) {
	p, err := s.Program(id)
	if err != nil {
		return nil, err
	}

	var inYear map[string]bool
	if year != "" {
		inYear = make(map[string]bool, len(p.Centres[year]))
		for _, c := range p.Centres[year] {
			inYear[c.ID] = true
		}
	}

	res := make([]CentreRef, 0, len(p.AllCentres))
	for _, c := range p.AllCentres {
		if inYear != nil && !inYear[c.ID] {
			continue
		}
		res = append(res, CentreRef{
			ID:           c.ID,
			Name:         c.Name,
			Municipality: c.Municipality,
			Title:        p.Titles[c.ID],
			NotCertified: year != "" && c.IsNotCertified(p.ID, year),
		})
	}
	return res, nil
}

func (s *Service) Centres() ([]*domain.Centre, error) {
	var res []*domain.Centre
	err := s.read(func(st *state) error {
		res = st.graph.CentreList
		return nil
	})
	return res, err
}

func (s *Service) Centre(id string) (*domain.Centre, error) {
	var res *domain.Centre
	err := s.read(func(st *state) error {
		c, ok := st.graph.Centres[id]
		if !ok {
			return fmt.Errorf("centre %s: %w", id, constants.ErrNotFound)
		}
		res = c
		return nil
	})
	return res, err
}

// CentrePrograms is ProgramCentres seen from the centre.
func (s *Service) CentrePrograms(id string, year domain.Year) ([]ProgramRef, error) {
	c, err := s.Centre(id)
	if err != nil {
		return nil, err
	}

	var inYear map[string]bool
	if year != "" {
		inYear = make(map[string]bool, len(c.Programs[year]))
		for _, p := range c.Programs[year] {
			inYear[p.ID] = true
		}
	}

	res := make([]ProgramRef, 0, len(c.AllPrograms))
	for _, p := range c.AllPrograms {
		if inYear != nil && !inYear[p.ID] {
			continue
		}
		res = append(res, ProgramRef{
			ID:           p.ID,
			Name:         p.Name,
			Title:        c.Titles[p.ID],
			NotCertified: year != "" && c.IsNotCertified(p.ID, year),
		})
	}
	return res, nil
}

// Zones returns the zones of one category, or all of them for an empty
// category, with their current aggregates.
func (s *Service) Zones(category domain.ZoneCategory) ([]ZoneView, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("zone category %q: %w", category, constants.ErrBadRequest)
	}

	var res []ZoneView
	err := s.read(func(st *state) error {
		zones := st.graph.ZoneList
		if category != "" {
			zones = st.graph.ZonesByCategory(category)
		}
		res = make([]ZoneView, 0, len(zones))
		for _, z := range zones {
			res = append(res, ZoneView{ZoneSummary: density.Summarize(z), Rings: z.Rings})
		}
		return nil
	})
	return res, err
}

func (s *Service) Zone(key string) (ZoneView, error) {
	var res ZoneView
	err := s.read(func(st *state) error {
		z, ok := st.graph.Zones[key]
		if !ok {
			return fmt.Errorf("zone %s: %w", key, constants.ErrNotFound)
		}
		res = ZoneView{ZoneSummary: density.Summarize(z), Rings: z.Rings}
		return nil
	})
	return res, err
}

// Densities returns a copy of the current snapshot and the filter behind it.
func (s *Service) Densities() (density.Snapshot, density.Filter, error) {
	var (
		snap density.Snapshot
		f    density.Filter
	)
	err := s.read(func(st *state) error {
		snap = copySnapshot(st.densities)
		f = st.filter
		return nil
	})
	return snap, f, err
}

func (s *Service) SearchPrograms(q string, limit int) ([]search.Result, error) {
	var res []search.Result
	err := s.read(func(st *state) error {
		res = st.indices.Programs.Search(q, limit)
		return nil
	})
	return res, err
}

func (s *Service) SearchCentres(q string, limit int) ([]search.Result, error) {
	var res []search.Result
	err := s.read(func(st *state) error {
		res = st.indices.Centres.Search(q, limit)
		return nil
	})
	return res, err
}
