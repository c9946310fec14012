package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
)

// builder accumulates unordered sets while instances are processed and
// materializes the sorted sequences once in finalize.
type builder struct {
	opts  Options
	graph *domain.Graph

	programCentres map[*domain.Program]map[string]*domain.Centre
	centrePrograms map[*domain.Centre]map[string]*domain.Program
	zoneCentres    map[*domain.Zone]map[string]*domain.Centre
	zonePrograms   map[*domain.Zone]map[string]*domain.Program

	skipped int
}

// Build cross-references the raw datasets into a graph. Instances pointing to
// unknown programs or centres are logged and skipped; structural problems
// (nil records, malformed polygons, duplicate ids in strict mode) abort the
// whole build.
func Build(ctx context.Context, ds *dto.Datasets, opts Options) (*domain.Graph, error) {
	if ds == nil {
		return nil, fmt.Errorf("graph.Build: %w", constants.ErrMissingDataset)
	}

	b := &builder{
		opts: opts,
		graph: &domain.Graph{
			Programs: make(map[string]*domain.Program, len(ds.Programs)),
			Centres:  make(map[string]*domain.Centre, len(ds.Centres)),
			Zones:    make(map[string]*domain.Zone, len(ds.Zones)),
			Lookups:  buildLookups(ds.Lookups),
		},
		programCentres: make(map[*domain.Program]map[string]*domain.Centre),
		centrePrograms: make(map[*domain.Centre]map[string]*domain.Program),
		zoneCentres:    make(map[*domain.Zone]map[string]*domain.Centre),
		zonePrograms:   make(map[*domain.Zone]map[string]*domain.Program),
	}

	if err := b.indexPrograms(ctx, ds.Programs); err != nil {
		return nil, fmt.Errorf("indexPrograms: %w", err)
	}
	if err := b.indexCentres(ctx, ds.Centres); err != nil {
		return nil, fmt.Errorf("indexCentres: %w", err)
	}
	if err := b.indexZones(ds.Zones); err != nil {
		return nil, fmt.Errorf("indexZones: %w", err)
	}

	for i, ins := range ds.Instances {
		b.link(ctx, i, ins)
	}

	b.finalize()

	logger.Infof(ctx, "graph built: %d programs, %d centres, %d zones, %d instances (%d skipped)",
		len(b.graph.Programs), len(b.graph.Centres), len(b.graph.Zones), len(ds.Instances), b.skipped)

	return b.graph, nil
}

func (b *builder) indexPrograms(ctx context.Context, programs []*dto.ProgramDto) error {
	for i, p := range programs {
		if p == nil {
			return fmt.Errorf("program #%d: %w", i, constants.ErrInvalidDataset)
		}
		if _, ok := b.graph.Programs[p.ID]; ok {
			if b.opts.StrictIDs {
				return fmt.Errorf("program %s: %w", p.ID, constants.ErrDuplicateID)
			}
			logger.Debugf(ctx, "duplicate program id %s, keeping the last one", p.ID)
		}

		levels := append([]string(nil), p.Tipus...)
		if len(levels) == 0 && b.opts.GuessLevels {
			levels = guessLevels(p.Nom, p.NomCurt, p.Descripcio)
		}

		b.graph.Programs[p.ID] = &domain.Program{
			ID:           p.ID,
			Name:         p.Nom,
			ShortName:    p.NomCurt,
			Symbol:       p.Simbol,
			Description:  p.Descripcio,
			Levels:       levels,
			AmbCurr:      p.AmbCurr,
			AmbInn:       p.AmbInn,
			Areas:        p.Arees,
			Objectives:   p.Objectius,
			Requirements: p.Requisits,
			Commitments:  p.Compromisos,
			Contact:      p.Contacte,
			Regulation:   p.Normativa,
			Link:         p.Link,
			Sheet:        p.Fitxa,
			Video:        p.Video,
			Centres:      make(map[domain.Year][]*domain.Centre),
			Titles:       make(map[string]string),
		}
	}
	return nil
}

func (b *builder) indexCentres(ctx context.Context, centres []*dto.CentreDto) error {
	for i, c := range centres {
		if c == nil {
			return fmt.Errorf("centre #%d: %w", i, constants.ErrInvalidDataset)
		}
		if _, ok := b.graph.Centres[c.ID]; ok {
			if b.opts.StrictIDs {
				return fmt.Errorf("centre %s: %w", c.ID, constants.ErrDuplicateID)
			}
			logger.Debugf(ctx, "duplicate centre id %s, keeping the last one", c.ID)
		}

		b.graph.Centres[c.ID] = &domain.Centre{
			ID:              c.ID,
			Name:            c.Nom,
			Municipality:    c.Municipi,
			County:          c.Comarca,
			Lat:             c.Lat,
			Lng:             c.Lng,
			Levels:          c.Estudis,
			TerritorialZone: c.SSTT,
			EducationalZone: c.SE,
			Web:             c.Web,
			Address:         c.Adreca,
			Programs:        make(map[domain.Year][]*domain.Program),
			NotCertified:    make(map[string]struct{}),
			Titles:          make(map[string]string),
		}
	}
	return nil
}

func (b *builder) indexZones(zones []*dto.ZoneDto) error {
	for i, z := range zones {
		if z == nil {
			return fmt.Errorf("zone #%d: %w", i, constants.ErrInvalidDataset)
		}
		category := domain.ZoneCategory(z.Tipus)
		if !category.Valid() {
			return fmt.Errorf("zone %s: unknown category %q: %w", z.Key, z.Tipus, constants.ErrInvalidDataset)
		}

		rings, err := ParseRings(z.Poligons)
		if err != nil {
			return fmt.Errorf("zone %s: %w", z.Key, err)
		}

		zone := &domain.Zone{
			Key:      z.Key,
			Name:     z.Nom,
			Category: category,
			Rings:    rings,
		}
		zone.ResetAggregates(b.opts.Floor)
		if len(z.Centres) > 0 {
			zone.EligibleGroups = make(map[string]int, len(z.Centres))
			for level, n := range z.Centres {
				zone.EligibleGroups[level] = n
			}
		}
		b.graph.Zones[z.Key] = zone
	}

	b.countEligibleGroups()
	return nil
}

// countEligibleGroups derives, for zones published without counts, the
// number of centres offering each level. Every centre counts, enrolled or not.
func (b *builder) countEligibleGroups() {
	derived := make(map[*domain.Zone]bool)
	for _, z := range b.graph.Zones {
		if z.EligibleGroups == nil {
			z.EligibleGroups = make(map[string]int)
			derived[z] = true
		}
	}
	if len(derived) == 0 {
		return
	}

	for _, c := range b.graph.Centres {
		levels := make(map[string]bool, len(c.Levels))
		for _, level := range c.Levels {
			levels[level] = true
		}
		for _, category := range domain.ZoneCategories {
			z := b.graph.ZoneOf(c, category)
			if z == nil || !derived[z] {
				continue
			}
			for level := range levels {
				z.EligibleGroups[level]++
			}
		}
	}
}

func (b *builder) link(ctx context.Context, i int, ins *dto.InstanceDto) {
	if ins == nil {
		b.skipped++
		logger.Warnf(ctx, "instance #%d is empty, skipped", i)
		return
	}

	program, okProgram := b.graph.Programs[ins.Programa]
	centre, okCentre := b.graph.Centres[ins.Centre]
	if !okProgram || !okCentre {
		b.skipped++
		logger.Warnf(ctx, "instance #%d with unknown program or centre: %s - %s - %s", i, ins.Programa, ins.Centre, ins.Curs)
		return
	}

	program.Centres[ins.Curs] = append(program.Centres[ins.Curs], centre)
	centre.Programs[ins.Curs] = append(centre.Programs[ins.Curs], program)
	addTo(b.programCentres, program, centre.ID, centre)
	addTo(b.centrePrograms, centre, program.ID, program)

	for _, category := range domain.ZoneCategories {
		zone := b.graph.ZoneOf(centre, category)
		if zone == nil {
			if key := centre.ZoneKey(category); key != "" {
				logger.Debugf(ctx, "centre %s references unknown %s zone %s", centre.ID, category, key)
			}
			continue
		}
		addTo(b.zoneCentres, zone, centre.ID, centre)
		addTo(b.zonePrograms, zone, program.ID, program)
	}

	if ins.Titol != "" {
		program.Titles[centre.ID] = b.joinTitle(program.Titles[centre.ID], ins.Titol)
		centre.Titles[program.ID] = b.joinTitle(centre.Titles[program.ID], ins.Titol)
	}

	if !ins.Certified() {
		centre.NotCertified[domain.NotCertifiedToken(program.ID, ins.Curs)] = struct{}{}
	}
}

func (b *builder) joinTitle(current, title string) string {
	if current == "" {
		return title
	}
	return current + b.opts.TitleSeparator + title
}

func addTo[K comparable, V any](sets map[K]map[string]V, owner K, id string, v V) {
	set, ok := sets[owner]
	if !ok {
		set = make(map[string]V)
		sets[owner] = set
	}
	set[id] = v
}

func (b *builder) finalize() {
	s := newNameSorter()
	programName := func(p *domain.Program) string { return p.Name }
	programID := func(p *domain.Program) string { return p.ID }
	centreName := func(c *domain.Centre) string { return c.Name }
	centreID := func(c *domain.Centre) string { return c.ID }

	for _, p := range b.graph.Programs {
		p.AllCentres = setToSlice(b.programCentres[p])
		sortByName(s, p.AllCentres, centreName, centreID)
	}
	for _, c := range b.graph.Centres {
		c.AllPrograms = setToSlice(b.centrePrograms[c])
		sortByName(s, c.AllPrograms, programName, programID)
	}
	for _, z := range b.graph.Zones {
		z.Centres = setToSlice(b.zoneCentres[z])
		sortByName(s, z.Centres, centreName, centreID)
		z.Programs = setToSlice(b.zonePrograms[z])
		sortByName(s, z.Programs, programName, programID)
	}

	b.graph.ProgramList = setToSlice(b.graph.Programs)
	sortByName(s, b.graph.ProgramList, programName, programID)
	b.graph.CentreList = setToSlice(b.graph.Centres)
	sortByName(s, b.graph.CentreList, centreName, centreID)

	zones := setToSlice(b.graph.Zones)
	sortByName(s, zones, func(z *domain.Zone) string { return z.Name }, func(z *domain.Zone) string { return z.Key })
	b.graph.ZoneList = make([]*domain.Zone, 0, len(zones))
	for _, category := range domain.ZoneCategories {
		for _, z := range zones {
			if z.Category == category {
				b.graph.ZoneList = append(b.graph.ZoneList, z)
			}
		}
	}

	if len(b.graph.Lookups.Years) == 0 {
		b.graph.Lookups.Years = b.enrolledYears()
	}

	b.programCentres, b.centrePrograms, b.zoneCentres, b.zonePrograms = nil, nil, nil, nil
}

// enrolledYears lists the school years found in instances, used when the
// lookups carry no explicit list.
func (b *builder) enrolledYears() []domain.Year {
	seen := make(map[domain.Year]struct{})
	for _, p := range b.graph.Programs {
		for _, y := range p.Years() {
			seen[y] = struct{}{}
		}
	}
	years := make([]domain.Year, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

func buildLookups(l *dto.LookupsDto) *domain.Lookups {
	res := &domain.Lookups{
		Levels:     make(map[string]string),
		AmbitsCurr: make(map[string]string),
		AmbitsInn:  make(map[string]string),
	}
	if l == nil {
		return res
	}
	for k, v := range l.Estudis {
		res.Levels[k] = v
	}
	for k, v := range l.AmbitsCurr {
		res.AmbitsCurr[k] = v
	}
	for k, v := range l.AmbitsInn {
		res.AmbitsInn[k] = v
	}
	res.Years = append(res.Years, l.Cursos...)
	return res
}
