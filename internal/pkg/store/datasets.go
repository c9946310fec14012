package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
	"github.com/ougirez/mapa-innovacio/internal/pkg/store/xpgx"
)

const (
	lookupKindLevels     = "estudis"
	lookupKindAmbitsCurr = "ambitsCurr"
	lookupKindAmbitsInn  = "ambitsInn"
	lookupKindYears      = "cursos"
)

var (
	programColumns = []string{
		"id", "nom",
		coalesce("nom_curt", "''"), coalesce("simbol", "''"), coalesce("descripcio", "''"),
		coalesce("tipus", "'{}'"), coalesce("amb_curr", "'{}'"), coalesce("amb_inn", "'{}'"), coalesce("arees", "'{}'"),
		coalesce("objectius", "''"), coalesce("requisits", "''"), coalesce("compromisos", "''"),
		coalesce("contacte", "''"), coalesce("normativa", "''"),
		coalesce("link", "''"), coalesce("fitxa", "''"), coalesce("video", "''"),
	}
	centreColumns = []string{
		"id", "nom", coalesce("municipi", "''"), coalesce("comarca", "''"), "lat", "lng",
		coalesce("estudis", "'{}'"), coalesce("sstt", "''"), coalesce("se", "''"),
		coalesce("web", "''"), coalesce("adreca", "''"),
	}
	instanceColumns = []string{"programa", "centre", "curs", coalesce("titol", "''"), "cert"}
	zoneColumns     = []string{"key", "nom", "tipus", coalesce("poligons", "'{}'"), "centres"}
	lookupColumns   = []string{"kind", "code", coalesce("name", "''")}
)

type lookupRow struct {
	Kind string `db:"kind"`
	Code string `db:"code"`
	Name string `db:"name"`
}

func listProgramsQuery() sq.SelectBuilder {
	return builder().Select(programColumns...).From(tablePrograms).OrderBy("id")
}

func listCentresQuery() sq.SelectBuilder {
	return builder().Select(centreColumns...).From(tableCentres).OrderBy("id")
}

// Instance order matters for the per-year centre lists, so it follows the
// insertion order of the table.
func listInstancesQuery() sq.SelectBuilder {
	return builder().Select(instanceColumns...).From(tableInstances).OrderBy("row_id")
}

func listZonesQuery() sq.SelectBuilder {
	return builder().Select(zoneColumns...).From(tableZones).OrderBy("key")
}

func listLookupsQuery() sq.SelectBuilder {
	return builder().Select(lookupColumns...).
		From(tableLookups).
		Where(sq.Eq{"kind": []string{lookupKindLevels, lookupKindAmbitsCurr, lookupKindAmbitsInn, lookupKindYears}}).
		OrderBy("kind, code")
}

func (s *store) ListPrograms(ctx context.Context) ([]*dto.ProgramDto, error) {
	selected, err := xpgx.Selectx[dto.ProgramDto](ctx, s.pool, listProgramsQuery())
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, fmt.Errorf("select %s: %w", tablePrograms, wrapErr(err))
	}
	return selected, nil
}

func (s *store) ListCentres(ctx context.Context) ([]*dto.CentreDto, error) {
	selected, err := xpgx.Selectx[dto.CentreDto](ctx, s.pool, listCentresQuery())
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, fmt.Errorf("select %s: %w", tableCentres, wrapErr(err))
	}
	return selected, nil
}

func (s *store) ListInstances(ctx context.Context) ([]*dto.InstanceDto, error) {
	selected, err := xpgx.Selectx[dto.InstanceDto](ctx, s.pool, listInstancesQuery())
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, fmt.Errorf("select %s: %w", tableInstances, wrapErr(err))
	}
	return selected, nil
}

func (s *store) ListZones(ctx context.Context) ([]*dto.ZoneDto, error) {
	selected, err := xpgx.Selectx[dto.ZoneDto](ctx, s.pool, listZonesQuery())
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, fmt.Errorf("select %s: %w", tableZones, wrapErr(err))
	}
	return selected, nil
}

func (s *store) GetLookups(ctx context.Context) (*dto.LookupsDto, error) {
	rows, err := xpgx.Selectx[lookupRow](ctx, s.pool, listLookupsQuery())
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, fmt.Errorf("select %s: %w", tableLookups, wrapErr(err))
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("select %s: %w", tableLookups, constants.ErrMissingDataset)
	}
	return groupLookups(rows), nil
}

// groupLookups folds the flat kind/code/name rows into the lookup tables.
// School years only use the code column.
func groupLookups(rows []*lookupRow) *dto.LookupsDto {
	res := &dto.LookupsDto{
		Estudis:    make(map[string]string),
		AmbitsCurr: make(map[string]string),
		AmbitsInn:  make(map[string]string),
	}
	for _, r := range rows {
		switch r.Kind {
		case lookupKindLevels:
			res.Estudis[r.Code] = r.Name
		case lookupKindAmbitsCurr:
			res.AmbitsCurr[r.Code] = r.Name
		case lookupKindAmbitsInn:
			res.AmbitsInn[r.Code] = r.Name
		case lookupKindYears:
			res.Cursos = append(res.Cursos, r.Code)
		}
	}
	return res
}
