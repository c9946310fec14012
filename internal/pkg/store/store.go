package store

import (
	"context"

	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store reads the raw datasets from Postgres. It never writes: the tables
// are filled by whoever publishes the open data.
type Store interface {
	ListPrograms(ctx context.Context) ([]*dto.ProgramDto, error)
	ListCentres(ctx context.Context) ([]*dto.CentreDto, error)
	ListInstances(ctx context.Context) ([]*dto.InstanceDto, error)
	ListZones(ctx context.Context) ([]*dto.ZoneDto, error)
	GetLookups(ctx context.Context) (*dto.LookupsDto, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
