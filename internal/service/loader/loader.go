package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
	"github.com/ougirez/mapa-innovacio/internal/pkg/store"
	"github.com/ougirez/mapa-innovacio/internal/pkg/store/xpgx"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type Loader struct {
	source   Source
	validate *validator.Validate
}

func New(source Source) *Loader {
	return &Loader{source: source, validate: validator.New()}
}

// NewFromViper builds the source configured under source.*. The returned
// func releases it.
func NewFromViper(ctx context.Context) (*Loader, func(), error) {
	switch kind := viper.GetString(constants.ViperSourceKindKey); kind {
	case constants.SourceKindHTTP:
		src := NewHTTPSource(viper.GetString(constants.ViperSourceBaseURLKey), HTTPOptions{
			Retries:       uint64(viper.GetInt(constants.ViperSourceRetriesKey)),
			RetryInterval: viper.GetDuration(constants.ViperSourceRetryIntervalKey),
			Timeout:       viper.GetDuration(constants.ViperSourceTimeoutKey),
		})
		return New(src), func() {}, nil
	case constants.SourceKindFile:
		return New(NewFileSource(viper.GetString(constants.ViperSourceDirKey))), func() {}, nil
	case constants.SourceKindPostgres:
		pool, err := xpgx.NewPool(ctx, viper.GetString(constants.ViperSourceDSNKey))
		if err != nil {
			return nil, nil, fmt.Errorf("xpgx.NewPool: %w", err)
		}
		return New(store.NewStore(pool)), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// Fetch gets every dataset concurrently and returns once all of them arrived.
// The first failure cancels the others and fails the whole fetch; only the
// lookups may be missing. A program, centre or zone that fails validation
// fails the fetch, invalid instances are logged and dropped.
func (l *Loader) Fetch(ctx context.Context) (*dto.Datasets, error) {
	ds := new(dto.Datasets)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		ds.Programs, err = l.source.ListPrograms(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		ds.Centres, err = l.source.ListCentres(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		ds.Instances, err = l.source.ListInstances(egCtx)
		return err
	})
	eg.Go(func() (err error) {
		ds.Zones, err = l.source.ListZones(egCtx)
		return err
	})
	eg.Go(func() error {
		lookups, err := l.source.GetLookups(egCtx)
		if errors.Is(err, constants.ErrMissingDataset) {
			logger.Warnf(ctx, "no lookups published, codes will be shown as is")
			return nil
		}
		ds.Lookups = lookups
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if err := validateAll(ctx, l.validate, constants.DatasetPrograms, ds.Programs); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if err := validateAll(ctx, l.validate, constants.DatasetCentres, ds.Centres); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	if err := validateAll(ctx, l.validate, constants.DatasetZones, ds.Zones); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	ds.Instances = validRows(ctx, l.validate, constants.DatasetInstances, ds.Instances)

	if len(ds.Programs) == 0 || len(ds.Centres) == 0 || len(ds.Zones) == 0 {
		return nil, fmt.Errorf("fetch: empty programs, centres or zones: %w", constants.ErrInvalidDataset)
	}

	logger.Infof(ctx, "fetched %d programs, %d centres, %d instances, %d zones",
		len(ds.Programs), len(ds.Centres), len(ds.Instances), len(ds.Zones))

	return ds, nil
}

// validateAll rejects the whole dataset on the first empty or invalid row.
func validateAll[T any](ctx context.Context, v *validator.Validate, dataset string, rows []*T) error {
	for i, row := range rows {
		if row == nil {
			return fmt.Errorf("%s #%d is empty: %w", dataset, i, constants.ErrInvalidDataset)
		}
		if err := v.StructCtx(ctx, row); err != nil {
			return fmt.Errorf("%s #%d: %w: %w", dataset, i, constants.ErrInvalidDataset, err)
		}
	}
	return nil
}

func validRows[T any](ctx context.Context, v *validator.Validate, dataset string, rows []*T) []*T {
	res := rows[:0]
	for i, row := range rows {
		if row == nil {
			logger.Warnf(ctx, "%s #%d is empty, dropped", dataset, i)
			continue
		}
		if err := v.StructCtx(ctx, row); err != nil {
			logger.Warnf(ctx, "%s #%d is invalid, dropped: %s", dataset, i, err.Error())
			continue
		}
		res = append(res, row)
	}
	return res
}
