package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
)

// Source hands out every raw dataset. store.Store is the Postgres one.
type Source interface {
	ListPrograms(ctx context.Context) ([]*dto.ProgramDto, error)
	ListCentres(ctx context.Context) ([]*dto.CentreDto, error)
	ListInstances(ctx context.Context) ([]*dto.InstanceDto, error)
	ListZones(ctx context.Context) ([]*dto.ZoneDto, error)
	GetLookups(ctx context.Context) (*dto.LookupsDto, error)
}

// reader returns the raw JSON document of a dataset. A dataset that is not
// published must be reported as constants.ErrMissingDataset.
type reader func(ctx context.Context, dataset string) ([]byte, error)

// jsonSource decodes one JSON document per dataset.
type jsonSource struct {
	read reader
}

func (s *jsonSource) ListPrograms(ctx context.Context) ([]*dto.ProgramDto, error) {
	return decode[[]*dto.ProgramDto](ctx, s.read, constants.DatasetPrograms)
}

func (s *jsonSource) ListCentres(ctx context.Context) ([]*dto.CentreDto, error) {
	return decode[[]*dto.CentreDto](ctx, s.read, constants.DatasetCentres)
}

func (s *jsonSource) ListInstances(ctx context.Context) ([]*dto.InstanceDto, error) {
	return decode[[]*dto.InstanceDto](ctx, s.read, constants.DatasetInstances)
}

func (s *jsonSource) ListZones(ctx context.Context) ([]*dto.ZoneDto, error) {
	return decode[[]*dto.ZoneDto](ctx, s.read, constants.DatasetZones)
}

func (s *jsonSource) GetLookups(ctx context.Context) (*dto.LookupsDto, error) {
	return decode[*dto.LookupsDto](ctx, s.read, constants.DatasetLookups)
}

func decode[T any](ctx context.Context, read reader, dataset string) (T, error) {
	var res T
	data, err := read(ctx, dataset)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", dataset, err)
	}
	if err = sonic.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("decode %s: %w", dataset, err)
	}
	return res, nil
}

type HTTPOptions struct {
	Retries       uint64
	RetryInterval time.Duration
	Timeout       time.Duration
}

// NewHTTPSource fetches <baseURL>/<dataset>.json. Network errors and 5xx
// answers are retried, other statuses fail at once.
func NewHTTPSource(baseURL string, opts HTTPOptions) Source {
	client := &http.Client{Timeout: opts.Timeout}
	baseURL = strings.TrimRight(baseURL, "/")

	return &jsonSource{read: func(ctx context.Context, dataset string) ([]byte, error) {
		url := fmt.Sprintf("%s/%s.json", baseURL, dataset)

		var body []byte
		err := backoff.Retry(
			func() error {
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				if err != nil {
					return backoff.Permanent(err)
				}

				resp, err := client.Do(req)
				if err != nil {
					logger.Warnf(ctx, "get %s: %s", url, err.Error())
					return fmt.Errorf("http.Get: %w", err)
				}
				defer resp.Body.Close()

				switch {
				case resp.StatusCode == http.StatusNotFound:
					return backoff.Permanent(fmt.Errorf("%s: %w", url, constants.ErrMissingDataset))
				case resp.StatusCode >= http.StatusInternalServerError:
					logger.Warnf(ctx, "get %s: status %d", url, resp.StatusCode)
					return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
				case resp.StatusCode != http.StatusOK:
					return backoff.Permanent(fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status))
				}

				body, err = io.ReadAll(resp.Body)
				if err != nil {
					return fmt.Errorf("read body: %w", err)
				}
				return nil
			},
			backoff.WithContext(
				backoff.WithMaxRetries(backoff.NewConstantBackOff(opts.RetryInterval), opts.Retries),
				ctx,
			),
		)
		if err != nil {
			return nil, err
		}
		return body, nil
	}}
}

// NewFileSource reads <dir>/<dataset>.json.
func NewFileSource(dir string) Source {
	return &jsonSource{read: func(ctx context.Context, dataset string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(dir, dataset+".json"))
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", dataset, constants.ErrMissingDataset)
		}
		return data, err
	}}
}
