package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/utils"
	"github.com/ougirez/mapa-innovacio/internal/service/atlas"
	"github.com/ougirez/mapa-innovacio/internal/service/density"
	"github.com/ougirez/mapa-innovacio/internal/testutil"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "admin-secret"

type programBody struct {
	Name    string            `json:"nom"`
	Years   []domain.Year     `json:"cursos"`
	Centres []atlas.CentreRef `json:"centres"`
}

type centreBody struct {
	Municipality string             `json:"municipi"`
	Programs     []atlas.ProgramRef `json:"programes"`
}

type densitiesBody struct {
	Filter    density.Filter     `json:"filter"`
	Densities map[string]float64 `json:"densities"`
}

func newTestAPI(t *testing.T, load bool) *APIService {
	t.Helper()
	viper.Set(constants.ViperSecretKey, testSecret)
	t.Cleanup(viper.Reset)

	svc := atlas.NewService(atlas.FetcherFunc(func(context.Context) (*dto.Datasets, error) {
		return testutil.Datasets(), nil
	}), atlas.DefaultOptions())
	if load {
		require.NoError(t, svc.Load(context.Background()))
	}

	api, err := NewAPIService(svc)
	require.NoError(t, err)
	return api
}

func do(t *testing.T, api *APIService, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func adminCookie(t *testing.T, secret string) *http.Cookie {
	t.Helper()
	token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{Secret: secret}, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: constants.CookieKeySecretToken, Value: token}
}

func TestAPI_NotLoaded(t *testing.T) {
	api := newTestAPI(t, false)

	rec := do(t, api, http.MethodGet, "/api/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[atlas.Status](t, rec).Loaded)

	rec = do(t, api, http.MethodGet, "/api/v1/programs", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, http.StatusServiceUnavailable, decodeBody[domain.ErrorResponse](t, rec).Code)
}

func TestAPI_Programs(t *testing.T) {
	api := newTestAPI(t, true)

	rec := do(t, api, http.MethodGet, "/api/v1/programs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 3)

	rec = do(t, api, http.MethodGet, "/api/v1/programs/p1?year="+testutil.Year2, "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[programBody](t, rec)
	assert.Equal(t, "Robòtica", p.Name)
	assert.Equal(t, []domain.Year{testutil.Year1, testutil.Year2}, p.Years)
	require.Len(t, p.Centres, 2)
	assert.False(t, p.Centres[0].NotCertified)
	assert.True(t, p.Centres[1].NotCertified)

	rec = do(t, api, http.MethodGet, "/api/v1/programs/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Centres(t *testing.T) {
	api := newTestAPI(t, true)

	rec := do(t, api, http.MethodGet, "/api/v1/centres/c3/programs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	progs := decodeBody[[]atlas.ProgramRef](t, rec)
	require.Len(t, progs, 2)
	assert.Equal(t, "p2", progs[0].ID)

	rec = do(t, api, http.MethodGet, "/api/v1/centres/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	c := decodeBody[centreBody](t, rec)
	assert.Equal(t, "Olot", c.Municipality)
	assert.Len(t, c.Programs, 1)
}

func TestAPI_Zones(t *testing.T) {
	api := newTestAPI(t, true)

	rec := do(t, api, http.MethodGet, "/api/v1/zones?category=ST", "")
	require.Equal(t, http.StatusOK, rec.Code)
	zones := decodeBody[[]map[string]any](t, rec)
	require.Len(t, zones, 2)
	assert.Equal(t, "ST1", zones[0]["key"])
	assert.Equal(t, "Serveis Territorials", zones[0]["tipusNom"])

	rec = do(t, api, http.MethodGet, "/api/v1/zones?category=XX", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodGet, "/api/v1/zones/SEZ2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[map[string]any](t, rec)["poligons"], 2)
}

func TestAPI_Densities(t *testing.T) {
	api := newTestAPI(t, true)

	rec := do(t, api, http.MethodPost, "/api/v1/densities", `{"programs":["p1"],"years":["2019-2020"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[densitiesBody](t, rec)
	assert.InDelta(t, 0.5, resp.Densities["ST1"], 1e-12)

	rec = do(t, api, http.MethodGet, "/api/v1/densities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[densitiesBody](t, rec)
	assert.Equal(t, []string{"p1"}, resp.Filter.Programs)
	assert.InDelta(t, 0.5, resp.Densities["ST1"], 1e-12)

	rec = do(t, api, http.MethodPost, "/api/v1/densities", `{"programs":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[domain.ErrorResponse](t, rec).Message, "decode body")

	rec = do(t, api, http.MethodPost, "/api/v1/densities", `{"programs":[""]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Search(t *testing.T) {
	api := newTestAPI(t, true)

	rec := do(t, api, http.MethodGet, "/api/v1/search/centres?q=olot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody[map[string]any](t, rec)
	assert.Len(t, res["results"], 2)

	rec = do(t, api, http.MethodGet, "/api/v1/search/programs?q=zzzz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[map[string]any](t, rec)["results"])

	rec = do(t, api, http.MethodGet, "/api/v1/search/programs", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, api, http.MethodGet, "/api/v1/search/programs?q=robo&limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_AdminReload(t *testing.T) {
	api := newTestAPI(t, false)

	rec := do(t, api, http.MethodPost, "/api/v1/admin/reload", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, api, http.MethodPost, "/api/v1/admin/reload", "", adminCookie(t, "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, api, http.MethodPost, "/api/v1/admin/reload", "", adminCookie(t, testSecret))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decodeBody[atlas.Status](t, rec).Loaded)
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = sonicSerializer{}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"http error keeps its message", echo.NewHTTPError(http.StatusBadRequest, "decode body: unexpected EOF"), http.StatusBadRequest, "decode body: unexpected EOF"},
		{"non-string message", echo.NewHTTPError(http.StatusForbidden, map[string]string{"x": "y"}), http.StatusForbidden, "Forbidden"},
		{"coded error", fmt.Errorf("program p9: %w", constants.ErrNotFound), http.StatusNotFound, "program p9: not found"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpErrorHandler(tt.err, e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))

			assert.Equal(t, tt.wantCode, rec.Code)
			body := decodeBody[domain.ErrorResponse](t, rec)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestAPI_UnknownRoute(t *testing.T) {
	api := newTestAPI(t, true)

	rec := do(t, api, http.MethodGet, "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeBody[domain.ErrorResponse](t, rec).Message)
}
