// Package testutil holds dataset fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/ougirez/mapa-innovacio/internal/domain/dto"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	Year1 = "2019-2020"
	Year2 = "2020-2021"
)

func BoolPtr(v bool) *bool {
	return &v
}

// Datasets returns a small but complete fixture:
//
//	zones:    ST1 Girona, ST2 Tarragona (ST); SEZ1 Garrotxa, SEZ2 Baix Camp (SEZ)
//	centres:  c1 Escola Montessori (Olot, ST1/SEZ1, EINF2C+EPRI)
//	          c2 Institut Bosc (Olot, ST1/SEZ1, ESO)
//	          c3 Àgora Escola (Reus, ST2/SEZ2, EINF2C+EPRI+ESO)
//	          c4 Zeta Escola (Reus, ST2/SEZ2, EPRI), never enrolled
//	programs: p1 Robòtica (EPRI+ESO), p2 Cantània (EPRI), p3 Empresa (no levels)
//
// The last instance references an unknown program.
func Datasets() *dto.Datasets {
	return &dto.Datasets{
		Programs: []*dto.ProgramDto{
			{
				ID: "p1", Nom: "Robòtica", NomCurt: "Robòtica", Simbol: "robotica.png",
				Descripcio: "<p>Programa de <b>robòtica educativa</b> i programació.</p>",
				Tipus:      []string{"EPRI", "ESO"}, AmbInn: []string{"AI1"}, AmbCurr: []string{"AC1"},
				Arees:     []string{"Tecnologia"},
				Objectius: "Fomentar el pensament computacional",
			},
			{
				ID: "p2", Nom: "Cantània", Descripcio: "Cantata escolar per a primària",
				Tipus: []string{"EPRI"}, AmbCurr: []string{"AC2"}, Arees: []string{"Música"},
			},
			{
				ID: "p3", Nom: "Empresa", Descripcio: "Formació professional dual (FP)",
			},
		},
		Centres: []*dto.CentreDto{
			{ID: "c1", Nom: "Escola Montessori", Municipi: "Olot", Comarca: "Garrotxa", Lat: 42.18, Lng: 2.49,
				Estudis: []string{"EINF2C", "EPRI"}, SSTT: "ST1", SE: "SEZ1"},
			{ID: "c2", Nom: "Institut Bosc", Municipi: "Olot", Comarca: "Garrotxa", Lat: 42.19, Lng: 2.48,
				Estudis: []string{"ESO"}, SSTT: "ST1", SE: "SEZ1"},
			{ID: "c3", Nom: "Àgora Escola", Municipi: "Reus", Comarca: "Baix Camp", Lat: 41.15, Lng: 1.10,
				Estudis: []string{"EINF2C", "EPRI", "ESO"}, SSTT: "ST2", SE: "SEZ2"},
			{ID: "c4", Nom: "Zeta Escola", Municipi: "Reus", Comarca: "Baix Camp", Lat: 41.16, Lng: 1.11,
				Estudis: []string{"EPRI"}, SSTT: "ST2", SE: "SEZ2"},
		},
		Instances: []*dto.InstanceDto{
			{Programa: "p1", Centre: "c1", Curs: Year1, Titol: "Robots", Cert: BoolPtr(true)},
			{Programa: "p1", Centre: "c3", Curs: Year1, Cert: BoolPtr(true)},
			{Programa: "p1", Centre: "c2", Curs: Year2, Titol: "Drons"},
			{Programa: "p2", Centre: "c3", Curs: Year2, Cert: BoolPtr(false)},
			{Programa: "p1", Centre: "c1", Curs: Year2, Titol: "Robots 2", Cert: BoolPtr(true)},
			{Programa: "X", Centre: "c1", Curs: "2021"},
		},
		Zones: []*dto.ZoneDto{
			{Key: "ST1", Nom: "Girona", Tipus: "ST", Poligons: []string{"42.1|2.5,42.2|2.6,42.0|2.7"}},
			{Key: "ST2", Nom: "Tarragona", Tipus: "ST", Poligons: []string{"41.1|1.0,41.2|1.1,41.0|1.2"}},
			{Key: "SEZ1", Nom: "Garrotxa", Tipus: "SEZ", Poligons: []string{"42.1|2.4,42.2|2.5,42.0|2.6"}},
			{Key: "SEZ2", Nom: "Baix Camp", Tipus: "SEZ", Poligons: []string{"41.1|1.1,41.2|1.2,41.0|1.3", "41.3|1.1,41.4|1.2,41.3|1.3"}},
		},
		Lookups: &dto.LookupsDto{
			Estudis:    map[string]string{"EINF2C": "Educació infantil", "EPRI": "Educació primària", "ESO": "Educació secundària obligatòria"},
			AmbitsCurr: map[string]string{"AC1": "Científic-tecnològic", "AC2": "Artístic"},
			AmbitsInn:  map[string]string{"AI1": "Robòtica i programació"},
			Cursos:     []string{Year1, Year2},
		},
	}
}

// ObserveLogs routes the global logger to an in-memory sink for the test.
func ObserveLogs(t testing.TB, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	logger.Set(zap.New(core).Sugar())
	t.Cleanup(func() { logger.Set(zap.NewNop().Sugar()) })
	return logs
}

// WriteDatasets stores ds as one JSON file per dataset in a temp dir, the
// layout the file source reads.
func WriteDatasets(t testing.TB, ds *dto.Datasets) string {
	t.Helper()
	dir := t.TempDir()
	for name, v := range map[string]any{
		constants.DatasetPrograms:  ds.Programs,
		constants.DatasetCentres:   ds.Centres,
		constants.DatasetInstances: ds.Instances,
		constants.DatasetZones:     ds.Zones,
		constants.DatasetLookups:   ds.Lookups,
	} {
		data, err := sonic.Marshal(v)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0o644))
	}
	return dir
}
