package density

import (
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/shopspring/decimal"
)

// ZoneSummary is what the map shows when a zone is selected.
type ZoneSummary struct {
	Key          string              `json:"key"`
	Name         string              `json:"nom"`
	Category     domain.ZoneCategory `json:"tipus"`
	CategoryName string              `json:"tipusNom"`
	CentresPart  int                 `json:"centresPart"`
	EstudisPart  int                 `json:"estudisPart"`
	EstudisBase  int                 `json:"estudisBase"`
	// Percent is the raw participation index, rounded to one decimal.
	Percent decimal.Decimal `json:"percent"`
	Density float64         `json:"density"`
}

func Summarize(z *domain.Zone) ZoneSummary {
	part, base := z.PartTotal(), z.BaseTotal()

	percent := decimal.Zero
	if base > 0 {
		percent = decimal.NewFromInt(int64(part)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(base))).
			Round(1)
	}

	return ZoneSummary{
		Key:          z.Key,
		Name:         z.Name,
		Category:     z.Category,
		CategoryName: z.Category.DisplayName(),
		CentresPart:  len(z.CentresPart),
		EstudisPart:  part,
		EstudisBase:  base,
		Percent:      percent,
		Density:      z.Density,
	}
}
