package search

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
)

const listSeparator = ", "

// ProgramDoc is the flat text view of a program fed to the program index.
type ProgramDoc struct {
	ID           string `json:"id"`
	Name         string `json:"nom"`
	ShortName    string `json:"nomCurt,omitempty"`
	Symbol       string `json:"simbol,omitempty"`
	Description  string `json:"descripcio,omitempty"`
	Titles       string `json:"titols,omitempty"`
	AmbCurr      string `json:"ambCurr,omitempty"`
	AmbInn       string `json:"ambInn,omitempty"`
	Areas        string `json:"arees,omitempty"`
	Objectives   string `json:"objectius,omitempty"`
	Requirements string `json:"requisits,omitempty"`
	Commitments  string `json:"compromisos,omitempty"`
	Contact      string `json:"contacte,omitempty"`
	Regulation   string `json:"normativa,omitempty"`
	Kind         string `json:"tipus"`
}

// CentreDoc is the flat text view of a centre. Name carries the
// municipality, as in "Escola Montessori (Olot)".
type CentreDoc struct {
	ID     string `json:"id"`
	Name   string `json:"nom"`
	County string `json:"comarca,omitempty"`
	Titles string `json:"titols,omitempty"`
	Kind   string `json:"tipus"`
}

func ProjectProgram(p *domain.Program, lookups *domain.Lookups) *ProgramDoc {
	return &ProgramDoc{
		ID:           p.ID,
		Name:         p.Name,
		ShortName:    p.ShortName,
		Symbol:       p.Symbol,
		Description:  plainText(p.Description),
		Titles:       joinTitles(p.Titles),
		AmbCurr:      joinResolved(p.AmbCurr, lookups.AmbitCurrName),
		AmbInn:       joinResolved(p.AmbInn, lookups.AmbitInnName),
		Areas:        strings.Join(p.Areas, listSeparator),
		Objectives:   plainText(p.Objectives),
		Requirements: plainText(p.Requirements),
		Commitments:  plainText(p.Commitments),
		Contact:      plainText(p.Contact),
		Regulation:   plainText(p.Regulation),
		Kind:         constants.DocKindProgram,
	}
}

func ProjectCentre(c *domain.Centre) *CentreDoc {
	name := c.Name
	if c.Municipality != "" {
		name += " (" + c.Municipality + ")"
	}
	return &CentreDoc{
		ID:     c.ID,
		Name:   name,
		County: c.County,
		Titles: joinTitles(c.Titles),
		Kind:   constants.DocKindCentre,
	}
}

// joinTitles flattens the title annotations in key order.
func joinTitles(titles map[string]string) string {
	if len(titles) == 0 {
		return ""
	}
	keys := make([]string, 0, len(titles))
	for k := range titles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, titles[k])
	}
	return strings.Join(values, listSeparator)
}

func joinResolved(codes []string, name func(string) string) string {
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, name(code))
	}
	return strings.Join(names, listSeparator)
}

// plainText drops markup from the long description fields. Text without
// tags is only whitespace-normalized.
func plainText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
