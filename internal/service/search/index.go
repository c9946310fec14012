package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"github.com/ougirez/mapa-innovacio/internal/domain"
	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
)

const prefixSimilarity = 0.9

type field struct {
	name   string
	weight float64
}

var (
	programFields = []field{
		{"id", 1},
		{"nom", 3},
		{"simbol", 2},
		{"nomCurt", 2},
		{"descripcio", 1},
		{"titols", 1.5},
		{"ambits", 1},
		{"arees", 1},
		{"textos", 0.5},
	}
	centreFields = []field{
		{"id", 1},
		{"nom", 3},
		{"comarca", 1.5},
		{"titols", 1},
	}
)

type Result struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Score float64 `json:"score"`
	Doc   any     `json:"doc"`
}

type document struct {
	id     string
	doc    any
	tokens [][]string
}

// Index is an in-memory fuzzy index over a fixed set of weighted fields.
// It is immutable once built and safe for concurrent searches.
type Index struct {
	kind      string
	fields    []field
	maxWeight float64
	opts      Options
	docs      []document
}

func newIndex(kind string, fields []field, opts Options) *Index {
	ix := &Index{kind: kind, fields: fields, opts: opts}
	for _, f := range fields {
		if f.weight > ix.maxWeight {
			ix.maxWeight = f.weight
		}
	}
	return ix
}

// add indexes one record; values follow the order of the index fields.
func (ix *Index) add(id string, doc any, values ...string) {
	d := document{id: id, doc: doc, tokens: make([][]string, len(ix.fields))}
	for i := range ix.fields {
		if i < len(values) {
			d.tokens[i] = tokenize(values[i], ix.opts.MinTokenLen)
		}
	}
	ix.docs = append(ix.docs, d)
}

func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search returns the records matching every token of q, best match first
// and ties by id. A non-positive limit returns every match.
func (ix *Index) Search(q string, limit int) []Result {
	terms := tokenize(q, ix.opts.MinTokenLen)
	if len(terms) == 0 {
		return nil
	}

	var res []Result
	for _, d := range ix.docs {
		score, ok := ix.score(d, terms)
		if !ok {
			continue
		}
		res = append(res, Result{ID: d.id, Kind: ix.kind, Score: score, Doc: d.doc})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].ID < res[j].ID
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// score is the mean over query terms of the best weighted field similarity,
// normalized to [0, 1]. A term matching no field discards the record.
func (ix *Index) score(d document, terms []string) (float64, bool) {
	var total float64
	for _, term := range terms {
		var best float64
		for i, tokens := range d.tokens {
			for _, token := range tokens {
				if s := ix.similarity(term, token) * ix.fields[i].weight; s > best {
					best = s
				}
			}
		}
		if best == 0 {
			return 0, false
		}
		total += best
	}
	return total / (float64(len(terms)) * ix.maxWeight), true
}

func (ix *Index) similarity(term, token string) float64 {
	switch {
	case term == token:
		return 1
	case strings.HasPrefix(token, term):
		return prefixSimilarity
	case utf8.RuneCountInString(term) < ix.opts.MinFuzzyLen:
		return 0
	}
	if s := levenshtein.Similarity(term, token, nil); s >= ix.opts.Threshold {
		return s
	}
	return 0
}

type Indices struct {
	Programs *Index
	Centres  *Index
}

// Build projects every program and centre of g and indexes them. Lookups
// resolve the ambit names; nil falls back to the graph's own tables.
func Build(g *domain.Graph, lookups *domain.Lookups, opts Options) *Indices {
	if lookups == nil {
		lookups = g.Lookups
	}
	if lookups == nil {
		lookups = &domain.Lookups{}
	}

	programs := newIndex(constants.DocKindProgram, programFields, opts)
	for _, p := range g.ProgramList {
		doc := ProjectProgram(p, lookups)
		programs.add(doc.ID, doc,
			doc.ID,
			doc.Name,
			doc.Symbol,
			doc.ShortName,
			doc.Description,
			doc.Titles,
			doc.AmbCurr+listSeparator+doc.AmbInn,
			doc.Areas,
			strings.Join([]string{doc.Objectives, doc.Requirements, doc.Commitments, doc.Contact, doc.Regulation}, " "),
		)
	}

	centres := newIndex(constants.DocKindCentre, centreFields, opts)
	for _, c := range g.CentreList {
		doc := ProjectCentre(c)
		centres.add(doc.ID, doc, doc.ID, doc.Name, doc.County, doc.Titles)
	}

	return &Indices{Programs: programs, Centres: centres}
}
