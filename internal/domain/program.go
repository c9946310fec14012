package domain

type Program struct {
	ID           string   `json:"id"`
	Name         string   `json:"nom"`
	ShortName    string   `json:"nomCurt,omitempty"`
	Symbol       string   `json:"simbol,omitempty"`
	Description  string   `json:"descripcio,omitempty"`
	Levels       []string `json:"tipus"`
	AmbCurr      []string `json:"ambCurr,omitempty"`
	AmbInn       []string `json:"ambInn,omitempty"`
	Areas        []string `json:"arees,omitempty"`
	Objectives   string   `json:"objectius,omitempty"`
	Requirements string   `json:"requisits,omitempty"`
	Commitments  string   `json:"compromisos,omitempty"`
	Contact      string   `json:"contacte,omitempty"`
	Regulation   string   `json:"normativa,omitempty"`
	Link         string   `json:"link,omitempty"`
	Sheet        string   `json:"fitxa,omitempty"`
	Video        string   `json:"video,omitempty"`

	// Centres lists enrolled centres per school year, in instance order.
	Centres map[Year][]*Centre `json:"-"`
	// AllCentres is every centre ever enrolled, sorted by name.
	AllCentres []*Centre `json:"-"`
	// Titles holds the accumulated titles keyed by centre id.
	Titles map[string]string `json:"titols,omitempty"`
}

// Years returns the school years with at least one enrolled centre.
func (p *Program) Years() []Year {
	return sortedYears(p.Centres)
}

func (p *Program) HasCentres() bool {
	for _, cs := range p.Centres {
		if len(cs) > 0 {
			return true
		}
	}
	return false
}
