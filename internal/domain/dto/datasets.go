package dto

type ProgramDto struct {
	ID          string   `json:"id" db:"id" validate:"required"`
	Nom         string   `json:"nom" db:"nom" validate:"required"`
	NomCurt     string   `json:"nomCurt,omitempty" db:"nom_curt"`
	Simbol      string   `json:"simbol,omitempty" db:"simbol"`
	Descripcio  string   `json:"descripcio" db:"descripcio"`
	Tipus       []string `json:"tipus" db:"tipus"`
	AmbCurr     []string `json:"ambCurr" db:"amb_curr"`
	AmbInn      []string `json:"ambInn" db:"amb_inn"`
	Arees       []string `json:"arees" db:"arees"`
	Objectius   string   `json:"objectius,omitempty" db:"objectius"`
	Requisits   string   `json:"requisits,omitempty" db:"requisits"`
	Compromisos string   `json:"compromisos,omitempty" db:"compromisos"`
	Contacte    string   `json:"contacte,omitempty" db:"contacte"`
	Normativa   string   `json:"normativa,omitempty" db:"normativa"`
	Link        string   `json:"link,omitempty" db:"link"`
	Fitxa       string   `json:"fitxa,omitempty" db:"fitxa"`
	Video       string   `json:"video,omitempty" db:"video"`
}

type CentreDto struct {
	ID       string   `json:"id" db:"id" validate:"required"`
	Nom      string   `json:"nom" db:"nom" validate:"required"`
	Municipi string   `json:"municipi" db:"municipi"`
	Comarca  string   `json:"comarca,omitempty" db:"comarca"`
	Lat      float64  `json:"lat" db:"lat" validate:"latitude"`
	Lng      float64  `json:"lng" db:"lng" validate:"longitude"`
	Estudis  []string `json:"estudis" db:"estudis"`
	SSTT     string   `json:"sstt,omitempty" db:"sstt"`
	SE       string   `json:"se,omitempty" db:"se"`
	Web      string   `json:"web,omitempty" db:"web"`
	Adreca   string   `json:"adreca,omitempty" db:"adreca"`
}

// InstanceDto is one enrollment row. It is consumed by the graph builder
// and never kept afterwards.
type InstanceDto struct {
	Programa string `json:"programa" db:"programa" validate:"required"`
	Centre   string `json:"centre" db:"centre" validate:"required"`
	Curs     string `json:"curs" db:"curs" validate:"required"`
	Titol    string `json:"titol,omitempty" db:"titol"`
	Cert     *bool  `json:"cert,omitempty" db:"cert"`
}

func (i *InstanceDto) Certified() bool {
	return i.Cert != nil && *i.Cert
}

type ZoneDto struct {
	Key      string   `json:"key" db:"key" validate:"required"`
	Nom      string   `json:"nom" db:"nom" validate:"required"`
	Tipus    string   `json:"tipus" db:"tipus" validate:"oneof=ST SEZ"`
	Poligons []string `json:"poligons" db:"poligons"`
	// Centres optionally counts eligible school groups per level.
	Centres map[string]int `json:"centres,omitempty" db:"centres"`
}

type LookupsDto struct {
	Estudis    map[string]string `json:"estudis"`
	AmbitsCurr map[string]string `json:"ambitsCurr"`
	AmbitsInn  map[string]string `json:"ambitsInn"`
	Cursos     []string          `json:"cursos"`
}

// Datasets is the joined result of one fetch of all sources.
type Datasets struct {
	Programs  []*ProgramDto
	Centres   []*CentreDto
	Instances []*InstanceDto
	Zones     []*ZoneDto
	Lookups   *LookupsDto
}
