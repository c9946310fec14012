package domain

type Centre struct {
	ID              string   `json:"id"`
	Name            string   `json:"nom"`
	Municipality    string   `json:"municipi"`
	County          string   `json:"comarca,omitempty"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Levels          []string `json:"estudis"`
	TerritorialZone string   `json:"sstt,omitempty"`
	EducationalZone string   `json:"se,omitempty"`
	Web             string   `json:"web,omitempty"`
	Address         string   `json:"adreca,omitempty"`

	Programs    map[Year][]*Program `json:"-"`
	AllPrograms []*Program          `json:"-"`
	// NotCertified holds program-id|year tokens, see NotCertifiedToken.
	NotCertified map[string]struct{} `json:"-"`
	Titles       map[string]string   `json:"titols,omitempty"`
}

func (c *Centre) Years() []Year {
	return sortedYears(c.Programs)
}

func (c *Centre) IsNotCertified(programID string, year Year) bool {
	_, ok := c.NotCertified[NotCertifiedToken(programID, year)]
	return ok
}

// ZoneKey returns the zone the centre belongs to for the given category.
func (c *Centre) ZoneKey(category ZoneCategory) string {
	switch category {
	case ZoneCategoryTerritorial:
		return c.TerritorialZone
	case ZoneCategoryEducational:
		return c.EducationalZone
	}
	return ""
}
