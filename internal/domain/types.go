package domain

// Year is a school year as found in the datasets, e.g. "2019-2020".
type Year = string

type ZoneCategory string

const (
	ZoneCategoryTerritorial ZoneCategory = "ST"
	ZoneCategoryEducational ZoneCategory = "SEZ"
)

// ZoneCategories is the fixed iteration order of categories.
var ZoneCategories = []ZoneCategory{ZoneCategoryTerritorial, ZoneCategoryEducational}

func (c ZoneCategory) Valid() bool {
	return c == ZoneCategoryTerritorial || c == ZoneCategoryEducational
}

func (c ZoneCategory) DisplayName() string {
	switch c {
	case ZoneCategoryTerritorial:
		return "Serveis Territorials"
	case ZoneCategoryEducational:
		return "Serveis Educatius de Zona"
	}
	return string(c)
}

// NotCertifiedToken identifies a participation still in progress.
func NotCertifiedToken(programID string, year Year) string {
	return programID + "|" + year
}
