package graph

import (
	"regexp"
	"strings"
)

var (
	vocationalRe = regexp.MustCompile(`(FP|fp|[pP]rofessio)`)
	primaryRe    = regexp.MustCompile(`(infantil|primària|escola)`)
)

// guessLevels is used for programs published without educational levels.
func guessLevels(name, shortName, description string) []string {
	str := strings.Join([]string{name, shortName, description}, " ")
	switch {
	case vocationalRe.MatchString(str):
		return []string{"CFPM", "CFPS"}
	case primaryRe.MatchString(str):
		return []string{"EINF2C", "EPRI"}
	default:
		return []string{"EINF2C", "EPRI", "ESO"}
	}
}
