package service

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{language.Turkish, language.English}

var monthTables = [][12]string{
	{"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran", "Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"},
	{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

var localeMatcher = language.NewMatcher(supportedLocales)

// MonthNames returns the month table closest to locale. Unknown or malformed
// locales get the first supported table.
func MonthNames(locale string) [12]string {
	tag, err := language.Parse(locale)
	if err != nil {
		return monthTables[0]
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return monthTables[0]
	}
	return monthTables[idx]
}

// SprintName formats "<Month> <YY>" for t.
func SprintName(months [12]string, t time.Time) string {
	return fmt.Sprintf("%s %02d", months[t.Month()-1], t.Year()%100)
}

// PlannedSprintName is the default name of a sprint created ahead of time.
func PlannedSprintName(months [12]string, t time.Time) string {
	return SprintName(months, t) + " (Planned)"
}

// sprintName names a sprint after the local month of t.
func (s *Service) sprintName(t time.Time) string {
	return SprintName(s.months, t.In(s.loc))
}

func (s *Service) plannedSprintName(t time.Time) string {
	return PlannedSprintName(s.months, t.In(s.loc))
}
