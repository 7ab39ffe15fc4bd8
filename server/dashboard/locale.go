package dashboard

// weekdayLabels maps English weekday abbreviations to the Spanish labels the
// dashboard renders. Unmapped inputs pass through unchanged.
var weekdayLabels = map[string]string{
	"Mon": "Lun",
	"Tue": "Mar",
	"Wed": "Mié",
	"Thu": "Jue",
	"Fri": "Vie",
	"Sat": "Sáb",
	"Sun": "Dom",
}

// translateWeekday returns the localized label for an English weekday
// abbreviation.
func translateWeekday(day string) string {
	if translated, ok := weekdayLabels[day]; ok {
		return translated
	}
	return day
}
