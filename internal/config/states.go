package config

import "strings"

// StateList holds every US state as a lowercase kebab-case key
var StateList = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana",
	"maine", "maryland", "massachusetts", "michigan", "minnesota",
	"mississippi", "missouri", "montana", "nebraska", "nevada",
	"new-hampshire", "new-jersey", "new-mexico", "new-york",
	"north-carolina", "north-dakota", "ohio", "oklahoma", "oregon",
	"pennsylvania", "rhode-island", "south-carolina", "south-dakota",
	"tennessee", "texas", "utah", "vermont", "virginia", "washington",
	"west-virginia", "wisconsin", "wyoming",
}

// StateLabel turns "new-hampshire" into "New Hampshire"
func StateLabel(key string) string {
	words := strings.Split(key, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// StateFolder turns "new-hampshire" into "new_hampshire"
func StateFolder(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

// ExpandURL fills the {state} and {state_folder} placeholders of a URL template
func ExpandURL(template, state string) string {
	r := strings.NewReplacer(
		"{state_folder}", StateFolder(state),
		"{state}", state,
	)
	return r.Replace(template)
}
