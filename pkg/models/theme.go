package models

// Theme is a named pair of palette tokens used by the terminal renderer.
// Pure presentation; the only constraint is membership in the fixed set.
type Theme struct {
	Name    string `json:"name"`
	Accent  string `json:"accent"`
	Neutral string `json:"neutral"`
}

// Themes is the fixed palette set. Accent/Neutral are ANSI 256 color codes.
var Themes = []Theme{
	{Name: "indigo", Accent: "63", Neutral: "245"},
	{Name: "emerald", Accent: "42", Neutral: "245"},
	{Name: "rose", Accent: "204", Neutral: "245"},
	{Name: "amber", Accent: "214", Neutral: "245"},
	{Name: "slate", Accent: "109", Neutral: "244"},
}

// DefaultTheme is what a fresh store reports before any preference is saved.
func DefaultTheme() Theme {
	return Themes[0]
}

// ThemeByName looks a theme up by name; ok is false for unknown names.
func ThemeByName(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
