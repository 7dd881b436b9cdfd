package template

// builtinTemplates returns the templates compiled into the binary. They are
// always available, so a missing or empty registry source never leaves the
// renderer without styling.
func builtinTemplates() map[string]Template {
	return map[string]Template{
		"modern_blue": {
			Name:        "Modern Blue",
			Description: "Dark blue headers with a light accent, the house style",
			Colors: map[string]string{
				"primary":           "#2c3e50",
				"accent":            "#3498db",
				"muted":             "#7f8c8d",
				"row_alt":           "#f8f9fa",
				"rule":              "#e9ecef",
				"table_header_text": "#ffffff",
				"footer":            "#808080",
			},
			Fonts: map[string]Font{
				"title":        {Family: "Helvetica", Style: "B", Size: 28},
				"body":         {Family: "Helvetica", Size: 10},
				"small":        {Family: "Helvetica", Size: 9},
				"table_header": {Family: "Helvetica", Style: "B", Size: 10},
				"total":        {Family: "Helvetica", Style: "B", Size: 12},
				"footer":       {Family: "Helvetica", Size: 9},
			},
			Spacing: map[string]float64{
				"section_gap":    15,
				"line_height":    16,
				"table_padding":  6,
				"rule_thickness": 1,
			},
			Features: []string{"logo", "alternating_rows"},
		},
		"classic_serif": {
			Name:        "Classic Serif",
			Description: "Conservative serif variant for formal correspondence",
			Colors: map[string]string{
				"primary":           "#1f2933",
				"accent":            "#5d6d7e",
				"muted":             "#85929e",
				"row_alt":           "#f4f6f6",
				"rule":              "#d5dbdb",
				"table_header_text": "#ffffff",
				"footer":            "#808080",
			},
			Fonts: map[string]Font{
				"title":        {Family: "Times", Style: "B", Size: 26},
				"body":         {Family: "Times", Size: 10},
				"small":        {Family: "Times", Size: 9},
				"table_header": {Family: "Times", Style: "B", Size: 10},
				"total":        {Family: "Times", Style: "B", Size: 12},
				"footer":       {Family: "Times", Style: "I", Size: 9},
			},
			Spacing: map[string]float64{
				"section_gap":    14,
				"line_height":    15,
				"table_padding":  5,
				"rule_thickness": 1,
			},
			Features: []string{"logo"},
		},
	}
}
