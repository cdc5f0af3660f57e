package generation

// Wizard steps for which the model can suggest options.
const (
	WizardStepCharactersSettings = "characters-settings"
	WizardStepPlot               = "plot"
)

// CharacterOption is a suggested character for the story wizard.
type CharacterOption struct {
	Name        string `json:"name" validate:"required"`
	Gender      string `json:"gender"`
	Personality string `json:"personality" validate:"required"`
	Background  string `json:"background"`
}

// SettingOption is a suggested setting for the story wizard.
type SettingOption struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Era         string `json:"era"`
}

// CharactersSettingsOptions is the model's answer for the
// characters-settings wizard step.
type CharactersSettingsOptions struct {
	Characters []CharacterOption `json:"characters" validate:"required,min=1,dive"`
	Settings   []SettingOption   `json:"settings" validate:"required,min=1,dive"`
}

// ConflictOption is a suggested central conflict.
type ConflictOption struct {
	Summary string `json:"summary" validate:"required"`
	Tension string `json:"tension"`
}

// EndingOption is a suggested ending direction.
type EndingOption struct {
	Type string `json:"type" validate:"required"`
	Hint string `json:"hint"`
}

// PlotOptions is the model's answer for the plot wizard step.
type PlotOptions struct {
	Conflicts []ConflictOption `json:"conflicts" validate:"required,min=1,dive"`
	StoryTags []string         `json:"storyTags"`
	Endings   []EndingOption   `json:"endings" validate:"dive"`
}

// ParseCharactersSettingsOptions parses and validates wizard output for
// the characters-settings step.
func ParseCharactersSettingsOptions(raw string) (*CharactersSettingsOptions, error) {
	var opts CharactersSettingsOptions
	if err := parseJSON(raw, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// ParsePlotOptions parses and validates wizard output for the plot step.
func ParsePlotOptions(raw string) (*PlotOptions, error) {
	var opts PlotOptions
	if err := parseJSON(raw, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
