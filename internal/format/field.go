package format

// Field is the state of one self-formatting input. It remembers the raw
// value, the display string and the current error for a single preset.
type Field struct {
	preset   Preset
	state    Result
	onChange func(raw string)
}

// NewField returns an empty field for p. onChange, when set, receives the
// raw value after every input.
func NewField(p Preset, onChange func(raw string)) *Field {
	return &Field{
		preset:   p,
		state:    Result{Valid: true},
		onChange: onChange,
	}
}

// Preset returns the active preset
func (f *Field) Preset() Preset {
	return f.preset
}

// SetPreset switches the input type. Any change of type clears raw, display and error.
func (f *Field) SetPreset(p Preset) {
	if p.ID == f.preset.ID {
		return
	}
	f.preset = p
	f.Reset()
}

// Reset clears the field without changing its type
func (f *Field) Reset() {
	f.state = Result{Valid: true}
}

// Input processes a new value typed by the user
func (f *Field) Input(value string) Result {
	f.state = f.preset.Apply(value)
	if f.onChange != nil {
		f.onChange(f.state.Raw)
	}
	return f.state
}

// State returns the current raw, display and error
func (f *Field) State() Result {
	return f.state
}

// Raw returns the last raw value
func (f *Field) Raw() string { return f.state.Raw }

// Display returns the formatted value
func (f *Field) Display() string { return f.state.Display }

// Error returns the validation message, "" when the value is valid
func (f *Field) Error() string { return f.state.Error }
