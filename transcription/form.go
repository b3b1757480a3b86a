package transcription

// Field names one editable option.
type Field int

const (
	FieldLanguage Field = iota
	FieldDetectLanguage
	FieldMultiLanguage
	FieldAutoPunctuation
	FieldPunctuationStyle
	FieldToneAnalysis
)

// String returns the field's JSON name.
func (f Field) String() string {
	switch f {
	case FieldLanguage:
		return "language"
	case FieldDetectLanguage:
		return "detectLanguage"
	case FieldMultiLanguage:
		return "multiLanguage"
	case FieldAutoPunctuation:
		return "autoPunctuation"
	case FieldPunctuationStyle:
		return "punctuationStyle"
	case FieldToneAnalysis:
		return "toneAnalysis"
	default:
		return "unknown"
	}
}

// Form is the editable options model behind the upload form. It starts from
// DefaultOptions and changes only through its setters. Turning a controlling
// flag off never clears the fields that depend on it, so turning it back on
// restores what the user had chosen.
//
// A Form is not safe for concurrent use.
type Form struct {
	opts Options
}

// NewForm returns a form holding DefaultOptions.
func NewForm() *Form {
	return &Form{opts: DefaultOptions()}
}

// NewFormFrom returns a form holding opts. Values outside the closed
// enumerations are replaced by their defaults.
func NewFormFrom(opts Options) *Form {
	def := DefaultOptions()
	if !opts.Language.Valid() {
		opts.Language = def.Language
	}
	if !opts.PunctuationStyle.Valid() {
		opts.PunctuationStyle = def.PunctuationStyle
	}
	return &Form{opts: opts}
}

// Options returns a copy of the current values.
func (f *Form) Options() Options {
	return f.opts
}

// Enabled reports whether a field is currently editable.
func (f *Form) Enabled(field Field) bool {
	switch field {
	case FieldLanguage:
		return !f.opts.DetectLanguage
	case FieldMultiLanguage:
		return f.opts.DetectLanguage
	case FieldPunctuationStyle:
		return f.opts.AutoPunctuation
	default:
		return true
	}
}

// SetLanguage stores l. Unknown languages are ignored.
func (f *Form) SetLanguage(l Language) {
	if l.Valid() {
		f.opts.Language = l
	}
}

// SetDetectLanguage stores v. Language and multiLanguage keep their values.
func (f *Form) SetDetectLanguage(v bool) { f.opts.DetectLanguage = v }

// SetMultiLanguage stores v.
func (f *Form) SetMultiLanguage(v bool) { f.opts.MultiLanguage = v }

// SetAutoPunctuation stores v. PunctuationStyle keeps its value.
func (f *Form) SetAutoPunctuation(v bool) { f.opts.AutoPunctuation = v }

// SetPunctuationStyle stores p. Unknown styles are ignored.
func (f *Form) SetPunctuationStyle(p PunctuationStyle) {
	if p.Valid() {
		f.opts.PunctuationStyle = p
	}
}

// SetToneAnalysis stores v.
func (f *Form) SetToneAnalysis(v bool) { f.opts.ToneAnalysis = v }

// ToggleDetectLanguage flips detectLanguage.
func (f *Form) ToggleDetectLanguage() { f.opts.DetectLanguage = !f.opts.DetectLanguage }

// ToggleMultiLanguage flips multiLanguage. It is a no-op while the field is disabled.
func (f *Form) ToggleMultiLanguage() {
	if f.Enabled(FieldMultiLanguage) {
		f.opts.MultiLanguage = !f.opts.MultiLanguage
	}
}

// ToggleAutoPunctuation flips autoPunctuation.
func (f *Form) ToggleAutoPunctuation() { f.opts.AutoPunctuation = !f.opts.AutoPunctuation }

// ToggleToneAnalysis flips toneAnalysis.
func (f *Form) ToggleToneAnalysis() { f.opts.ToneAnalysis = !f.opts.ToneAnalysis }

// Effective derives the server-bound options from the current values.
func (f *Form) Effective() EffectiveOptions {
	return Effective(f.opts)
}
