package draft

import "strings"

// Form holds the draft field values for an entity being authored (an
// activity, group, profile, or settings record). It accumulates changes and
// hands a snapshot, together with any out-of-band values such as a recurrence
// list or an uploaded image reference, to a caller-supplied persistence
// function on submit.
type Form struct {
	fields map[string]string
}

// NewForm constructs a form seeded with the provided initial values.
func NewForm(initial map[string]string) *Form {
	fields := make(map[string]string, len(initial))
	for name, value := range initial {
		fields[name] = value
	}
	return &Form{fields: fields}
}

// OnChange merges the provided values into the draft, replacing fields that
// are already present.
func (f *Form) OnChange(values map[string]string) {
	if f.fields == nil {
		f.fields = make(map[string]string, len(values))
	}
	for name, value := range values {
		f.fields[name] = value
	}
}

// Value returns the current draft value for a single field.
func (f *Form) Value(name string) string {
	return f.fields[name]
}

// Snapshot returns a copy of the current draft values.
func (f *Form) Snapshot() map[string]string {
	out := make(map[string]string, len(f.fields))
	for name, value := range f.fields {
		out[name] = value
	}
	return out
}

// Validator reports whether a draft is complete enough to submit. Validators
// are advisory: they gate whether a submit control is enabled, nothing more.
type Validator func(fields map[string]string) bool

// Valid evaluates the validator against the current draft. A nil validator
// always passes.
func (f *Form) Valid(validator Validator) bool {
	if validator == nil {
		return true
	}
	return validator(f.Snapshot())
}

// Submit hands the current draft plus the out-of-band extras to persist.
// Validity is intentionally not re-checked here: a caller invoking Submit
// programmatically bypasses the advisory validator, exactly as the submit
// control it models.
func (f *Form) Submit(extras map[string]any, persist func(fields map[string]string, extras map[string]any) error) error {
	if persist == nil {
		return nil
	}
	return persist(f.Snapshot(), extras)
}

// ActivityValidator gates the activity authoring form: a title longer than
// three characters, a description longer than twenty, and an image reference.
func ActivityValidator(fields map[string]string) bool {
	title := strings.TrimSpace(fields["title"])
	description := strings.TrimSpace(fields["longDescription"])
	image := strings.TrimSpace(fields["imageUrl"])
	return len(title) > 3 && len(description) > 20 && image != ""
}
