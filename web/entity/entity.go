// Package entity defines data structures shared by the web layer.
package entity

// Msg is the JSON envelope returned to ajax callers.
type Msg struct {
	Success bool   `json:"success"` // Indicates if the operation was successful
	Msg     string `json:"msg"`     // Response message text
	Obj     any    `json:"obj"`     // Optional data object
}

// FormState carries a submitted form back to its template: the fields as
// entered, per-field validation messages, and an optional form-wide error.
type FormState struct {
	Fields      map[string]string `json:"fields"`
	FieldErrors map[string]string `json:"fieldErrors"`
	FormError   string            `json:"formError"`
}

// NewFormState returns an empty form state ready for rendering.
func NewFormState() *FormState {
	return &FormState{
		Fields:      map[string]string{},
		FieldErrors: map[string]string{},
	}
}

// Invalid reports whether any validation message has been recorded.
func (f *FormState) Invalid() bool {
	return len(f.FieldErrors) > 0 || f.FormError != ""
}
