package classifier

// Result structured classification of one message. The JSON tags follow the
// contract the external model is instructed to honor.
type Result struct {
	Categories []Category `json:"categorias"`
	Summary    string     `json:"resumen"`

	// Model is the candidate that produced this result; empty on failure.
	Model string `json:"-"`
	// Err is set when every candidate model failed. A failed Result still has
	// an empty category list and summary so callers can proceed.
	Err error `json:"-"`
}

// Category one taxonomy category as reported by the model
type Category struct {
	Name          string        `json:"nombre"`
	Detected      bool          `json:"detectada"`
	Subcategories []Subcategory `json:"subcategorias"`
}

// Subcategory one taxonomy leaf as reported by the model. Confidence is
// clamped into [0,1] at parse time; the raw service value is not trusted.
type Subcategory struct {
	Name       string  `json:"nombre"`
	Detected   bool    `json:"detectada"`
	Value      string  `json:"valor"`
	Confidence float64 `json:"confianza"`
}

// Failed builds the sentinel "classification failed" result.
func Failed(err error) Result {
	return Result{Categories: []Category{}, Summary: "", Err: err}
}
