package descriptor

// Entry names inside a container.
const (
	EntryName     = "model.ini"
	DomainsFolder = "domains/"
)

// Well-known [info] keys.
const (
	KeyColumns   = "n_columns"
	KeyAlgorithm = "algorithm"
	KeyVersion   = "mojo_version"
	KeyUUID      = "uuid"
)

// Section headers, in the order they must appear.
const (
	sectionInfo    = "[info]"
	sectionColumns = "[columns]"
	sectionDomains = "[domains]"
)

// Setup is the parsed descriptor.
type Setup struct {
	Algorithm string
	Version   string // Empty when mojo_version is absent.

	// Info holds every [info] pair, auto-typed by ParseValue.
	Info map[string]any

	// Raw holds the untyped [info] values.
	Raw map[string]string

	// Columns lists column names in order; the response column is last for supervised models.
	Columns []string

	// DomainRefs maps a column index to its raw reference "<n_labels> <file>".
	DomainRefs map[int]string
}

// Has reports whether key is present in [info].
func (s *Setup) Has(key string) bool {
	_, ok := s.Info[key]
	return ok
}

// Int returns an integer value. Floats with no fractional part are accepted.
func (s *Setup) Int(key string) (int, bool) {
	switch v := s.Info[key].(type) {
	case int64:
		return int(v), true
	case float64:
		if v == float64(int64(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// Float returns a numeric value as float64.
func (s *Setup) Float(key string) (float64, bool) {
	switch v := s.Info[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Bool returns a boolean value.
func (s *Setup) Bool(key string) (bool, bool) {
	v, ok := s.Info[key].(bool)
	return v, ok
}

// String returns a string value.
func (s *Setup) String(key string) (string, bool) {
	v, ok := s.Info[key].(string)
	return v, ok
}

// Floats returns a numeric array value.
func (s *Setup) Floats(key string) ([]float64, bool) {
	v, ok := s.Info[key].([]float64)
	return v, ok
}
