package model

// Category is the prediction category of a model.
type Category int

// Model categories. Values are stable and never renumbered.
const (
	Unknown Category = iota
	Binomial
	Multinomial
	Regression
	Clustering
	AutoEncoder
	DimReduction
)

var categoryNames = [...]string{
	Unknown:      "Unknown",
	Binomial:     "Binomial",
	Multinomial:  "Multinomial",
	Regression:   "Regression",
	Clustering:   "Clustering",
	AutoEncoder:  "AutoEncoder",
	DimReduction: "DimReduction",
}

// String returns the category name as written in the descriptor.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// ParseCategory resolves a descriptor category name.
func ParseCategory(name string) (Category, bool) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	return Unknown, false
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
