package workorder

// State is a position in the seven-token line-item grammar
type State int

const (
	StateQuantity State = iota
	StateUnitPrice
	StateTotal
	StateDescription
	StateClassification
	StateReference
	StateProduct
)

var stateNames = map[State]string{
	StateQuantity:       "qty",
	StateUnitPrice:      "unit",
	StateTotal:          "total",
	StateDescription:    "description",
	StateClassification: "ncm",
	StateReference:      "reference",
	StateProduct:        "product",
}

// String returns the short state name
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsValid returns true if the state belongs to the grammar
func (s State) IsValid() bool {
	_, ok := stateNames[s]
	return ok
}
