package mint

// RevenueReport is a saved report definition belonging to a developer
type RevenueReport struct {
	developer *Developer

	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type,omitempty"`
	Criteria    map[string]interface{} `json:"mintCriteria,omitempty"`
}

// Developer returns the developer this report definition is bound to
func (r *RevenueReport) Developer() *Developer {
	return r.developer
}

func (r *RevenueReport) loadFromRawData(raw interface{}) error {
	return decodeInto(raw, r)
}
