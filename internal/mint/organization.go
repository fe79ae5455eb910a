package mint

// Organization is the monetization organization a developer belongs to.
// It is loaded by value from nested payloads: an owned snapshot, not a live
// reference.
type Organization struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Country     string `json:"country,omitempty"`
	Currency    string `json:"currency,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Status      string `json:"status,omitempty"`
}

func (o *Organization) loadFromRawData(raw interface{}) error {
	return decodeInto(raw, o)
}
