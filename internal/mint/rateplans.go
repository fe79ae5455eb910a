package mint

// RatePlan is a billing plan published for a product or package
type RatePlan struct {
	ID                  string                   `json:"id,omitempty"`
	Name                string                   `json:"name,omitempty"`
	DisplayName         string                   `json:"displayName,omitempty"`
	Description         string                   `json:"description,omitempty"`
	Type                string                   `json:"type,omitempty"`
	StartDate           string                   `json:"startDate,omitempty"`
	EndDate             string                   `json:"endDate,omitempty"`
	MonetizationPackage map[string]interface{}   `json:"monetizationPackage,omitempty"`
	Details             []map[string]interface{} `json:"ratePlanDetails,omitempty"`
}

func (r *RatePlan) loadFromRawData(raw interface{}) error {
	return decodeInto(raw, r)
}

// DeveloperRatePlan is a rate plan a developer has accepted, bound to that
// developer's email
type DeveloperRatePlan struct {
	DeveloperEmail string    `json:"-"`
	ID             string    `json:"id,omitempty"`
	StartDate      string    `json:"startDate,omitempty"`
	EndDate        string    `json:"endDate,omitempty"`
	Created        string    `json:"created,omitempty"`
	Updated        string    `json:"updated,omitempty"`
	RatePlan       *RatePlan `json:"ratePlan,omitempty"`
}

func (d *DeveloperRatePlan) loadFromRawData(raw interface{}) error {
	return decodeInto(raw, d)
}
