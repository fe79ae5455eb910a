package mint

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ============================================================================
// ENUMERATED FIELD TYPES
// ============================================================================

// DeveloperStatus is the account status of a developer
type DeveloperStatus string

const (
	StatusActive   DeveloperStatus = "ACTIVE"
	StatusInactive DeveloperStatus = "INACTIVE"
)

// ParseDeveloperStatus validates a status value. Invalid input fails before
// any network call is made.
func ParseDeveloperStatus(s string) (DeveloperStatus, error) {
	switch DeveloperStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusActive:
		return StatusActive, nil
	case StatusInactive:
		return StatusInactive, nil
	}
	return "", fmt.Errorf("invalid developer status %q", s)
}

// DeveloperType indicates the trust level of a developer
type DeveloperType string

const (
	TypeTrusted   DeveloperType = "TRUSTED"
	TypeUntrusted DeveloperType = "UNTRUSTED"
)

// ParseDeveloperType validates a developer type value
func ParseDeveloperType(s string) (DeveloperType, error) {
	switch DeveloperType(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeTrusted:
		return TypeTrusted, nil
	case TypeUntrusted:
		return TypeUntrusted, nil
	}
	return "", fmt.Errorf("invalid developer type %q", s)
}

// BillingType is the billing arrangement of a developer
type BillingType string

const (
	BillingPrepaid  BillingType = "PREPAID"
	BillingPostpaid BillingType = "POSTPAID"
	BillingBoth     BillingType = "BOTH"
)

// ParseBillingType validates a billing type value
func ParseBillingType(s string) (BillingType, error) {
	switch BillingType(strings.ToUpper(strings.TrimSpace(s))) {
	case BillingPrepaid:
		return BillingPrepaid, nil
	case BillingPostpaid:
		return BillingPostpaid, nil
	case BillingBoth:
		return BillingBoth, nil
	}
	return "", fmt.Errorf("invalid billing type %q", s)
}

// ============================================================================
// VALUE TYPES
// ============================================================================

// Address is a postal address attached to a developer
type Address struct {
	ID        string `json:"id,omitempty"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// String returns the JSON representation of the address, which is also the
// form stored in the MINT_DEVELOPER_ADDRESS attribute.
func (a Address) String() string {
	data, _ := json.Marshal(a)
	return string(data)
}

// SupportedCurrency identifies a currency configured for the organization
type SupportedCurrency struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// DeveloperBalance is one entry of a prepaid balance response
type DeveloperBalance struct {
	Owner             string             `json:"-"` // developer or company id the balance belongs to
	ID                string             `json:"id,omitempty"`
	Amount            float64            `json:"amount,omitempty"`
	Usage             float64            `json:"usage,omitempty"`
	IsRecurring       bool               `json:"isRecurring,omitempty"`
	SupportedCurrency *SupportedCurrency `json:"supportedCurrency,omitempty"`
}

// Payment is the parsed result of a successful payment request
type Payment struct {
	ID          string  `json:"id,omitempty"`
	OrderCode   string  `json:"orderCode,omitempty"`
	ReferenceID string  `json:"referenceId,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	Success     bool    `json:"success,omitempty"`
}

// DeveloperCategory groups developers for reporting purposes
type DeveloperCategory struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// decodeInto converts an already JSON-decoded map into a typed value
func decodeInto(raw interface{}, target interface{}) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
