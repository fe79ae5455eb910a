package mint

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	errmsg "github.com/webmint/mint-go-cli/internal/errors"
)

// Developer models a billing-platform developer account. It mirrors the
// remote JSON payload into typed fields and exposes one method per REST
// endpoint under /mint/organizations/{org}/developers.
//
// A Developer is not safe for concurrent mutation; callers must not share
// one instance across concurrent operations.
type Developer struct {
	client *Client

	email           string
	id              string
	name            string
	legalName       string
	phone           string
	registrationId  string
	taxExemptAuthNo string
	approxTaxRate   float64
	status          DeveloperStatus
	developerType   DeveloperType
	billingType     BillingType
	isBroker        bool
	hasSelfBilling  bool
	billingProfile  string
	developerRole   string

	addresses        []Address
	bankDetail       *BankDetail
	parent           *Developer
	category         *DeveloperCategory
	ratePlans        []*DeveloperRatePlan
	organization     *Organization
	customAttributes map[string]string
}

// initValues resets all fields to their defaults
func (d *Developer) initValues() {
	d.addresses = nil
	d.billingType = BillingPrepaid
	d.isBroker = false
	d.email = ""
	d.legalName = ""
	d.name = ""
	d.registrationId = ""
	d.status = StatusActive
	d.developerType = TypeUntrusted
	d.customAttributes = map[string]string{}
}

// ============================================================================
// PAYLOAD MAPPING
// ============================================================================

// excludedPayloadKeys are payload fields handled outside the setter dispatch
// table because they build nested entities or the attribute mapping
var excludedPayloadKeys = map[string]bool{
	"address":           true,
	"organization":      true,
	"ratePlan":          true,
	"parentId":          true,
	"developerCategory": true,
	"customAttributes":  true,
}

// developerSetters maps remote payload field names to setters. Unknown
// payload fields are logged and skipped, never treated as errors, so newer
// server payloads keep working against older clients.
var developerSetters = map[string]func(*Developer, interface{}) error{
	"approxTaxRate": func(d *Developer, v interface{}) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		d.approxTaxRate = f
		return nil
	},
	"billingProfile": stringSetter(func(d *Developer, s string) { d.billingProfile = s }),
	"billingType": func(d *Developer, v interface{}) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		return d.SetBillingType(s)
	},
	"broker": func(d *Developer, v interface{}) error {
		b, err := toBool(v)
		if err != nil {
			return err
		}
		d.isBroker = b
		return nil
	},
	"developerRole": stringSetter(func(d *Developer, s string) { d.developerRole = s }),
	"email":         stringSetter(func(d *Developer, s string) { d.email = s }),
	"hasSelfBilling": func(d *Developer, v interface{}) error {
		b, err := toBool(v)
		if err != nil {
			return err
		}
		d.hasSelfBilling = b
		return nil
	},
	"id":             stringSetter(func(d *Developer, s string) { d.id = s }),
	"legalName":      stringSetter(func(d *Developer, s string) { d.legalName = s }),
	"name":           stringSetter(func(d *Developer, s string) { d.name = s }),
	"phone":          stringSetter(func(d *Developer, s string) { d.phone = s }),
	"registrationId": stringSetter(func(d *Developer, s string) { d.registrationId = s }),
	"status": func(d *Developer, v interface{}) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		return d.SetStatus(s)
	},
	"taxExemptAuthNo": stringSetter(func(d *Developer, s string) { d.taxExemptAuthNo = s }),
	"type": func(d *Developer, v interface{}) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		return d.SetType(s)
	},
}

func stringSetter(assign func(*Developer, string)) func(*Developer, interface{}) error {
	return func(d *Developer, v interface{}) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		assign(d, s)
		return nil
	}
}

func toString(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return val.String(), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("cannot convert %T to string", v)
}

func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case string:
		return strconv.ParseFloat(val, 64)
	case json.Number:
		return val.Float64()
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("cannot convert %T to number", v)
}

func toBool(v interface{}) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		return strconv.ParseBool(val)
	case nil:
		return false, nil
	}
	return false, fmt.Errorf("cannot convert %T to bool", v)
}

// LoadFromRawData populates the developer from an already JSON-decoded server
// payload. When reset is true all fields are reinitialized to defaults first.
// The payload must carry an "id" field; nested entities (addresses,
// organization, rate plans, parent developer, category) are constructed as
// owned copies, never as live references.
func (d *Developer) LoadFromRawData(payload map[string]interface{}, reset bool) error {
	if reset {
		d.initValues()
	}

	for key, value := range payload {
		if excludedPayloadKeys[key] {
			continue
		}
		setter, ok := developerSetters[key]
		if !ok {
			d.client.log("warn", "no setter found for payload field", map[string]interface{}{"field": key})
			continue
		}
		if err := setter(d, value); err != nil {
			return fmt.Errorf("payload field %q: %w", key, err)
		}
	}

	if _, ok := payload["id"]; !ok {
		return fmt.Errorf("developer payload missing required field %q", "id")
	}

	// The address collection branches on cardinality: a single address
	// arrives as an object, multiple as an array.
	switch addr := payload["address"].(type) {
	case []interface{}:
		for _, entry := range addr {
			var a Address
			if err := decodeInto(entry, &a); err != nil {
				return fmt.Errorf("payload field %q: %w", "address", err)
			}
			d.addresses = append(d.addresses, a)
		}
	case map[string]interface{}:
		var a Address
		if err := decodeInto(addr, &a); err != nil {
			return fmt.Errorf("payload field %q: %w", "address", err)
		}
		d.addresses = append(d.addresses, a)
	}

	if rawOrg, ok := payload["organization"]; ok {
		org := &Organization{}
		if err := org.loadFromRawData(rawOrg); err != nil {
			return fmt.Errorf("payload field %q: %w", "organization", err)
		}
		d.organization = org
	}

	if rawPlans, ok := payload["ratePlan"].([]interface{}); ok {
		for _, entry := range rawPlans {
			plan := &DeveloperRatePlan{DeveloperEmail: d.email}
			if err := plan.loadFromRawData(entry); err != nil {
				return fmt.Errorf("payload field %q: %w", "ratePlan", err)
			}
			d.ratePlans = append(d.ratePlans, plan)
		}
	}

	if rawParent, ok := payload["parentId"].(map[string]interface{}); ok {
		parent := d.client.Developer()
		if err := parent.LoadFromRawData(rawParent, false); err != nil {
			return fmt.Errorf("payload field %q: %w", "parentId", err)
		}
		d.parent = parent
	}

	if rawCat, ok := payload["developerCategory"]; ok {
		cat := &DeveloperCategory{}
		if err := decodeInto(rawCat, cat); err != nil {
			return fmt.Errorf("payload field %q: %w", "developerCategory", err)
		}
		d.category = cat
	}

	if rawAttrs, ok := payload["customAttributes"].([]interface{}); ok {
		for _, entry := range rawAttrs {
			attr, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			name, _ := attr["name"].(string)
			if name == "" {
				continue
			}
			// a missing value is tolerated as empty
			value, _ := attr["value"].(string)
			d.customAttributes[name] = value
		}
	}

	return nil
}

// ============================================================================
// ATTRIBUTE PROJECTION
// ============================================================================

// billingAttribute maps one billing-marked field to its attribute-bag entry.
// An empty value string means the field is unset and is skipped on save.
type billingAttribute struct {
	field string
	attr  string
	value func(*Developer) string
}

// attributeName derives the attribute-bag key from a marker-prefixed field
// name by splitting at capitalization boundaries and upper-casing the parts:
// "mintDeveloperLegalName" becomes "MINT_DEVELOPER_LEGAL_NAME".
func attributeName(field string) string {
	var parts []string
	start := 0
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			parts = append(parts, field[start:i])
			start = i
		}
	}
	parts = append(parts, field[start:])
	for i := range parts {
		parts[i] = strings.ToUpper(parts[i])
	}
	return strings.Join(parts, "_")
}

// billingAttributes is the static projection table: only fields carrying the
// "mint" marker are ever written into the generic attribute bag. The
// developer category is deliberately absent: it is an object with no string
// representation. Addresses are handled separately under
// MINT_DEVELOPER_ADDRESS because of the cardinality branch.
var billingAttributes = buildBillingAttributes()

func buildBillingAttributes() []billingAttribute {
	defs := []struct {
		field string
		value func(*Developer) string
	}{
		{"mintApproxTaxRate", func(d *Developer) string {
			if d.approxTaxRate == 0 {
				return ""
			}
			return strconv.FormatFloat(d.approxTaxRate, 'f', -1, 64)
		}},
		{"mintBillingType", func(d *Developer) string { return string(d.billingType) }},
		{"mintIsBroker", func(d *Developer) string {
			if !d.isBroker {
				return ""
			}
			return "true"
		}},
		{"mintHasSelfBilling", func(d *Developer) string {
			if !d.hasSelfBilling {
				return ""
			}
			return "true"
		}},
		{"mintDeveloperLegalName", func(d *Developer) string { return d.legalName }},
		{"mintRegistrationId", func(d *Developer) string { return d.registrationId }},
		{"mintDeveloperPhone", func(d *Developer) string { return d.phone }},
		{"mintTaxExemptAuthNo", func(d *Developer) string { return d.taxExemptAuthNo }},
		{"mintDeveloperType", func(d *Developer) string { return string(d.developerType) }},
	}

	attrs := make([]billingAttribute, 0, len(defs))
	for _, def := range defs {
		attrs = append(attrs, billingAttribute{
			field: def.field,
			attr:  attributeName(def.field),
			value: def.value,
		})
	}
	return attrs
}

const attrDeveloperAddress = "MINT_DEVELOPER_ADDRESS"

// projectAttributes writes the billing-marked fields and custom attributes
// into the given attribute sink
func (d *Developer) projectAttributes(set func(name, value string)) {
	for _, attr := range billingAttributes {
		if value := attr.value(d); value != "" {
			set(attr.attr, value)
		}
	}

	switch len(d.addresses) {
	case 0:
	case 1:
		set(attrDeveloperAddress, d.addresses[0].String())
	default:
		parts := make([]string, len(d.addresses))
		for i, addr := range d.addresses {
			parts[i] = addr.String()
		}
		encoded, _ := json.Marshal(parts)
		set(attrDeveloperAddress, string(encoded))
	}

	for name, value := range d.customAttributes {
		set(name, value)
	}
}

// Save persists the developer. The typed entity is not sent directly: the
// billing-marked fields are re-projected onto the management API's generic
// attribute-bag developer record, which is then saved.
func (d *Developer) Save(ctx context.Context) error {
	managed := newManagedDeveloper(d.id, d.client)
	if err := managed.load(ctx); err != nil {
		return err
	}
	d.projectAttributes(managed.setAttribute)
	return managed.save(ctx)
}

// ============================================================================
// SERIALIZATION
// ============================================================================

// RawMap returns the payload-shaped representation of the developer. Only
// set fields appear; the address collection serializes as null for none, the
// single object for one, and an array for several; the organization is
// reduced to just its id.
func (d *Developer) RawMap() map[string]interface{} {
	obj := map[string]interface{}{}

	obj["address"] = nil
	switch len(d.addresses) {
	case 0:
	case 1:
		obj["address"] = rawValue(d.addresses[0])
	default:
		entries := make([]interface{}, len(d.addresses))
		for i, addr := range d.addresses {
			entries[i] = rawValue(addr)
		}
		obj["address"] = entries
	}

	if d.organization != nil {
		obj["organization"] = map[string]interface{}{"id": d.organization.ID}
	}

	setIf := func(key, value string) {
		if value != "" {
			obj[key] = value
		}
	}
	setIf("email", d.email)
	setIf("id", d.id)
	setIf("name", d.name)
	setIf("legalName", d.legalName)
	setIf("phone", d.phone)
	setIf("registrationId", d.registrationId)
	setIf("taxExemptAuthNo", d.taxExemptAuthNo)
	setIf("billingProfile", d.billingProfile)
	setIf("developerRole", d.developerRole)
	setIf("status", string(d.status))
	setIf("type", string(d.developerType))
	setIf("billingType", string(d.billingType))
	obj["broker"] = d.isBroker
	obj["hasSelfBilling"] = d.hasSelfBilling
	if d.approxTaxRate != 0 {
		obj["approxTaxRate"] = d.approxTaxRate
	}

	if len(d.ratePlans) > 0 {
		plans := make([]interface{}, len(d.ratePlans))
		for i, plan := range d.ratePlans {
			plans[i] = rawValue(plan)
		}
		obj["ratePlan"] = plans
	}
	if d.parent != nil {
		obj["parentId"] = d.parent.RawMap()
	}
	if d.category != nil {
		obj["developerCategory"] = rawValue(d.category)
	}
	if len(d.customAttributes) > 0 {
		names := make([]string, 0, len(d.customAttributes))
		for name := range d.customAttributes {
			names = append(names, name)
		}
		sort.Strings(names)
		attrs := make([]interface{}, 0, len(names))
		for _, name := range names {
			attrs = append(attrs, map[string]interface{}{"name": name, "value": d.customAttributes[name]})
		}
		obj["customAttributes"] = attrs
	}

	return obj
}

// rawValue reduces a typed value to its JSON-decoded map form
func rawValue(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func (d *Developer) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.RawMap())
}

func (d *Developer) String() string {
	data, err := d.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// ============================================================================
// ACCESSORS
// ============================================================================

func (d *Developer) Email() string         { return d.email }
func (d *Developer) SetEmail(email string) { d.email = email }

func (d *Developer) ID() string      { return d.id }
func (d *Developer) SetID(id string) { d.id = id }

func (d *Developer) Name() string        { return d.name }
func (d *Developer) SetName(name string) { d.name = name }

func (d *Developer) LegalName() string        { return d.legalName }
func (d *Developer) SetLegalName(name string) { d.legalName = name }

func (d *Developer) Phone() string         { return d.phone }
func (d *Developer) SetPhone(phone string) { d.phone = phone }

func (d *Developer) RegistrationID() string      { return d.registrationId }
func (d *Developer) SetRegistrationID(id string) { d.registrationId = id }

func (d *Developer) TaxExemptAuthNo() string      { return d.taxExemptAuthNo }
func (d *Developer) SetTaxExemptAuthNo(no string) { d.taxExemptAuthNo = no }

func (d *Developer) ApproxTaxRate() float64        { return d.approxTaxRate }
func (d *Developer) SetApproxTaxRate(rate float64) { d.approxTaxRate = rate }

func (d *Developer) BillingProfile() string            { return d.billingProfile }
func (d *Developer) SetBillingProfile(profile string)  { d.billingProfile = profile }
func (d *Developer) DeveloperRole() string             { return d.developerRole }
func (d *Developer) SetDeveloperRole(role string)      { d.developerRole = role }
func (d *Developer) IsBroker() bool                    { return d.isBroker }
func (d *Developer) SetBroker(broker bool)             { d.isBroker = broker }
func (d *Developer) HasSelfBilling() bool              { return d.hasSelfBilling }
func (d *Developer) SetHasSelfBilling(selfBilled bool) { d.hasSelfBilling = selfBilled }

func (d *Developer) Status() DeveloperStatus { return d.status }

// SetStatus validates the status through the enumeration lookup; invalid
// input fails before any network call
func (d *Developer) SetStatus(status string) error {
	parsed, err := ParseDeveloperStatus(status)
	if err != nil {
		return err
	}
	d.status = parsed
	return nil
}

func (d *Developer) Type() DeveloperType { return d.developerType }

func (d *Developer) SetType(developerType string) error {
	parsed, err := ParseDeveloperType(developerType)
	if err != nil {
		return err
	}
	d.developerType = parsed
	return nil
}

func (d *Developer) BillingType() BillingType { return d.billingType }

func (d *Developer) SetBillingType(billingType string) error {
	parsed, err := ParseBillingType(billingType)
	if err != nil {
		return err
	}
	d.billingType = parsed
	return nil
}

func (d *Developer) Addresses() []Address       { return d.addresses }
func (d *Developer) AddAddress(address Address) { d.addresses = append(d.addresses, address) }
func (d *Developer) ClearAddresses()            { d.addresses = nil }

func (d *Developer) Organization() *Organization       { return d.organization }
func (d *Developer) SetOrganization(org *Organization) { d.organization = org }

func (d *Developer) Parent() *Developer          { return d.parent }
func (d *Developer) SetParent(parent *Developer) { d.parent = parent }

func (d *Developer) Category() *DeveloperCategory       { return d.category }
func (d *Developer) SetCategory(cat *DeveloperCategory) { d.category = cat }

func (d *Developer) RatePlans() []*DeveloperRatePlan  { return d.ratePlans }
func (d *Developer) AddRatePlan(p *DeveloperRatePlan) { d.ratePlans = append(d.ratePlans, p) }

// CustomAttribute returns an attribute associated with the developer, or
// false if the attribute does not exist
func (d *Developer) CustomAttribute(name string) (string, bool) {
	value, ok := d.customAttributes[name]
	return value, ok
}

func (d *Developer) SetCustomAttribute(name, value string) {
	if d.customAttributes == nil {
		d.customAttributes = map[string]string{}
	}
	d.customAttributes[name] = value
}

func (d *Developer) CustomAttributes() map[string]string { return d.customAttributes }

// Applications returns the application resource bound to this developer
func (d *Developer) Applications() *Application {
	return newApplication(d.email, d.client)
}

// requireIdentifier resolves the identifier to target in an endpoint call,
// failing fast with a ParameterError when none is available
func (d *Developer) requireIdentifier(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if d.email != "" {
		return d.email, nil
	}
	return "", &ParameterError{Message: errmsg.MsgDeveloperIDRequired}
}
