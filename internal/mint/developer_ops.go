package mint

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errmsg "github.com/webmint/mint-go-cli/internal/errors"
)

// ============================================================================
// DEVELOPER OPERATIONS
// ============================================================================

// Load fetches the developer record for the given email (or the already-set
// email when empty) and populates the entity, resetting prior state
func (d *Developer) Load(ctx context.Context, email string) error {
	id, err := d.requireIdentifier(email)
	if err != nil {
		return err
	}

	req := d.client.http.R().SetContext(ctx)
	d.client.setAuth(req)

	resp, err := req.Get("/" + buildPath(id))
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.MsgFailedToLoadDeveloper, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return d.client.handleError(resp, nil)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return fmt.Errorf("%s: %w", errmsg.MsgFailedToLoadDeveloper, err)
	}
	return d.LoadFromRawData(payload, true)
}

// BankDetails returns the developer's bank detail, loading it on first
// access. A network call only happens on first access or a forced refresh.
func (d *Developer) BankDetails(ctx context.Context, refresh bool) (*BankDetail, error) {
	if d.bankDetail != nil && !refresh {
		return d.bankDetail, nil
	}

	detail := newBankDetail(d.email, d.client)
	if err := detail.Load(ctx); err != nil {
		return nil, err
	}
	d.bankDetail = detail
	return detail, nil
}

// AcceptedRatePlans lists the rate plans this developer has accepted. The
// raw server response is cached per developer id; entities are always
// re-deserialized from the cached bytes, never cached themselves.
func (d *Developer) AcceptedRatePlans(ctx context.Context) ([]*DeveloperRatePlan, error) {
	cacheKey := "developer_accepted_rateplan:" + d.id

	var data []byte
	if d.client.cache != nil {
		if cached, ok := d.client.cache.Get(cacheKey); ok {
			data = cached
		}
	}

	if data == nil {
		req := d.client.http.R().SetContext(ctx)
		d.client.setAuth(req)

		resp, err := req.Get("/" + buildPath(d.email, "developer-accepted-rateplans"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToListRatePlans, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, d.client.handleError(resp, nil)
		}
		data = resp.Body()
		if d.client.cache != nil {
			d.client.cache.Set(cacheKey, data)
		}
	}

	var payload struct {
		DeveloperRatePlan []interface{} `json:"developerRatePlan"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToListRatePlans, err)
	}

	plans := make([]*DeveloperRatePlan, 0, len(payload.DeveloperRatePlan))
	for _, entry := range payload.DeveloperRatePlan {
		plan := &DeveloperRatePlan{DeveloperEmail: d.email}
		if err := plan.loadFromRawData(entry); err != nil {
			return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToListRatePlans, err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// PrepaidBalance retrieves the prepaid balance entries for the developer (or
// ownerID when given). Month and year default to the current calendar month
// and year when zero.
func (d *Developer) PrepaidBalance(ctx context.Context, month time.Month, year int, currencyID, ownerID string) ([]*DeveloperBalance, error) {
	id, err := d.requireIdentifier(ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if month == 0 {
		month = now.Month()
	}
	if year == 0 {
		year = now.Year()
	}

	options := map[string]string{
		"billingMonth": strings.ToUpper(month.String()),
		"billingYear":  strconv.Itoa(year),
	}
	if currencyID != "" {
		options["supportedCurrencyId"] = currencyID
	}

	req := d.client.http.R().
		SetContext(ctx).
		SetQueryParams(options)
	d.client.setAuth(req)

	resp, err := req.Get("/" + buildPath(id, "prepaid-developer-balance"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToGetPrepaidBalance, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, d.client.handleError(resp, options)
	}

	var payload struct {
		DeveloperBalance json.RawMessage `json:"developerBalance"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToGetPrepaidBalance, err)
	}

	entries := []DeveloperBalance{}
	if len(payload.DeveloperBalance) > 0 {
		entries, err = ParseDeveloperBalances(payload.DeveloperBalance)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToGetPrepaidBalance, err)
		}
	}

	balances := make([]*DeveloperBalance, 0, len(entries))
	for i := range entries {
		entries[i].Owner = id
		balances = append(balances, &entries[i])
	}
	return balances, nil
}

// CreatePayment issues a payment request. The address body is XML, the
// response JSON. An HTTP 200 only counts as success when the body does not
// carry an explicit success:false marker: some payment providers report
// business failure inside a 200 response.
func (d *Developer) CreatePayment(ctx context.Context, parameters map[string]string, address string, headers map[string]string, developerOrCompanyID string) (*Payment, error) {
	id, err := d.requireIdentifier(developerOrCompanyID)
	if err != nil {
		return nil, err
	}

	path := "/" + buildPath(id, "payment")
	req := d.client.http.R().
		SetContext(ctx).
		SetQueryParams(parameters).
		SetHeaders(headers).
		SetHeader("Content-Type", "application/xml; charset=utf-8").
		SetHeader("Accept", "application/json; charset=utf-8").
		SetBody(address)
	d.client.setAuth(req)

	resp, err := req.Post(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToCreatePayment, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode(),
			URL:        resp.Request.URL,
			Options:    parameters,
			Message:    "payment server response failed",
			RawBody:    string(resp.Body()),
		}
	}

	var body map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToCreatePayment, err)
	}
	if success, present := body["success"].(bool); present && !success {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode(),
			URL:        resp.Request.URL,
			Options:    parameters,
			Message:    "payment server response unsuccessful",
			RawBody:    string(resp.Body()),
		}
	}

	payment, err := ParsePayment(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToCreatePayment, err)
	}
	return payment, nil
}

// TopUpPrepaidBalance adds funds to the developer's prepaid balance. The
// response body is not parsed.
func (d *Developer) TopUpPrepaidBalance(ctx context.Context, newBalance interface{}, developerOrCompanyID string) error {
	id, err := d.requireIdentifier(developerOrCompanyID)
	if err != nil {
		return err
	}

	req := d.client.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(newBalance)
	d.client.setAuth(req)

	resp, err := req.Post("/" + buildPath(id, "developer-balances"))
	if err != nil {
		return fmt.Errorf("%s: %w", errmsg.MsgFailedToTopUpBalance, err)
	}
	if resp.StatusCode() >= 300 {
		return d.client.handleError(resp, nil)
	}
	return nil
}

// ============================================================================
// REPORT OPERATIONS
// ============================================================================

// reportsBaseURL computes the nested developer report path that temporarily
// replaces the client base URL
func (d *Developer) reportsBaseURL(suffix string) string {
	return d.client.config.BaseURL +
		"/mint/organizations/" + url.PathEscape(d.client.config.Organization) +
		"/developers/" + url.PathEscape(d.email) +
		"/" + suffix
}

// RevenueReport runs a revenue report for the developer and returns the raw
// report output
func (d *Developer) RevenueReport(ctx context.Context, report interface{}) ([]byte, error) {
	var body []byte
	err := d.client.withBaseURL(d.reportsBaseURL("revenue-reports"), func() error {
		req := d.client.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json; charset=utf-8").
			SetHeader("Accept", "application/octet-stream; charset=utf-8").
			SetBody(report)
		d.client.setAuth(req)

		resp, err := req.Post("")
		if err != nil {
			return fmt.Errorf("%s: %w", errmsg.MsgFailedToGetRevenueReport, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return d.client.handleError(resp, nil)
		}
		body = resp.Body()
		return nil
	})
	return body, err
}

// SaveReportDefinition stores a report definition for the developer
func (d *Developer) SaveReportDefinition(ctx context.Context, definition interface{}) error {
	return d.client.withBaseURL(d.reportsBaseURL("report-definitions"), func() error {
		req := d.client.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(definition)
		d.client.setAuth(req)

		resp, err := req.Post("")
		if err != nil {
			return fmt.Errorf("%s: %w", errmsg.MsgFailedToSaveReportDefinition, err)
		}
		if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
			return d.client.handleError(resp, nil)
		}
		return nil
	})
}

// ReportDefinitions lists the report definitions saved for the developer,
// each bound back to this developer
func (d *Developer) ReportDefinitions(ctx context.Context) ([]*RevenueReport, error) {
	var reports []*RevenueReport
	err := d.client.withBaseURL(d.reportsBaseURL("report-definitions"), func() error {
		req := d.client.http.R().SetContext(ctx)
		d.client.setAuth(req)

		resp, err := req.Get("")
		if err != nil {
			return fmt.Errorf("%s: %w", errmsg.MsgFailedToListReportDefs, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return d.client.handleError(resp, nil)
		}

		var payload struct {
			ReportDefinition []interface{} `json:"reportDefinition"`
		}
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return fmt.Errorf("%s: %w", errmsg.MsgFailedToListReportDefs, err)
		}
		for _, entry := range payload.ReportDefinition {
			report := &RevenueReport{developer: d}
			if err := report.loadFromRawData(entry); err != nil {
				return fmt.Errorf("%s: %w", errmsg.MsgFailedToListReportDefs, err)
			}
			reports = append(reports, report)
		}
		return nil
	})
	return reports, err
}

// ============================================================================
// PRODUCT OPERATIONS
// ============================================================================

// RatePlanByProduct retrieves the rate plan associated with a product for
// this developer. Errors carrying a recognized monetization error code are
// re-wrapped into an APIError; all others propagate unchanged.
func (d *Developer) RatePlanByProduct(ctx context.Context, productID, developerID string) (*RatePlan, error) {
	id, err := d.requireIdentifier(developerID)
	if err != nil {
		return nil, err
	}

	req := d.client.http.R().SetContext(ctx)
	d.client.setAuth(req)

	// trailing slash is part of the resource path
	resp, err := req.Get("/" + buildPath(id, "products", productID, "rate-plan-by-developer-product") + "/")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToGetRatePlan, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, wrapMintError(d.client.handleError(resp, nil))
	}

	plan, err := ParseRatePlan(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToGetRatePlan, err)
	}
	return plan, nil
}

// EligibleProducts lists the products this developer is currently permitted
// to purchase, keyed by product name. The organization sub-field is stripped
// from every product.
func (d *Developer) EligibleProducts(ctx context.Context) (map[string]map[string]interface{}, error) {
	if d.email == "" {
		return nil, &ParameterError{Message: errmsg.MsgDeveloperIDRequired}
	}

	req := d.client.http.R().SetContext(ctx)
	d.client.setAuth(req)

	resp, err := req.Get("/" + buildPath(d.email, "eligible-products"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToListEligibleProducts, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, wrapMintError(d.client.handleError(resp, nil))
	}

	var payload struct {
		Product []map[string]interface{} `json:"product"`
	}
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", errmsg.MsgFailedToListEligibleProducts, err)
	}

	products := make(map[string]map[string]interface{}, len(payload.Product))
	for _, product := range payload.Product {
		delete(product, "organization")
		name, _ := product["name"].(string)
		products[name] = product
	}
	return products, nil
}
