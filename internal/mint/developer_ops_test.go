package mint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundDeveloper(t *testing.T, serverURL, email, id string) *Developer {
	t.Helper()
	dev := testClient(t, serverURL).Developer()
	dev.SetEmail(email)
	dev.SetID(id)
	return dev
}

func TestDeveloperLoad(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "test-user", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"123","email":"a@b.com","name":"dev-a","status":"ACTIVE","billingType":"POSTPAID"}`))
	})
	defer server.Close()

	dev := testClient(t, server.URL).Developer()
	err := dev.Load(context.Background(), "a@b.com")

	require.NoError(t, err)
	assert.Equal(t, "123", dev.ID())
	assert.Equal(t, "dev-a", dev.Name())
	assert.Equal(t, BillingPostpaid, dev.BillingType())
}

func TestAcceptedRatePlans_CachesRawResponse(t *testing.T) {
	hits := 0
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/developer-accepted-rateplans", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"developerRatePlan":[{"id":"rp-1","startDate":"2026-01-01"},{"id":"rp-2"}]}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	ctx := context.Background()

	plans, err := dev.AcceptedRatePlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "rp-1", plans[0].ID)
	assert.Equal(t, "a@b.com", plans[0].DeveloperEmail)

	// the second call decodes from the cached raw response
	plans, err = dev.AcceptedRatePlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.Equal(t, 1, hits)
}

func TestAcceptedRatePlans_NoCache(t *testing.T) {
	hits := 0
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"developerRatePlan":[]}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	dev.client.SetResponseCache(nil)
	ctx := context.Background()

	_, err := dev.AcceptedRatePlans(ctx)
	require.NoError(t, err)
	_, err = dev.AcceptedRatePlans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestPrepaidBalance(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/prepaid-developer-balance", r.URL.Path)
		assert.Equal(t, "MARCH", r.URL.Query().Get("billingMonth"))
		assert.Equal(t, "2026", r.URL.Query().Get("billingYear"))
		assert.Equal(t, "usd", r.URL.Query().Get("supportedCurrencyId"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"developerBalance":[{"amount":150.5,"usage":20,"supportedCurrency":{"id":"usd","displayName":"US Dollar"}}]}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	balances, err := dev.PrepaidBalance(context.Background(), time.March, 2026, "usd", "")

	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "a@b.com", balances[0].Owner)
	assert.Equal(t, 150.5, balances[0].Amount)
	require.NotNil(t, balances[0].SupportedCurrency)
	assert.Equal(t, "usd", balances[0].SupportedCurrency.ID)
}

func TestPrepaidBalance_DefaultsToCurrentMonth(t *testing.T) {
	now := time.Now()
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/comp-1/prepaid-developer-balance", r.URL.Path)
		assert.Equal(t, strings.ToUpper(now.Month().String()), r.URL.Query().Get("billingMonth"))
		assert.Equal(t, strconv.Itoa(now.Year()), r.URL.Query().Get("billingYear"))
		assert.Empty(t, r.URL.Query().Get("supportedCurrencyId"))
		w.Write([]byte(`{"developerBalance":[]}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	_, err := dev.PrepaidBalance(context.Background(), 0, 0, "", "comp-1")
	require.NoError(t, err)
}

func TestCreatePayment_SuccessFalseFails(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/payment", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"errorCode":"DECLINED"}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	_, err := dev.CreatePayment(context.Background(), map[string]string{"provider": "worldpay"}, "<payment/>", nil, "")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusOK, respErr.StatusCode)
	assert.Contains(t, respErr.Message, "unsuccessful")
	assert.Contains(t, respErr.RawBody, "DECLINED")
	assert.Equal(t, "worldpay", respErr.Options["provider"])
}

func TestCreatePayment_Success(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/xml; charset=utf-8", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"orderCode":"ord-7","amount":25}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	payment, err := dev.CreatePayment(context.Background(), nil, "<payment/>", map[string]string{"X-Request-Id": "r1"}, "")

	require.NoError(t, err)
	assert.Equal(t, "ord-7", payment.OrderCode)
	assert.Equal(t, 25.0, payment.Amount)
}

func TestCreatePayment_Non200Fails(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	_, err := dev.CreatePayment(context.Background(), nil, "<payment/>", nil, "")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadGateway, respErr.StatusCode)
	assert.Contains(t, respErr.Message, "failed")
}

func TestTopUpPrepaidBalance(t *testing.T) {
	var body map[string]interface{}
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/comp-1/developer-balances", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	err := dev.TopUpPrepaidBalance(context.Background(), map[string]interface{}{"amount": 100}, "comp-1")

	require.NoError(t, err)
	assert.Equal(t, 100.0, body["amount"])
}

func TestRatePlanByProduct(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/products/prod-1/rate-plan-by-developer-product/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"plan-1","name":"Standard","type":"STANDARD"}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	plan, err := dev.RatePlanByProduct(context.Background(), "prod-1", "")

	require.NoError(t, err)
	assert.Equal(t, "plan-1", plan.ID)
	assert.Equal(t, "Standard", plan.Name)
}

func TestRatePlanByProduct_NoIdentifier(t *testing.T) {
	hits := 0
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) { hits++ })
	defer server.Close()

	dev := testClient(t, server.URL).Developer() // no email set
	_, err := dev.RatePlanByProduct(context.Background(), "prod-1", "")

	var paramErr *ParameterError
	require.ErrorAs(t, err, &paramErr)
	assert.Equal(t, 0, hits, "no network call may happen on a parameter error")
}

func TestRatePlanByProduct_MintErrorRewrapped(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"mint.developerRatePlanDoesNotExist","message":"no accepted plan"}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	_, err := dev.RatePlanByProduct(context.Background(), "prod-1", "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "mint.developerRatePlanDoesNotExist", apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.Response.StatusCode)
}

func TestRatePlanByProduct_UnrecognizedErrorPropagates(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"auth.forbidden","message":"nope"}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	_, err := dev.RatePlanByProduct(context.Background(), "prod-1", "")

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "auth.forbidden", respErr.Code)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestEligibleProducts(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/eligible-products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"product":[
			{"name":"weather","displayName":"Weather API","organization":{"id":"org-1"}},
			{"name":"traffic","displayName":"Traffic API"}
		]}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	products, err := dev.EligibleProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Weather API", products["weather"]["displayName"])
	assert.NotContains(t, products["weather"], "organization")
}

func TestEligibleProducts_RequiresEmail(t *testing.T) {
	dev := testClient(t, "http://example.invalid").Developer()
	_, err := dev.EligibleProducts(context.Background())

	var paramErr *ParameterError
	require.ErrorAs(t, err, &paramErr)
}

func TestReportDefinitions(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/report-definitions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reportDefinition":[{"id":"rd-1","name":"monthly","type":"REVENUE"}]}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	original := dev.client.http.BaseURL

	reports, err := dev.ReportDefinitions(context.Background())

	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "monthly", reports[0].Name)
	assert.Same(t, dev, reports[0].Developer())
	assert.Equal(t, original, dev.client.http.BaseURL)
}

func TestReportDefinitions_RestoresBaseURLOnError(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"broken"}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	original := dev.client.http.BaseURL

	_, err := dev.ReportDefinitions(context.Background())

	require.Error(t, err)
	assert.Equal(t, original, dev.client.http.BaseURL,
		"base URL override must be restored on failure paths")
}

func TestRevenueReport(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/revenue-reports", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/octet-stream; charset=utf-8", r.Header.Get("Accept"))
		w.Write([]byte("report,data\n1,2\n"))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	body, err := dev.RevenueReport(context.Background(), map[string]interface{}{"fromDate": "2026-01-01"})

	require.NoError(t, err)
	assert.Equal(t, "report,data\n1,2\n", string(body))
	assert.Equal(t, server.URL+"/mint/organizations/test-org/developers", dev.client.http.BaseURL)
}

func TestSaveReportDefinition(t *testing.T) {
	var posted map[string]interface{}
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/report-definitions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	err := dev.SaveReportDefinition(context.Background(), map[string]interface{}{"name": "monthly"})

	require.NoError(t, err)
	assert.Equal(t, "monthly", posted["name"])
}

func TestBankDetails_LazyLoad(t *testing.T) {
	hits := 0
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "/mint/organizations/test-org/developers/a@b.com/bank-details", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"bd-1","accountNumber":"0001","currency":"USD"}`))
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	ctx := context.Background()

	detail, err := dev.BankDetails(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "bd-1", detail.ID)
	assert.Equal(t, 1, hits)

	_, err = dev.BankDetails(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "cached bank detail must not trigger a request")

	_, err = dev.BankDetails(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, hits, "refresh must force a reload")
}

func TestSave_ProjectsOntoAttributeBag(t *testing.T) {
	var saved map[string]interface{}
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/organizations/test-org/developers/123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case "GET":
			w.Write([]byte(`{"email":"a@b.com","attributes":[{"name":"EXISTING","value":"kept"}]}`))
		case "POST":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			w.Write([]byte(`{}`))
		}
	})
	defer server.Close()

	dev := boundDeveloper(t, server.URL, "a@b.com", "123")
	dev.SetName("not projected")
	dev.SetLegalName("Dev A Inc")
	dev.SetCustomAttribute("TIER", "gold")
	dev.AddAddress(Address{City: "Austin"})
	original := dev.client.http.BaseURL

	require.NoError(t, dev.Save(context.Background()))
	assert.Equal(t, original, dev.client.http.BaseURL)

	attrs := map[string]string{}
	for _, raw := range saved["attributes"].([]interface{}) {
		attr := raw.(map[string]interface{})
		attrs[attr["name"].(string)] = attr["value"].(string)
	}

	assert.Equal(t, "kept", attrs["EXISTING"])
	assert.Equal(t, "Dev A Inc", attrs["MINT_DEVELOPER_LEGAL_NAME"])
	assert.Equal(t, "gold", attrs["TIER"])
	assert.Contains(t, attrs["MINT_DEVELOPER_ADDRESS"], "Austin")
	assert.NotContains(t, attrs, "NAME")
}
