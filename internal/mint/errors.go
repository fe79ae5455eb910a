package mint

import "fmt"

// ParameterError indicates a required identifier was missing before a call
// was attempted. No network request is made when this is returned.
type ParameterError struct {
	Message string
}

func (e *ParameterError) Error() string {
	return e.Message
}

// ResponseError represents a failed HTTP exchange: a non-2xx response, or a
// 2xx response whose body signals a business-level failure. It carries the
// status code, request URL and query options, and the raw body so callers
// can diagnose without re-issuing the request.
type ResponseError struct {
	StatusCode int
	URL        string
	Options    map[string]string
	Message    string
	Code       string // platform error code, e.g. "mint.resourceDoesNotExist"
	RawBody    string
}

func (e *ResponseError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (%d) [%s]: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// APIError is a ResponseError whose platform error code belongs to the known
// monetization error-code set. Callers can match on it to distinguish
// monetization business errors from generic transport failures.
type APIError struct {
	Code        string
	Description string
	Response    *ResponseError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mint API error [%s]: %s", e.Code, e.Description)
}

func (e *APIError) Unwrap() error {
	return e.Response
}

// mintErrorCodes is the set of platform error codes that identify a
// monetization business error rather than a generic management failure.
var mintErrorCodes = map[string]string{
	"mint.serviceException":                "an unexpected monetization service error occurred",
	"mint.resourceDoesNotExist":            "the requested resource does not exist",
	"mint.developerDoesNotExist":           "the developer does not exist",
	"mint.productDoesNotExist":             "the product does not exist",
	"mint.developerRatePlanDoesNotExist":   "the developer has not accepted a rate plan",
	"mint.noCurrentPublishedRatePlan":      "no published rate plan is currently available",
	"mint.developerAlreadyExists":          "the developer already exists",
	"mint.insufficientFunds":               "insufficient funds in the prepaid balance",
	"mint.prepaidDeveloperHasNoBalance":    "the prepaid developer has no balance",
	"mint.invalidTransactionDate":          "the transaction date is invalid",
	"mint.developerCurrencyNotDefined":     "no currency is defined for the developer",
	"mint.ratePlanRevisionsOverlap":        "rate plan revisions overlap",
	"mint.productAlreadyPartOfRatePlan":    "the product is already part of the rate plan",
	"mint.developerOnAcceptedRatePlan":     "the developer is already on an accepted rate plan",
	"mint.reportDefinitionAlreadyExists":   "the report definition already exists",
	"mint.organizationDoesNotExistForMint": "the organization is not monetization-enabled",
}

// IsMintErrorCode reports whether err is a ResponseError carrying a
// recognized monetization error code.
func IsMintErrorCode(err error) bool {
	re, ok := err.(*ResponseError)
	if !ok {
		return false
	}
	_, known := mintErrorCodes[re.Code]
	return known
}

// wrapMintError re-wraps a recognized monetization ResponseError into an
// APIError. Unrecognized errors propagate unchanged.
func wrapMintError(err error) error {
	if err == nil {
		return nil
	}
	re, ok := err.(*ResponseError)
	if !ok {
		return err
	}
	desc, known := mintErrorCodes[re.Code]
	if !known {
		return err
	}
	return &APIError{Code: re.Code, Description: desc, Response: re}
}
