package errors

// Common error messages used across the application
const (
	// MsgOrgRequired is the error message when the organization is not specified
	MsgOrgRequired = "organization is required (use --org flag or set MINT_ORG)"

	// MsgBaseURLRequired is the error message when no base URL is configured
	MsgBaseURLRequired = "base URL is required (set MINT_BASE_URL or --url)"

	// MsgDeveloperIDRequired is returned when an operation needs a developer
	// id or email and neither was supplied
	MsgDeveloperIDRequired = "developer id not specified"

	MsgFailedToLoadDeveloper        = "failed to load developer"
	MsgFailedToSaveDeveloper        = "failed to save developer"
	MsgFailedToLoadBankDetail       = "failed to load bank detail"
	MsgFailedToListRatePlans        = "failed to list accepted rate plans"
	MsgFailedToGetPrepaidBalance    = "failed to get prepaid balance"
	MsgFailedToCreatePayment        = "failed to create payment"
	MsgFailedToTopUpBalance         = "failed to top up prepaid balance"
	MsgFailedToGetRevenueReport     = "failed to get revenue report"
	MsgFailedToSaveReportDefinition = "failed to save report definition"
	MsgFailedToListReportDefs       = "failed to list report definitions"
	MsgFailedToGetRatePlan          = "failed to get rate plan for product"
	MsgFailedToListEligibleProducts = "failed to list eligible products"
)
