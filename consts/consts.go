package consts

const (
	HeaderAuthorization  = "Authorization"
	HeaderUserAgent      = "User-Agent"
	HeaderCookie         = "Cookie"
	HeaderAccept         = "Accept"
	HeaderContentType    = "Content-Type"
	HeaderAlmaSignature  = "X-Alma-Signature"
	AuthSchemeAPIKey     = "Alma-Auth"
	AuthSchemeMerchantID = "Alma-Merchant-Auth"

	ContentTypeJSON = "application/json"

	DefaultSessionCookieName = "alma_sess"

	// LiveAPIKeyPrefix marks API keys issued for the live environment.
	LiveAPIKeyPrefix = "sk_live"
)

// Base URLs.
const (
	LiveAPIURL    = "https://api.getalma.eu"
	SandboxAPIURL = "https://api.sandbox.getalma.eu"
)

// Merchants endpoint paths.
const (
	MerchantsPath  = "/v1/merchants"
	MePath         = "/v1/me"
	ExtendedMePath = "/v1/me/extended-data"
)

// Payments endpoint paths.
const (
	PaymentsPath                = "/v1/payments"
	PaymentsEligibilityPath     = "/v1/payments/eligibility"
	PaymentTriggerSuffix        = "trigger"
	PaymentPotentialFraudSuffix = "potential-fraud"
	PaymentRefundSuffix         = "refund"
	PaymentOrdersSuffix         = "orders"
)

// Orders endpoint paths.
const (
	OrdersPath = "/v1/orders"
)

// Data exports endpoint paths.
const (
	DataExportsPath = "/v1/data-exports"
)

// ExportFormat is a file format a data export can be downloaded in.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatJSON ExportFormat = "json"
)
