package entities

// Merchant is an Alma merchant account.
type Merchant struct{ Base }

func NewMerchant(data map[string]any) Merchant { return Merchant{NewBase(data)} }

// Payment is an installment payment.
type Payment struct{ Base }

func NewPayment(data map[string]any) Payment { return Payment{NewBase(data)} }

// Order is a merchant order attached to a payment.
type Order struct{ Base }

func NewOrder(data map[string]any) Order { return Order{NewBase(data)} }

// Export is a data export job.
type Export struct{ Base }

func NewExport(data map[string]any) Export { return Export{NewBase(data)} }

// Eligibility is the eligibility result for one installments plan.
type Eligibility struct{ Base }

func NewEligibility(data map[string]any) Eligibility { return Eligibility{NewBase(data)} }
