package model

// RecordType separates real transactions from statement summary lines.
type RecordType string

const (
	RecordTransaction RecordType = "TRANSACTION"
	RecordSummary     RecordType = "SUMMARY"
)

// FlowNature is the directional nature of a cashflow.
type FlowNature string

const (
	FlowIncome   FlowNature = "INCOME"
	FlowExpense  FlowNature = "EXPENSE"
	FlowTransfer FlowNature = "TRANSFER"
	FlowNonCash  FlowNature = "NON-CASH"
)

// CashflowSection is the cashflow-statement section a transaction lands in.
type CashflowSection string

const (
	CFSOperating CashflowSection = "OPERATING"
	CFSInvesting CashflowSection = "INVESTING"
	CFSFinancing CashflowSection = "FINANCING"
	CFSTransfer  CashflowSection = "TRANSFER"
	CFSNonCash   CashflowSection = "NON-CASH"
)

// StabilityClass describes how recurring a transaction is expected to be.
type StabilityClass string

const (
	StabilityStructural StabilityClass = "STRUCTURAL_RECURRING"
	StabilitySemi       StabilityClass = "SEMI_RECURRING"
	StabilityVariable   StabilityClass = "VARIABLE"
	StabilityOneOff     StabilityClass = "ONE_OFF"
)

// AssetContext ties a transaction to the asset class it relates to.
type AssetContext string

const (
	AssetGeneral   AssetContext = "GENERAL"
	AssetProperty  AssetContext = "PROPERTY"
	AssetCar       AssetContext = "CAR"
	AssetFinancial AssetContext = "FINANCIAL"
	AssetUnknown   AssetContext = "UNKNOWN"
)

// EventTag marks transactions belonging to a known life event.
type EventTag string

const (
	EventNone        EventTag = "NONE"
	EventRenovation  EventTag = "RENOVATION"
	EventPropertyAcq EventTag = "PROPERTY_ACQ"
	EventTax         EventTag = "TAX_EVENT"
)

// ClassificationResult is the full taxonomy assigned to one transaction.
// Exactly one result exists per transaction and it is immutable once
// produced; RuleID records which rule fired so every outcome is traceable.
type ClassificationResult struct {
	RecordType        RecordType
	FlowNature        FlowNature
	CashflowStatement CashflowSection
	EconomicL1        string
	EconomicL2        string
	AssetContext      AssetContext
	StabilityClass    StabilityClass
	BaselineEligible  bool
	EventTag          EventTag
	BankRail          string // payment rail; informational, not economic meaning
	RuleID            string
	RuleExplanation   string
	ManagerialL1      string
	ManagerialL2      string
	IsCCSettlement    bool
}

// LedgerRow is a transaction with its classification and override audit
// trail attached. Rows are regenerated on every pipeline run and never
// hand-edited.
type LedgerRow struct {
	Transaction
	Class ClassificationResult

	WasOverridden     bool
	OverrideIDApplied string
	OverrideReason    string // append-only; " | "-joined across corrections
}
