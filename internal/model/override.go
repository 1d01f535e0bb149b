package model

// Override is one analyst-authored correction, keyed by transaction ID.
// Empty string fields mean "not supplied" and never overwrite classifier
// output. BaselineEligible is tri-state: nil means not supplied.
type Override struct {
	TxnID             string
	CashflowStatement string
	EconomicL1        string
	EconomicL2        string
	ManagerialL1      string
	ManagerialL2      string
	BaselineEligible  *bool
	Reason            string
	Enabled           bool
	OverrideID        string // audit id, "OVR_0001" style, assigned at load
}
