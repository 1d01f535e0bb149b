// Package classify assigns financial-statement semantics to transactions
// via an ordered, first-match-wins rule table. Classification is a pure
// function of (description, signed amount): deterministic, explainable,
// and independent of sibling rows.
package classify

import (
	"regexp"
	"strings"
)

// Tokens are the analyst-maintained token lists the default patterns are
// parameterized by. Kept conservative; extend via configuration.
type Tokens struct {
	SalaryEmployers []string `yaml:"salary_employers"`
	Insurers        []string `yaml:"insurers"`
	SelfEntities    []string `yaml:"self_entities"`
}

// DefaultTokens returns the built-in token lists.
func DefaultTokens() Tokens {
	return Tokens{
		SalaryEmployers: []string{
			"HP", "MICROSOFT", "ABBOTT", "CHANGI AIRPORT GROUP", "KERING",
		},
		Insurers: []string{
			"AIA", "PRUDENTIAL", "GREAT EASTERN", "NTUC",
			"MANULIFE", "AVIVA", "AXA", "HSBC LIFE",
		},
		SelfEntities: []string{
			"WEILUN", "SAM", "SAMANTHA", "SAMANTHA SEAH",
			"TRUST BANK",
		},
	}
}

// issuer is one recognized card issuer with its settlement markers.
type issuer struct {
	name     string
	patterns []*regexp.Regexp
}

// rail is one payment-rail marker. Rail tagging is informational only; it
// is explicitly not economic meaning.
type rail struct {
	name    string
	pattern *regexp.Regexp
}

// Config is the immutable compiled pattern table the engine evaluates
// against. Construct once via NewConfig and pass explicitly; there is no
// hidden module state.
type Config struct {
	tokens Tokens

	balanceBF     []*regexp.Regexp
	interest      []*regexp.Regexp
	salary        []*regexp.Regexp
	tax           []*regexp.Regexp
	mortgage      []*regexp.Regexp
	condoFees     []*regexp.Regexp
	propertyDown  []*regexp.Regexp
	renovation    []*regexp.Regexp
	carFinance    []*regexp.Regexp
	transfer      []*regexp.Regexp
	trustInternal []*regexp.Regexp
	insInflow     []*regexp.Regexp
	insOutflow    []*regexp.Regexp
	cpf           []*regexp.Regexp
	municipal     []*regexp.Regexp
	govPayout     []*regexp.Regexp
	telecom       []*regexp.Regexp
	transit       []*regexp.Regexp
	bankFees      []*regexp.Regexp

	issuers []issuer
	rails   []rail
}

// NewConfig compiles the pattern tables once.
func NewConfig(tokens Tokens) *Config {
	return &Config{
		tokens: tokens,

		balanceBF: compile(`\bBALANCE\s+B/F\b`),
		interest: compile(
			`\bINTEREST\s+CREDIT\b`,
			`\bBONUS\s+INTEREST\b`,
		),
		salary: compile(
			`\bSALARY\s+PAYMENT\b`,
			`\bGIRO\s+SALA\b`,
		),
		tax: compile(
			`\bIRAS\b`,
			`\bINCOME\s+TAX\b`,
			`\bPROPERTY\s+TAX\b`,
			`\bITX\b`,
			`\bPTXP\b`,
		),
		mortgage: compile(
			`\bTRF\.\s*WD\.\s*LOANS\b`,
			`\bWD\.\s*LOANS\b`,
			`\bMORTGAGE\b`,
			`\bHOUSING\s+LOAN\b`,
		),
		condoFees: compile(
			`\bMCST\b`,
			`\bMANAGEMENT\s+CORP\b`,
		),
		propertyDown: compile(
			`\bCHEQUE\s+WITHDRAWAL\b`,
			`\bDR\s+CO\s+CHARGES\b`,
			`\bCO-\d{6}-\d{3}\b`,
		),
		renovation: compile(
			`\bBUILD\s+BUILT\b`,
			`\bRENOV\b`,
			`\bCONTRACTOR\b`,
			`\bCARPENTRY\b`,
		),
		carFinance: compile(
			`\bHONG\s+LEONG\s+FINANCE\b`,
			`\bHLF-\d+\b`,
		),
		transfer: compile(
			`\bFUNDS\s+TRF\b`,
			`\bTRANSFER\b`,
			`\bOTHR\s+TRANSFER\b`,
		),
		trustInternal: compile(
			`\bTRUST\s+BANK\b.*\bOTHR\s+TRANSFER\b`,
			`\bOTHR\s+TRANSFER\b.*\bTRUST\s+BANK\b`,
		),
		insInflow:  compile(`\bINWARD\s+CR\b`, `\bCR\s*-\s*GIRO\b`),
		insOutflow: compile(`\bINWARD\s+DR\b`, `\bDR\s*-\s*GIRO\b`),

		cpf: compile(
			`\bCPF\b`,
			`\bRETIREMENT\s+(SUM\s+)?TOP[\s-]?UP\b`,
		),
		municipal: compile(
			`\bTOWN\s+COUNCIL\b`,
			`\bS&CC\b`,
			`\bCONSERVANCY\b`,
		),
		govPayout: compile(
			`\bGOVT\b`,
			`\bGOV\s+PAYOUT\b`,
			`\bGST\s+VOUCHER\b`,
			`\bCDC\s+VOUCHER\b`,
		),
		telecom: compile(
			`\bSINGTEL\b`,
			`\bSTARHUB\b`,
			`\bM1\b`,
			`\bCIRCLES\.?LIFE\b`,
		),
		transit: compile(
			`\bEZ[\s-]?LINK\b`,
			`\bTRANSIT\s*LINK\b`,
			`\bSIMPLYGO\b`,
			`\bSMRT\b`,
			`\bSBS\s+TRANSIT\b`,
		),
		bankFees: compile(
			`\bCHEQUE\s+CHARGES\b`,
			`\bSERVICE\s+CHARGE\b`,
			`\bFALL\s+BELOW\s+FEE\b`,
			`\bBANK\s+CHARGES\b`,
			`\bCARD\s+FEE\b`,
		),

		issuers: []issuer{
			{"CITI", compile(`\bCITI\b`)},
			{"SCB", compile(`\bSCB\b`, `\bSTANDARD\s+CHARTERED\b`)},
			{"HSBC", compile(`\bHSBC\b`)},
			{"UOB", compile(`\bUOB\b`)},
			{"OCBC", compile(`\bOCBC\b`)},
			{"AMEX", compile(`\bAMEX\b`, `\bAMERICAN\s+EXPRESS\b`)},
		},
		rails: []rail{
			{"GIRO", regexp.MustCompile(`\bGIRO\b`)},
			{"FAST", regexp.MustCompile(`\bFAST\b`)},
			{"PAYNOW", regexp.MustCompile(`\bPAYNOW\b`)},
			{"NETS", regexp.MustCompile(`\bNETS\b`)},
			{"ATM", regexp.MustCompile(`\bATM\b|\bCASH\s+WITHDRAWAL\b`)},
			{"CHEQUE", regexp.MustCompile(`\bCHEQUE\b`)},
			{"CARD", regexp.MustCompile(`\bBILL\s+PAYMENT\b|\bMBK-\w+\s+CC\b|\bUOB\s+CARDS\b|\bCARD(S)?\b`)},
		},
	}
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func hasAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// InferRail tags the payment rail of a description, OTHER when unknown.
func (c *Config) InferRail(descUpper string) string {
	for _, r := range c.rails {
		if r.pattern.MatchString(descUpper) {
			return r.name
		}
	}
	return "OTHER"
}

// detectIssuer returns the recognized card issuer named in the
// description, or "".
func (c *Config) detectIssuer(descUpper string) string {
	for _, iss := range c.issuers {
		if hasAny(descUpper, iss.patterns) {
			return iss.name
		}
	}
	return ""
}

// containsToken reports whether any token appears as a substring of the
// upper-cased description.
func containsToken(descUpper string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(descUpper, strings.ToUpper(t)) {
			return true
		}
	}
	return false
}

// firstToken returns the first matching token, or fallback.
func firstToken(descUpper string, tokens []string, fallback string) string {
	for _, t := range tokens {
		if strings.Contains(descUpper, strings.ToUpper(t)) {
			return t
		}
	}
	return fallback
}
