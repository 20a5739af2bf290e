package domain

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

type KeyTerms struct {
	Parties           []string `json:"parties"`
	EffectiveDate     string   `json:"effectiveDate"`
	ExpirationDate    string   `json:"expirationDate"`
	TotalValue        string   `json:"totalValue"`
	PaymentTerms      string   `json:"paymentTerms"`
	TerminationClause string   `json:"terminationClause"`
}

type RiskAssessment struct {
	RiskLevel       RiskLevel `json:"riskLevel"`
	RiskFactors     []string  `json:"riskFactors"`
	Recommendations []string  `json:"recommendations"`
}

type PartyObligations struct {
	Party       string   `json:"party"`
	Obligations []string `json:"obligations"`
}

type ContractAnalysis struct {
	DocumentText   string             `json:"documentText"`
	KeyTerms       KeyTerms           `json:"keyTerms"`
	RiskAssessment RiskAssessment     `json:"riskAssessment"`
	Summary        string             `json:"summary"`
	Obligations    []PartyObligations `json:"obligations"`
}

// FallbackContractAnalysis is substituted when the model reply cannot be read as
// an analysis. Every field asks for manual review instead of guessing.
func FallbackContractAnalysis() ContractAnalysis {
	return ContractAnalysis{
		KeyTerms: KeyTerms{
			Parties:           []string{"Party information not clearly identified"},
			EffectiveDate:     "Not specified",
			ExpirationDate:    "Not specified",
			TotalValue:        "Not specified",
			PaymentTerms:      "Payment terms require manual review",
			TerminationClause: "Termination clause requires manual review",
		},
		RiskAssessment: RiskAssessment{
			RiskLevel:       RiskMedium,
			RiskFactors:     []string{"Document requires detailed manual review"},
			Recommendations: []string{"Consult with legal counsel for detailed analysis"},
		},
		Summary: "Contract analysis completed. Complex terms require manual review.",
		Obligations: []PartyObligations{
			{
				Party:       "All Parties",
				Obligations: []string{"Detailed obligations require manual extraction"},
			},
		},
	}
}
