package usecase

import "strings"

const contractAnalystSystemPrompt = "You are an expert legal contract analyst. Always respond with valid JSON only, no additional text."

const contractAnalysisReasoningEffort = "high"

func buildContractAnalysisPrompt(documentText string) string {
	return `
You are a legal contract analyst. Analyze the following contract and provide a comprehensive analysis in JSON format.

Contract Text:
` + documentText + `

Please provide analysis in this exact JSON structure:
{
  "keyTerms": {
    "parties": ["Party 1", "Party 2"],
    "effectiveDate": "Date or 'Not specified'",
    "expirationDate": "Date or 'Not specified'",
    "totalValue": "Amount or 'Not specified'",
    "paymentTerms": "Payment terms summary",
    "terminationClause": "Termination conditions summary"
  },
  "riskAssessment": {
    "riskLevel": "low|medium|high",
    "riskFactors": ["Risk factor 1", "Risk factor 2"],
    "recommendations": ["Recommendation 1", "Recommendation 2"]
  },
  "summary": "Brief 2-3 sentence summary of the contract",
  "obligations": [
    {
      "party": "Party Name",
      "obligations": ["Obligation 1", "Obligation 2"]
    }
  ]
}

Focus on identifying:
- Key parties and their roles
- Financial terms and payment obligations
- Important dates and deadlines
- Potential risks and red flags
- Termination and renewal conditions
- Compliance requirements
`
}

// extractJSONObject slices the outermost {...} so replies wrapped in prose or
// markdown fences still decode.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
