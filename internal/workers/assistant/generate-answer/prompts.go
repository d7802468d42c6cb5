// internal/workers/assistant/generate-answer/prompts.go
package generateanswer

import (
	"fmt"
	"strings"

	"childcare-assistant/internal/models"
)

const strictJSONSuffix = " Always respond in STRICT JSON matching the schema for this intent. Do not include Markdown or extra text."

const paEligibilityNudge = `
When the state is PA, prefer citing **55 Pa. Code Chapter 3042** sections (e.g., §§ 3042.31–3042.37, 3042.41–3042.44, 3042.91–3042.99) and include URLs to the specific section pages (PA Code and Bulletin).`

const costAnalystPrompt = `You are a %[1]s childcare cost analyst. Answer using the local database table prices_ndcp (median and 75th percentile weekly prices) joined with counties.
Return prices by:
- county_fips OR (state + county name),
- age_group ∈ {"infant","toddler","preschool"} (accept common aliases),
- setting ∈ {"center","family"} (accept "home-based" as family).

Rules:
- If the user provides a county FIPS, use it directly; else resolve by exact county name within %[1]s.
- If age_group or setting is missing, return both settings for all three age groups.
- Default metric is "median". If the user asks for 75th percentile, use p75.
- Return weekly prices by default; if the user requests monthly, convert with ×4.333 (round to 2 decimals).
- Include an explanation of assumptions and what was inferred from the query.

Respond as strict JSON that matches the COST schema:
{
  "state": "PA",
  "county_fips": "42051",
  "county": "Fayette County",
  "queries": [{ "age_group": "infant", "setting": "family", "metric": "median", "units": "weekly" }],
  "answers": [{ "age_group": "infant", "setting": "family", "weekly": { "median": 140.15, "p75": 150.00 }, "monthly": { "median": 607.27, "p75": 649.95 } }],
  "notes": ["Assumed units=weekly; monthly derived with ×4.333."],
  "citations": ["file://NDCP2022.xlsx"]
}

Only include fields defined by the schema.`

// %s is the jurisdiction
var systemTemplates = map[models.Intent]string{
	models.IntentFindProvider:     "You are a childcare provider finder for %s. Use only provider records and linked official pages. Include citation URLs.",
	models.IntentCheckEligibility: "You are a %s childcare assistance explainer. Use only retrieved eligibility documents and cite sections/URLs. Provide a clear checklist.",
	models.IntentLookupRule:       "You are a %s licensing rules assistant. Quote the exact section (§) when possible and provide a brief plain-language explanation.",
	models.IntentExplainProcess:   "You are a %s childcare process guide. Produce numbered steps, requirements, timelines, fees, links, and citations.",
	models.IntentProgramInfo:      "You are a %s quality rating explainer. Define the program, levels/criteria, and benefits. Include citations.",
	models.IntentContactHelp:      "You are a %s childcare contact directory helper. Return the best office for the user’s topic with phone/email and a citation URL.",
	models.IntentDocumentation:    "You are a %s childcare policy librarian. Point to the official documents in the context that answer the question, say briefly what each covers, and cite their titles and URLs.",
	models.IntentCost:             costAnalystPrompt,
}

const generalPrompt = "Be helpful and brief. If the user is asking for childcare info, ask a SINGLE clarifying question to route to an intent."

// SystemPrompt selects the instructions for intent in jurisdiction.
func SystemPrompt(intent models.Intent, jurisdiction string) string {
	prompt := generalPrompt
	if tmpl, ok := systemTemplates[intent]; ok {
		prompt = fmt.Sprintf(tmpl, jurisdiction)
	}
	if intent == models.IntentCheckEligibility && jurisdiction == "PA" {
		prompt += paEligibilityNudge
	}
	return prompt + strictJSONSuffix
}

// UserPrompt frames the question with its retrieved context.
func UserPrompt(intent models.Intent, jurisdiction, question string, docs []models.EvidenceDocument, contextChars int) string {
	return fmt.Sprintf(`Use the context to answer. Cite URLs/sections inside the JSON.

EXPECTED_INTENT: %s
STATE: %s

CONTEXT:
%s

QUESTION: %s

Return ONLY JSON.`, intent, jurisdiction, BuildContext(docs, contextChars), question)
}

// BuildContext renders each document as a numbered block holding at most
// contextChars characters of its content.
func BuildContext(docs []models.EvidenceDocument, contextChars int) string {
	blocks := make([]string, 0, len(docs))
	for i, d := range docs {
		blocks = append(blocks, fmt.Sprintf("#%d\nTITLE: %s\nURL: %s\nCONTENT:\n%s", i+1, d.Title, d.URL, clip(d.Content, contextChars)))
	}
	return strings.Join(blocks, "\n\n---\n\n")
}

func clip(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
