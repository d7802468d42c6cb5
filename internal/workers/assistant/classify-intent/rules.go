// internal/workers/assistant/classify-intent/rules.go
package classifyintent

import (
	"regexp"
	"strings"

	"childcare-assistant/internal/models"
)

// Rule pairs a predicate over lower-cased text with the intent it selects.
type Rule struct {
	Intent models.Intent
	Match  func(q string) bool
}

var (
	documentationNouns = regexp.MustCompile(`\b(documentation|manuals?|handbooks?|pdfs?|bulletins?|forms? library|reference material|policy (manual|documents?)|statutes?)\b`)
	statuteIdentifier  = regexp.MustCompile(`\b\d+\s+pa\.?\s*code\b|\bchapter\s+\d{3,4}\b|\btitle\s+\d+\b`)

	costKeywords = regexp.MustCompile(`\b(costs?|price|prices|tuition|rate|rates|fee|fees|afford|affordability|how much|median|p50|p75|percentile|weekly|monthly)\b`)
	costMoney    = regexp.MustCompile(`\$\s?\d|(\d{2,4}\s?(per|/)\s?(week|wk|month|mo))`)

	providerKeywords = regexp.MustCompile(`\b(near|find|search|within|miles|zip|open|hours|daycare|center|family child care|preschool)\b`)
	postalCode       = regexp.MustCompile(`\b\d{5}\b`)

	eligibilityKeywords = regexp.MustCompile(`\b(eligible|eligibility|qualify|income|apply|application|copay|assistance|subsidy|voucher)\b`)
	ruleKeywords        = regexp.MustCompile(`\b(ratio|ratios|group size|capacity|licensing|regulation|rule|requirement|background check|inspection|health|safety|training|cmr|pa\. code|csr)\b|§`)
	processKeywords     = regexp.MustCompile(`\b(how to|renew|register|become licensed|start a daycare|open a center|background check|fingerprint|orientation)\b`)
	programKeywords     = regexp.MustCompile(`\b(qris|keystone|stars|quality rating|level)\b`)
	contactKeywords     = regexp.MustCompile(`\b(contact|call|phone|email|office|agency|help|support|hotline)\b`)
)

// A bare "documents" is left out of documentationNouns: "what documents do I
// need" asks for an eligibility checklist, not reference material.

// Rules is evaluated in order and the first match wins. Categories overlap,
// so the order is part of the classifier's contract: a price question that
// mentions "center" must stay COST, and a request for the manual on rates
// must stay DOCUMENTATION.
var Rules = []Rule{
	{models.IntentDocumentation, func(q string) bool {
		return documentationNouns.MatchString(q) || statuteIdentifier.MatchString(q)
	}},
	{models.IntentCost, func(q string) bool {
		// a price noun alone already suffices, so an age or setting hint never
		// changes the outcome here
		return costKeywords.MatchString(q) || costMoney.MatchString(q)
	}},
	{models.IntentFindProvider, func(q string) bool {
		return providerKeywords.MatchString(q) || postalCode.MatchString(q)
	}},
	{models.IntentCheckEligibility, eligibilityKeywords.MatchString},
	{models.IntentLookupRule, ruleKeywords.MatchString},
	{models.IntentExplainProcess, processKeywords.MatchString},
	{models.IntentProgramInfo, programKeywords.MatchString},
	{models.IntentContactHelp, contactKeywords.MatchString},
}

// Classify maps free text to an intent. It never fails; GENERAL catches
// everything no rule claims.
func Classify(text string) models.Intent {
	q := strings.ToLower(text)
	for _, r := range Rules {
		if r.Match(q) {
			return r.Intent
		}
	}
	return models.IntentGeneral
}

var jurisdictionToken = regexp.MustCompile(`(?i)\b(AL|AK|AS|AZ|AR|CA|CO|CT|DC|DE|FL|GA|GU|HI|IA|ID|IL|IN|KS|KY|LA|MA|MD|ME|MI|MN|MO|MP|MS|MT|NC|ND|NE|NH|NJ|NM|NV|NY|OH|OK|OR|PA|PR|RI|SC|SD|TN|TX|UT|VA|VI|VT|WA|WI|WV|WY)\b`)

// These codes are also ordinary English words ("in", "or", "me"). They count
// as a jurisdiction only when written in capitals inside text that is not
// itself all capitals.
var commonWords = map[string]bool{
	"al": true, "as": true, "co": true, "de": true, "hi": true, "id": true,
	"in": true, "la": true, "ma": true, "me": true, "mo": true, "oh": true,
	"ok": true, "or": true,
}

// DetectJurisdiction returns the first region code mentioned in text, or
// fallback when there is none.
func DetectJurisdiction(text, fallback string) string {
	shouting := text == strings.ToUpper(text)
	for _, m := range jurisdictionToken.FindAllString(text, -1) {
		code := strings.ToUpper(m)
		if commonWords[strings.ToLower(m)] && (shouting || m != code) {
			continue
		}
		return code
	}
	return fallback
}
