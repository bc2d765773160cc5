package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kapu/isv-directory/internal/domain"
)

// Questions, in the order they appear on a card.
const (
	QuestionPartnerTypes      = "Partner types"
	QuestionTopSIs            = "Top GSIs/SIs in France"
	QuestionFranceNotes       = "France-specific notes"
	QuestionCommonServices    = "Common services"
	QuestionProgramHighlights = "Program highlights"
	QuestionFrenchSpecialists = "French specialists"
)

const maxFranceNotes = 2

type labelledPattern struct {
	label   string
	pattern *regexp.Regexp
}

var partnerTypePatterns = []labelledPattern{
	{"cloud platform partners", regexp.MustCompile(`(?i)cloud platform partners`)},
	{"technology partners", regexp.MustCompile(`(?i)technology partners`)},
	{"OEM partners", regexp.MustCompile(`(?i)OEM partners`)},
	{"resource (services) partners", regexp.MustCompile(`(?i)resource \(services\) partners|resource partners|services partners`)},
	{"consulting partners", regexp.MustCompile(`(?i)consult(ing|ancy) partners`)},
}

var knownSIs = []string{
	// Global GSIs
	"Accenture", "Deloitte", "EY", "KPMG", "PwC", "IBM", "Kyndryl", "NTT Data",
	// Global IT services
	"Capgemini", "Atos", "Eviden", "Sopra Steria", "CGI", "Tata Consultancy Services", "TCS",
	"Infosys", "Wipro", "HCL", "HCLTech", "EPAM", "BearingPoint",
	// France/Europe specialists
	"Devoteam", "Orange Business", "Inetum", "Business & Decision", "Micropole", "Onepoint",
	"OCTO Technology", "Worldline",
}

var siAliases = map[string]string{
	"TCS": "Tata Consultancy Services (TCS)",
	"HCL": "HCLTech",
}

var frenchSpecialists = []string{
	"Devoteam", "Business & Decision", "Sopra Steria", "Orange Business", "Inetum", "Micropole",
	"Onepoint", "OCTO Technology", "Lamarck Group", "Ishango", "OVHcloud",
}

var serviceKeywords = []string{
	"consulting", "implementation", "managed services", "migration", "data architecture",
	"training", "co-selling", "strategy", "integration",
}

var (
	siPatterns         = namePatterns(knownSIs)
	specialistPatterns = namePatterns(frenchSpecialists)
	francePattern      = regexp.MustCompile(`(?i)\b(France|French|Paris)\b`)
	programPattern     = regexp.MustCompile(`(?i)partner program|Gold|Silver|practice|revamp`)
)

// namePatterns matches each name case-insensitively on word boundaries, with
// "&" also accepting "and".
func namePatterns(names []string) []labelledPattern {
	out := make([]labelledPattern, 0, len(names))
	for _, name := range names {
		expr := strings.ReplaceAll(regexp.QuoteMeta(name), "&", "(?:&|and)")
		out = append(out, labelledPattern{
			label:   name,
			pattern: regexp.MustCompile(`(?i)\b` + expr + `\b`),
		})
	}
	return out
}

// BuildAnswers mines a section's text for the facts shown on its card. Facts
// that are not found produce no pair.
func BuildAnswers(content string) []domain.QAPair {
	answers := make([]domain.QAPair, 0, 6)
	add := func(question, answer string) {
		if answer != "" {
			answers = append(answers, domain.QAPair{Question: question, Answer: answer})
		}
	}

	add(QuestionPartnerTypes, strings.Join(FindPartnerTypes(content), ", "))
	add(QuestionTopSIs, strings.Join(FindSIs(content), ", "))
	add(QuestionFranceNotes, strings.Join(FindFranceNotes(content), " "))
	add(QuestionCommonServices, strings.Join(FindServices(content), ", "))
	add(QuestionProgramHighlights, FindProgram(content))
	add(QuestionFrenchSpecialists, strings.Join(FindFrenchSpecialists(content), ", "))
	return answers
}

func FindPartnerTypes(text string) []string {
	found := make([]string, 0)
	for _, p := range partnerTypePatterns {
		if p.pattern.MatchString(text) {
			found = append(found, p.label)
		}
	}
	return uniquePreserveOrder(found)
}

func FindSIs(text string) []string {
	found := make([]string, 0)
	for _, p := range siPatterns {
		if !p.pattern.MatchString(text) {
			continue
		}
		name := p.label
		if alias, ok := siAliases[name]; ok {
			name = alias
		}
		found = append(found, name)
	}
	return uniquePreserveOrder(found)
}

func FindFranceNotes(text string) []string {
	notes := make([]string, 0, maxFranceNotes)
	for _, s := range Sentences(text) {
		if francePattern.MatchString(s) {
			notes = append(notes, s)
			if len(notes) == maxFranceNotes {
				break
			}
		}
	}
	return notes
}

func FindServices(text string) []string {
	low := strings.ToLower(text)
	found := make([]string, 0)
	for _, k := range serviceKeywords {
		if strings.Contains(low, k) {
			found = append(found, k)
		}
	}
	return uniquePreserveOrder(found)
}

// FindProgram returns the first sentence about the partner program, or "".
func FindProgram(text string) string {
	for _, s := range Sentences(text) {
		if programPattern.MatchString(s) {
			return s
		}
	}
	return ""
}

func FindFrenchSpecialists(text string) []string {
	found := make([]string, 0)
	for _, p := range specialistPatterns {
		if p.pattern.MatchString(text) {
			found = append(found, p.label)
		}
	}
	return uniquePreserveOrder(found)
}

// Sentences splits text at whitespace that follows '.', '!' or '?'. Pieces are
// trimmed and empty pieces dropped.
func Sentences(text string) []string {
	out := make([]string, 0)
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) || i == 0 || !isSentenceEnd(runes[i-1]) {
			continue
		}
		j := i
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		out = appendTrimmed(out, string(runes[start:i]))
		start = j
		i = j - 1
	}
	return appendTrimmed(out, string(runes[start:]))
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

func uniquePreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
