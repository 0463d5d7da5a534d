package mitrisk

import "strings"

// DomainConfig is the TavoAI classification assigned to an MIT risk domain.
type DomainConfig struct {
	Subdomain string
	Category  string
	Severity  string
}

// defaultDomainConfig classifies risks whose domain is not in the mapping.
var defaultDomainConfig = DomainConfig{
	Subdomain: "general",
	Category:  "security",
	Severity:  "medium",
}

// domainMapping maps MIT risk domains to TavoAI categories.
var domainMapping = map[string]DomainConfig{
	"Discrimination & Toxicity":   {Subdomain: "discrimination", Category: "ethics", Severity: "high"},
	"Privacy & Security":          {Subdomain: "security-privacy", Category: "security", Severity: "high"},
	"Misinformation":              {Subdomain: "misinformation", Category: "ethics", Severity: "medium"},
	"Malicious Actors":            {Subdomain: "malicious-use", Category: "security", Severity: "critical"},
	"Human-Computer Interaction":  {Subdomain: "human-computer-interaction", Category: "ethics", Severity: "medium"},
	"Sociotechnical Harms":        {Subdomain: "sociotechnical-risks", Category: "ethics", Severity: "high"},
	"AI Harms to the Environment": {Subdomain: "environmental", Category: "ethics", Severity: "medium"},
}

// ClassifyDomain returns the TavoAI classification for an MIT risk domain.
func ClassifyDomain(domain string) DomainConfig {
	if cfg, ok := domainMapping[domain]; ok {
		return cfg
	}
	return defaultDomainConfig
}

// domainSlug normalizes a domain name into a standards identifier
// ("Privacy & Security" -> "privacy-and-security").
func domainSlug(domain string) string {
	s := strings.ToLower(domain)
	s = strings.ReplaceAll(s, " ", "-")
	return strings.ReplaceAll(s, "&", "and")
}

var iso42001Mapping = map[string][]string{
	"Discrimination & Toxicity":   {"6.2.2", "7.7.1"},
	"Privacy & Security":          {"7.5.1", "7.5.2"},
	"Misinformation":              {"7.3.1", "8.2.3"},
	"Malicious Actors":            {"7.5.1", "8.2.1"},
	"Human-Computer Interaction":  {"8.2.3"},
	"Sociotechnical Harms":        {"7.7.1"},
	"AI Harms to the Environment": {"6.2.2"},
}

var nistMapping = map[string][]string{
	"Discrimination & Toxicity":   {"MEASURE-2.2", "VALIDATE-2.3"},
	"Privacy & Security":          {"PROTECT-3.1", "PROTECT-3.2"},
	"Misinformation":              {"VALIDATE-2.1", "VALIDATE-2.3"},
	"Malicious Actors":            {"PROTECT-3.1", "VALIDATE-2.1"},
	"Human-Computer Interaction":  {"VALIDATE-2.3"},
	"Sociotechnical Harms":        {"GOVERN-1.4"},
	"AI Harms to the Environment": {"MEASURE-2.2"},
}

var cweMapping = map[string][]string{
	"Discrimination & Toxicity":   {"CWE-710", "CWE-20"},
	"Privacy & Security":          {"CWE-200", "CWE-359"},
	"Misinformation":              {"CWE-502", "CWE-20"},
	"Malicious Actors":            {"CWE-284", "CWE-502"},
	"Human-Computer Interaction":  {"CWE-710"},
	"Sociotechnical Harms":        {"CWE-710"},
	"AI Harms to the Environment": {"CWE-710"},
}

var capecMapping = map[string][]string{
	"Discrimination & Toxicity":   {"CAPEC-183", "CAPEC-165"},
	"Privacy & Security":          {"CAPEC-167", "CAPEC-118"},
	"Misinformation":              {"CAPEC-183", "CAPEC-184"},
	"Malicious Actors":            {"CAPEC-550", "CAPEC-137"},
	"Human-Computer Interaction":  {"CAPEC-114", "CAPEC-183"},
	"Sociotechnical Harms":        {"CAPEC-165"},
	"AI Harms to the Environment": {"CAPEC-165"},
}

func mapStandard(mapping map[string][]string, domain string, fallback []string) []string {
	if ids, ok := mapping[domain]; ok {
		return ids
	}
	return fallback
}
