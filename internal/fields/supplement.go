package fields

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ECNUser/factiva2csv/internal/record"
)

var (
	keywordsRe    = regexp.MustCompile(`Keywords for this news article include:\s*(.+)`)
	bodyBylineRe  = regexp.MustCompile(`--\s*By\s+([^-\n]+)`)
	companyRe     = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&.\-]*(?:\s+[A-Z][A-Za-z0-9&.\-]*){0,6}\s+(?:(?:Inc|Corp|Ltd|Co|S\.A)\.|(?:Corporation|Limited|Group|Company|PLC|LLC|AG)\b))`)
	companyLines  = 30
	geographies   = map[string]struct{}{}
	industryHints = []string{
		"finance", "investment", "materials", "technology", "energy", "healthcare", "pharmaceutical",
		"mining", "metals", "oil", "gas", "shipping", "logistics", "automotive", "real estate", "telecom", "ai", "chip",
	}
)

func init() {
	for _, g := range []string{
		"Asia", "China", "Hong Kong", "Macau", "Macao", "Taiwan", "United States", "U.S.", "US", "UK", "Europe",
		"Beijing", "Shanghai", "Japan", "Korea", "South Korea", "North Korea", "Germany", "France", "Netherlands",
		"Ireland", "Switzerland", "Latin America", "Australia", "Canada", "Singapore", "India", "Russia", "Africa", "Middle East",
	} {
		geographies[g] = struct{}{}
	}
}

// supplement fills gaps from the body: keyword lists, company names, the
// document id and a trailing "-- By" credit.
func (b *block) supplement() {
	body := b.out[record.Body]
	if body == "" {
		return
	}
	if m := keywordsRe.FindStringSubmatch(body); m != nil {
		topics, regions, industries := splitKeywords(m[1])
		b.fill(record.Topics, topics)
		b.fill(record.Regions, regions)
		b.fill(record.Industries, industries)
	}
	if !b.has(record.Companies) {
		lines := strings.Split(body, "\n")
		if len(lines) > companyLines {
			lines = lines[:companyLines]
		}
		sample := b.out[record.Headline] + "\n" + strings.Join(lines, "\n")
		b.fill(record.Companies, companies(sample))
	}
	if !b.has(record.DocumentID) {
		b.set(record.DocumentID, record.FindDocumentID(body))
	}
	if !b.has(record.Byline) {
		if m := bodyBylineRe.FindStringSubmatch(body); m != nil {
			b.set(record.Byline, m[1])
		}
	}
}

func (b *block) fill(k record.Key, values []string) {
	if b.has(k) || len(values) == 0 {
		return
	}
	b.set(k, strings.Join(values, "\n"))
}

// splitKeywords sorts a comma-separated keyword list into topics, regions
// and industries.
func splitKeywords(kw string) (topics, regions, industries []string) {
	kw = strings.TrimSuffix(strings.TrimSpace(kw), ".")
	for _, p := range strings.Split(kw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := geographies[p]; ok {
			regions = append(regions, p)
			continue
		}
		if hasIndustryHint(p) {
			industries = append(industries, p)
			continue
		}
		topics = append(topics, p)
	}
	return topics, regions, industries
}

func hasIndustryHint(p string) bool {
	l := strings.ToLower(p)
	for _, h := range industryHints {
		if strings.Contains(l, h) {
			return true
		}
	}
	return false
}

// companies returns the distinct company names in text, sorted.
func companies(text string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range companyRe.FindAllStringSubmatch(text, -1) {
		name := strings.Join(strings.Fields(m[1]), " ")
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
