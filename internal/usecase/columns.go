package usecase

import "strings"

// SkipColumn is the explicit mapping value meaning "do not map this field".
const SkipColumn = "__skip__"

var (
	BusinessEmailAliases = []string{
		"business email", "businessemail", "business_email", "email", "e-mail",
		"email address", "work email", "company email",
	}
	WebsiteURLAliases = []string{
		"website url", "websiteurl", "website_url", "website", "url", "site",
		"company website", "domain", "web",
	}
)

// ResolveHeaderIndex finds the column for one field. An explicit mapping
// wins when it names a header exactly (case-sensitive); SkipColumn always
// yields -1. Otherwise headers are scanned in order and the first one equal
// to any alias, ignoring case and surrounding spaces, wins.
func ResolveHeaderIndex(headers []string, aliases []string, explicitMapping string) int {
	if explicitMapping == SkipColumn {
		return -1
	}
	if explicitMapping != "" {
		for i, h := range headers {
			if h == explicitMapping {
				return i
			}
		}
	}

	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		for _, alias := range aliases {
			if strings.EqualFold(h, alias) {
				return i
			}
		}
	}
	return -1
}
