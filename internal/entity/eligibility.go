package entity

import (
	"strings"
	"unicode"
)

// RejectReason is the stable reason code reported for rows skipped on import.
type RejectReason string

const (
	RejectInvalidEmail   RejectReason = "missing_or_invalid_email"
	RejectPersonalDomain RejectReason = "personal_domain"
)

var personalDomains = map[string]struct{}{
	"gmail.com":      {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"icloud.com":     {},
	"aol.com":        {},
	"protonmail.com": {},
}

type Eligibility struct {
	Eligible bool
	Reason   *RejectReason
}

// ClassifyRow decides whether a candidate row can be imported. Only the
// business email takes part in the decision; websiteURL is accepted for the
// contract and ignored. It never panics, whatever the input.
func ClassifyRow(businessEmail, websiteURL *string) Eligibility {
	if businessEmail == nil {
		return reject(RejectInvalidEmail)
	}
	domain, ok := emailDomain(*businessEmail)
	if !ok {
		return reject(RejectInvalidEmail)
	}
	if IsPersonalDomain(domain) {
		return reject(RejectPersonalDomain)
	}
	return Eligibility{Eligible: true}
}

func IsPersonalDomain(domain string) bool {
	_, ok := personalDomains[strings.ToLower(domain)]
	return ok
}

// emailDomain checks the local@domain.tld shape and returns the domain.
// An address with more than one '@' is rejected outright, so "a@b@c.com"
// is invalid rather than split at its last '@'.
func emailDomain(raw string) (string, bool) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", false
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return "", false
	}
	if strings.Count(email, "@") != 1 {
		return "", false
	}

	at := strings.LastIndex(email, "@")
	local, domain := email[:at], email[at+1:]
	if local == "" || !hasInnerDot(domain) {
		return "", false
	}
	return domain, true
}

// hasInnerDot reports whether s has a '.' with at least one byte on each side.
func hasInnerDot(s string) bool {
	for i := 1; i < len(s)-1; i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

func reject(r RejectReason) Eligibility {
	return Eligibility{Eligible: false, Reason: &r}
}
