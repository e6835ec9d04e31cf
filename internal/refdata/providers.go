package refdata

import "strings"

// CommonProviders lists the major mail providers used for the
// common-domain feature and for typo-distance scoring.
var CommonProviders = []string{
	"gmail.com", "googlemail.com",
	"yahoo.com", "yahoo.co.uk",
	"outlook.com", "hotmail.com", "live.com", "msn.com",
	"icloud.com", "me.com",
	"aol.com",
	"protonmail.com", "proton.me",
	"zoho.com",
	"yandex.com",
	"mail.com",
	"gmx.com", "gmx.net",
	"fastmail.com",
}

// popularTLDs are top-level domains considered mainstream. Domains with
// other TLDs are penalized but not disqualified.
var popularTLDs = map[string]struct{}{
	"com": {}, "org": {}, "net": {}, "edu": {}, "gov": {}, "mil": {},
	"io": {}, "co": {}, "us": {}, "uk": {}, "de": {}, "fr": {}, "ca": {},
	"au": {}, "jp": {}, "nl": {}, "it": {}, "es": {}, "ch": {}, "se": {},
	"info": {}, "biz": {}, "me": {}, "dev": {}, "app": {},
}

// IsCommonProvider reports whether domain is one of the major providers.
func IsCommonProvider(domain string) bool {
	domain = strings.ToLower(domain)
	for _, p := range CommonProviders {
		if domain == p {
			return true
		}
	}
	return false
}

// IsPopularTLD reports whether the top-level domain of domain is in the
// mainstream set. A domain without a dot has no TLD and reports false.
func IsPopularTLD(domain string) bool {
	idx := strings.LastIndex(domain, ".")
	if idx < 0 || idx == len(domain)-1 {
		return false
	}
	_, ok := popularTLDs[strings.ToLower(domain[idx+1:])]
	return ok
}
