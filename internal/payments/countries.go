package payments

import "strings"

const notSupported = "(not supported)"

// Countries maps ISO codes to display names. Names carrying "(not supported)"
// are listed so sellers can find them but cannot be selected.
var Countries = map[string]string{
	"AE": "United Arab Emirates",
	"AR": "Argentina (not supported)",
	"AT": "Austria",
	"AU": "Australia",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"BR": "Brazil (not supported)",
	"CA": "Canada",
	"CH": "Switzerland",
	"CN": "China (not supported)",
	"CY": "Cyprus",
	"CZ": "Czech Republic",
	"DE": "Germany",
	"DK": "Denmark",
	"EE": "Estonia",
	"ES": "Spain",
	"FI": "Finland",
	"FR": "France",
	"GB": "United Kingdom",
	"GR": "Greece",
	"HK": "Hong Kong",
	"HR": "Croatia",
	"HU": "Hungary",
	"IE": "Ireland",
	"IL": "Israel",
	"IN": "India",
	"IT": "Italy",
	"JP": "Japan",
	"KR": "Korea, Republic of",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"LV": "Latvia",
	"MT": "Malta",
	"MX": "Mexico",
	"NG": "Nigeria (not supported)",
	"NL": "Netherlands",
	"NO": "Norway",
	"NZ": "New Zealand",
	"PH": "Philippines",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"RU": "Russian Federation (not supported)",
	"SE": "Sweden",
	"SG": "Singapore",
	"SI": "Slovenia",
	"SK": "Slovakia",
	"TH": "Thailand",
	"TR": "Turkey",
	"US": "United States",
	"ZA": "South Africa",
}

// Supported reports whether code names a country sellers may select.
func Supported(countries map[string]string, code string) bool {
	name, ok := countries[code]
	return ok && !strings.Contains(name, notSupported)
}
