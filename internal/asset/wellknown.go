package asset

import "strings"

// MajorIssuers is an allow-list of issuer addresses considered "major".
// The value is a display label for the issuer's flagship token.
type MajorIssuers map[string]string

// Contains reports whether the issuer is in the allow-list.
func (m MajorIssuers) Contains(issuer string) bool {
	_, ok := m[issuer]
	return ok
}

// StablecoinKeywords is the keyword set used to classify stablecoin codes.
type StablecoinKeywords []string

// Match reports whether the asset code contains any stablecoin keyword.
func (k StablecoinKeywords) Match(code string) bool {
	upper := strings.ToUpper(code)
	for _, kw := range k {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// DefaultMajorIssuers returns the mainnet issuer allow-list.
func DefaultMajorIssuers() MajorIssuers {
	return MajorIssuers{
		"GA5ZSEJYB37JRC5AVCIA5MOP4RHTM335X2KGX3IHOJAPP5RE34K4KZVN": "USDC",
		"GBNZILSTVQZ4R7IKQDGHYGY2QNO2ARQNMKLY9PJDNRX5WTHLQSZZ4XKZ": "AQUA",
		"GARDNV3Q7YGT4AKSDF25LT32YSCCW4EV22Y2TV3I2PU2MMXJTEDL5T55": "yXLM",
		"GDHU6WRG4IEQXM5NZ4BMPKOXHW76MZM4Y2IEMFDVXBSDP6SJY4ITNPP2": "EURC",
	}
}

// DefaultStablecoinKeywords returns the default stablecoin keyword set.
func DefaultStablecoinKeywords() StablecoinKeywords {
	return StablecoinKeywords{"USD", "EUR", "USDT", "USDC", "EURC", "DAI", "BUSD"}
}
