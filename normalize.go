package sqlauth

import "strings"

// vendorPrefix is the non-canonical tag some stores put in front of bcrypt
// hashes, e.g. "bcrypt$$2b$10$..." for "$2b$10$...".
const vendorPrefix = "bcrypt$$"

// NormalizeHash rewrites a store-specific hash encoding into the canonical
// form the verifier expects: a leading "bcrypt$$" is replaced by "$", the
// rest of the string is preserved byte for byte. Anything else passes
// through unchanged; unrecognized encodings simply fail verification later.
func NormalizeHash(raw string) string {
	if rest, found := strings.CutPrefix(raw, vendorPrefix); found {
		return "$" + rest
	}
	return raw
}
