package label

import "strconv"

// VerificationDigit returns the postal verification digit for a ZIP code: the
// amount that brings the digit sum up to the next multiple of ten. Separators
// are skipped and any other non-digit counts as zero.
func VerificationDigit(zip string) string {
	sum := 0
	for _, r := range zip {
		if r >= '0' && r <= '9' {
			sum += int(r - '0')
		}
	}
	return strconv.Itoa((10 - sum%10) % 10)
}
