package label

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"correioszpl/internal/failures"
)

// Truncation ceilings for recipient fields, in characters.
const (
	maxAddressLen      = 50
	maxComplementLen   = 20
	maxNeighborhoodLen = 50
	maxCityLen         = 50

	invoiceValueWidth  = 5
	zipComplementWidth = 5
	phoneWidth         = 12
)

var trackGroups = []int{2, 3, 3, 3, 2}

// Prepare validates the label sections and rewrites the record into canonical
// form in place. It fails before touching anything when a section is missing.
func Prepare(l *Label) error {
	switch {
	case l == nil:
		return failures.Validation("label", "no label information supplied")
	case l.Recipient == nil:
		return failures.Validation("recipient", "recipient section is required")
	case l.Sender == nil:
		return failures.Validation("sender", "sender section is required")
	}

	r := l.Recipient
	s := l.Sender

	if s.ZipCode == "" {
		s.ZipCode = DefaultZipCode
	}
	s.ZipCodeComplement = leftPad(s.AddressNumber.String(), zipComplementWidth, '0')

	if r.ZipCode == "" {
		r.ZipCode = DefaultZipCode
	}
	r.ZipCodeComplement = leftPad(r.AddressNumber.String(), zipComplementWidth, '0')

	r.Address.Address = truncate(r.Address.Address, maxAddressLen)
	// Trim again after the cut so a space at the limit cannot survive.
	r.Complement = strings.TrimSpace(truncate(strings.TrimSpace(r.Complement), maxComplementLen))
	r.Neighborhood = truncate(r.Neighborhood, maxNeighborhoodLen)
	r.City = truncate(r.City, maxCityLen)

	s.ZipCode = Text(FormatZipCode(s.ZipCode.String()))
	r.ZipCode = Text(FormatZipCode(r.ZipCode.String()))

	l.InvoiceValue = AmountText(FormatInvoiceValue(l.InvoiceValue))
	l.HumanTrackNumber = HumanTrackNumber(l.TrackNumber)
	l.ZipCodeValidator = VerificationDigit(r.ZipCode.String())

	l.IDV = IDV
	l.Group = Group
	l.ExtraServices = l.Services.Code()
	l.Latitude = PlaceholderLatitude
	l.Longitude = PlaceholderLongitude
	return nil
}

// FormatZipCode inserts the separator into an 8-digit ZIP that lacks one.
// Codes that already contain a separator are returned unchanged.
func FormatZipCode(zip string) string {
	if strings.Contains(zip, "-") {
		return zip
	}
	return clamp(zip, 0, 5) + "-" + clamp(zip, 5, 8)
}

// FormatInvoiceValue renders the invoice value as a 5-digit zero-padded string.
// Numbers are rounded to the nearest integer; text keeps only what precedes the
// first dot.
func FormatInvoiceValue(a Amount) string {
	value := strings.TrimSpace(a.Value)
	if a.Numeric {
		if d, err := decimal.NewFromString(value); err == nil {
			value = d.Round(0).String()
		}
	} else if idx := strings.Index(value, "."); idx >= 0 {
		value = value[:idx]
	}
	return leftPad(value, invoiceValueWidth, '0')
}

// HumanTrackNumber groups a 13-character tracking code as 2-3-3-3-2 separated
// by spaces. Shorter codes yield short or empty groups.
func HumanTrackNumber(track string) string {
	groups := make([]string, 0, len(trackGroups))
	start := 0
	for _, width := range trackGroups {
		groups = append(groups, clamp(track, start, start+width))
		start += width
	}
	return strings.Join(groups, " ")
}

// clamp slices s[from:to] with both bounds clamped to the string length.
func clamp(s string, from, to int) string {
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}

func leftPad(s string, width int, pad rune) string {
	missing := width - utf8.RuneCountInString(s)
	if missing <= 0 {
		return s
	}
	return strings.Repeat(string(pad), missing) + s
}
