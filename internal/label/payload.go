package label

import "strings"

// Payload concatenates the canonical fields into the machine-readable string
// encoded in the Data Matrix symbol. The field order is a wire contract with the
// carrier; the label must already have gone through Prepare.
func Payload(l *Label) string {
	r := l.Recipient
	s := l.Sender

	var b strings.Builder
	b.Grow(128)
	b.WriteString(stripSeparator(r.ZipCode.String()))
	b.WriteString(r.ZipCodeComplement)
	b.WriteString(stripSeparator(s.ZipCode.String()))
	b.WriteString(s.ZipCodeComplement)
	b.WriteString(l.ZipCodeValidator)
	b.WriteString(l.IDV)
	b.WriteString(l.TrackNumber)
	b.WriteString(l.ExtraServices)
	b.WriteString(l.PostCard.String())
	b.WriteString(l.ServiceCode.String())
	b.WriteString(l.Group)
	b.WriteString(r.ZipCodeComplement)
	b.WriteString(r.Complement)
	b.WriteString(l.InvoiceValue.String())
	b.WriteString(leftPad(r.Phone.String(), phoneWidth, '0'))
	b.WriteString(l.Latitude)
	b.WriteString(l.Longitude)
	b.WriteByte('|')
	return b.String()
}

func stripSeparator(zip string) string {
	return strings.ReplaceAll(zip, "-", "")
}
