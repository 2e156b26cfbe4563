package zpl

import (
	"fmt"
	"strconv"
	"strings"

	"correioszpl/internal/label"
)

// DefaultDarkness is the ^MD level used when the caller leaves it unset.
const DefaultDarkness = 20

// Document carries everything the template needs. Label must already have
// been through label.Prepare.
type Document struct {
	Label         *label.Label
	MailLogo      string
	Symbol        string
	DarknessLevel int
	// CustomLogo is printed top-left only when it is a ^GF directive.
	CustomLogo string
}

// Assemble renders the label document. Output is a pure function of doc: it
// starts with ^XA, ends with ^XZ and holds one directive group per line.
func Assemble(doc Document) string {
	l := doc.Label
	r := l.Recipient
	s := l.Sender

	darkness := doc.DarknessLevel
	if darkness <= 0 {
		darkness = DefaultDarkness
	}

	var b builder
	b.line("^XA")
	b.line("^CI28")
	b.linef("^MD%d", darkness)

	if strings.HasPrefix(doc.CustomLogo, "^GF") {
		b.linef("^FO40,50%s^FS", doc.CustomLogo)
	}
	b.linef("^FO305,50%s^FS", doc.Symbol)
	b.linef("^FO620,50%s^FS", doc.MailLogo)

	b.line("^CF0,40")
	b.linef("^FO245,342^A@N,0,40,E:ARI001.FNT^FD%s^FS", l.HumanTrackNumber)

	if l.Weight > 0 {
		b.linef("^CF0,20^FO50,340^FDPeso (g): %s^FS", strconv.FormatFloat(l.Weight, 'f', -1, 64))
	}
	if l.Invoice != "" {
		b.linef("^CF0,20^FO610,340^FDNF: %s^FS", l.Invoice)
	}
	if l.PLP != "" {
		b.linef("^FO610,250^A@N,0,16,E:ARI000.FNT^FDPLP: %s^FS", l.PLP)
	}
	if l.Contract != "" {
		b.linef("^FO610,270^A@N,0,16,E:ARI000.FNT^FDContrato: %s^FS", l.Contract)
	}
	if l.ServiceName != "" {
		b.linef("^FO610,290^A@N,0,16,E:ARI000.FNT^FDServiço: %s^FS", l.ServiceName)
	}

	b.line("^BY4,2,160")
	b.linef("^FO50,385^BC^FD%s^FS", l.TrackNumber)

	// Delivery receipt block.
	b.line("^CF0,20")
	b.line("^FO50,600^FDRecebedor:^FS")
	b.line("^FO150,615^GB615,1,1^FS")
	b.line("^FO50,620^FDAssinatura:^FS")
	b.line("^FO150,635^GB335,1,1^FS")
	b.line("^FO500,620^FDDocumento:^FS")
	b.line("^FO600,635^GB165,1,1^FS")
	b.line("^FO50,640^GB715,550,3^FS")
	b.line("^FO50,1090^GB715,100,3^FS")

	b.line("^CF0,25")
	b.line("^FO56,650^A@N,0,25,E:ARI001.FNT^FDDestinatário:^FS")
	b.linef("^FO210,650^A@N,0,25,E:ARI000.FNT^FD%s^FS", r.Name)
	if r.CareOf != "" {
		b.linef("^FO56,675^A@N,0,25,E:ARI000.FNT^FDA/C: %s^FS", r.CareOf)
	}
	b.linef("^FO56,700^A@N,0,25,E:ARI000.FNT^FD%s, %s^FS", r.Address.Address, r.AddressNumber)
	district := r.Neighborhood
	if r.Complement != "" {
		district = r.Complement + " - " + district
	}
	b.linef("^FO56,725^A@N,0,25,E:ARI000.FNT^FD%s^FS", district)
	b.linef("^FO56,750^A@N,0,25,E:ARI001.FNT^FD%s^FS", r.ZipCode)
	b.linef("^FO190,750^A@N,0,25,E:ARI000.FNT^FD%s/%s^FS", r.City, r.State)
	b.linef("^FO56,775^A@N,0,25,E:ARI000.FNT^FDOBS: %s^FS", l.Remarks)

	b.line("^BY2,2,160")
	b.linef("^FO450,900^BC^FD%s^FS", r.ZipCode)

	b.line("^CF0,15")
	b.linef("^FO56,1100^A@N,0,20,E:ARI000.FNT^FDRemetente: %s^FS", s.Name)
	street := s.Address + ", " + s.AddressNumber.String()
	if s.Complement != "" {
		street += ", " + s.Complement
	}
	b.linef("^FO56,1125^A@N,0,20,E:ARI000.FNT^FD%s^FS", street)
	b.linef("^FO56,1150^A@N,0,20,E:ARI000.FNT^FD%s - %s/%s^FS", s.ZipCode, s.City, s.State)

	b.write("^XZ")
	return b.String()
}

type builder struct {
	strings.Builder
}

func (b *builder) line(s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func (b *builder) linef(format string, args ...any) {
	b.line(fmt.Sprintf(format, args...))
}

func (b *builder) write(s string) {
	b.WriteString(s)
}
