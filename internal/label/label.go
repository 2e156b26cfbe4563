package label

// Constant payload fields fixed by the carrier contract.
const (
	IDV                  = "51"
	Group                = "00"
	ServiceGroupPrefix   = "25"
	PlaceholderLatitude  = "-00.000000"
	PlaceholderLongitude = "-00.000000"
	DefaultZipCode       = "00000000"
)

// Address is a postal address as printed on the label.
type Address struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	AddressNumber Text   `json:"addressNumber"`
	Complement    string `json:"complement"`
	Neighborhood  string `json:"neighborhood"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       Text   `json:"zipCode"`

	// ZipCodeComplement is AddressNumber left-padded to five digits.
	ZipCodeComplement string `json:"zipCodeComplement,omitempty"`
}

// Recipient is the destination address plus contact fields.
type Recipient struct {
	Address
	Phone  Text   `json:"phone"`
	CareOf string `json:"careOf"`
}

// ServiceFlags selects the extra services contracted for the shipment.
type ServiceFlags struct {
	ReceiptNotice    bool `json:"receiptNotice"`
	InHands          bool `json:"inHands"`
	DeclaredValue    bool `json:"declaredValue"`
	NeighborDelivery bool `json:"neighborDelivery"`
	LargeFormats     bool `json:"largeFormats"`
}

// Code renders the flags as the service group prefix followed by five 2-digit
// codes in fixed order; unselected services contribute "00".
func (f ServiceFlags) Code() string {
	return ServiceGroupPrefix +
		pick(f.ReceiptNotice, "01") +
		pick(f.InHands, "02") +
		pick(f.DeclaredValue, "64") +
		pick(f.NeighborDelivery, "11") +
		pick(f.LargeFormats, "57")
}

func pick(selected bool, code string) string {
	if selected {
		return code
	}
	return "00"
}

// Label is one shipment label. Recipient and Sender are pointers so a missing
// section can be told apart from an empty one.
type Label struct {
	TrackNumber  string       `json:"trackNumber"`
	ServiceCode  Text         `json:"serviceCode"`
	ServiceName  string       `json:"serviceName"`
	Invoice      Text         `json:"invoice"`
	Weight       float64      `json:"weight"`
	InvoiceValue Amount       `json:"invoiceValue"`
	Remarks      string       `json:"remarks"`
	PLP          Text         `json:"plp"`
	Contract     Text         `json:"contract"`
	PostCard     Text         `json:"postCard"`
	Recipient    *Recipient   `json:"recipient"`
	Sender       *Address     `json:"sender"`
	Services     ServiceFlags `json:"services"`

	// Derived by Prepare.
	HumanTrackNumber string `json:"humanTrackNumber,omitempty"`
	ZipCodeValidator string `json:"zipCodeValidator,omitempty"`
	IDV              string `json:"idv,omitempty"`
	Group            string `json:"group,omitempty"`
	ExtraServices    string `json:"extraServices,omitempty"`
	Latitude         string `json:"latitude,omitempty"`
	Longitude        string `json:"longitude,omitempty"`
}
