package aps

// AddressMode selects which fields of an address.Address are meaningful for
// a given APS primitive.
type AddressMode uint8

const (
	NoAddress     AddressMode = 0x0
	GroupAddress  AddressMode = 0x1
	NwkAddress    AddressMode = 0x2
	ExtAddress    AddressMode = 0x3
	NwkExtAddress AddressMode = 0x4 // nwk address carried alongside ext, protocol version >= 0x010B
)

func (m AddressMode) String() string {
	switch m {
	case NoAddress:
		return "NoAddress"
	case GroupAddress:
		return "GroupAddress"
	case NwkAddress:
		return "NwkAddress"
	case ExtAddress:
		return "ExtAddress"
	case NwkExtAddress:
		return "NwkExtAddress"
	default:
		return "Unknown"
	}
}
