package aps

// TxOption flags control delivery of an outbound APS request.
type TxOption uint8

const (
	TxSecurityEnabled       TxOption = 0x01
	TxUseNwkKey             TxOption = 0x02
	TxAcknowledged          TxOption = 0x04
	TxFragmentationAllowed  TxOption = 0x08
)

// TxOptions is a bitmask of TxOption flags. Only the low nibble is
// meaningful on the wire; see DecodeTxOptions for the read-side masking
// behavior grounded on aps.cpp (spec.md §9 Open Question: this masking is
// applied on decode only, never on encode, and that asymmetry is kept as-is).
type TxOptions uint8

// Has reports whether opt is set.
func (o TxOptions) Has(opt TxOption) bool { return o&TxOptions(opt) != 0 }

// Set returns o with opt set or cleared.
func (o TxOptions) Set(opt TxOption, v bool) TxOptions {
	if v {
		return o | TxOptions(opt)
	}
	return o &^ TxOptions(opt)
}

// Byte returns the raw byte as written to the wire (full byte, unmasked).
func (o TxOptions) Byte() uint8 { return uint8(o) }

// DecodeTxOptions keeps only the low nibble of the wire byte, discarding any
// high bits silently -- this mirrors ApsDataRequest::readFromStream's
// `u8 &= 0x0F` in the original implementation.
func DecodeTxOptions(raw uint8) TxOptions { return TxOptions(raw & 0x0F) }
