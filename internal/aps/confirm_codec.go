package aps

import "fmt"

// Encode serializes the confirm: id, dst addr mode, dst addr (mode-dependent),
// [dst endpoint for nwk/ext], src endpoint, status.
func (c Confirm) Encode() ([]byte, error) {
	buf := make([]byte, 0, 16)
	buf = append(buf, c.ID, uint8(c.DstAddrMode))

	switch c.DstAddrMode {
	case NoAddress:
		// nothing further
	case NwkAddress:
		buf = appendU16(buf, c.DstAddress.Nwk())
		buf = append(buf, c.DstEndpoint)
	case GroupAddress:
		buf = appendU16(buf, c.DstAddress.Group())
	case ExtAddress:
		buf = appendU64(buf, c.DstAddress.Ext())
		buf = append(buf, c.DstEndpoint)
	default:
		return nil, fmt.Errorf("encode APS confirm: invalid dst address mode %#02x", c.DstAddrMode)
	}

	buf = append(buf, c.SrcEndpoint, uint8(c.Status))
	return buf, nil
}

// DecodeConfirm parses the wire layout Encode produces.
func DecodeConfirm(b []byte) (Confirm, error) {
	var c Confirm
	if len(b) < 2 {
		return c, fmt.Errorf("decode APS confirm: truncated before address mode")
	}
	off := 0
	c.ID = b[off]
	off++
	c.DstAddrMode = AddressMode(b[off])
	off++

	switch c.DstAddrMode {
	case NoAddress:
	case NwkAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return c, err
		}
		c.DstAddress.SetNwk(v)
		off += n
		if len(b) < off+1 {
			return c, fmt.Errorf("decode APS confirm: truncated before dst endpoint")
		}
		c.DstEndpoint = b[off]
		off++
	case GroupAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return c, err
		}
		c.DstAddress.SetGroup(v)
		off += n
	case ExtAddress:
		v, n, err := readU64(b, off)
		if err != nil {
			return c, err
		}
		c.DstAddress.SetExt(v)
		off += n
		if len(b) < off+1 {
			return c, fmt.Errorf("decode APS confirm: truncated before dst endpoint")
		}
		c.DstEndpoint = b[off]
		off++
	default:
		return c, fmt.Errorf("decode APS confirm: invalid dst address mode %#02x", c.DstAddrMode)
	}

	if len(b) < off+2 {
		return c, fmt.Errorf("decode APS confirm: truncated before src endpoint/status")
	}
	c.SrcEndpoint = b[off]
	off++
	c.Status = Status(b[off])
	return c, nil
}
