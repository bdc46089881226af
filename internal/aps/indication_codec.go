package aps

import "fmt"

// Encode serializes the indication per §4.7/§6.2's versioned layout: dst
// addressing, src addressing, profile/cluster/asdu, then
// {status,securityStatus} for v<3 or {previousHop} for v>=3, link quality,
// rx time, and RSSI for v>=2.
func (ind *Indication) Encode() ([]byte, error) {
	buf := make([]byte, 0, 32+len(ind.Asdu))

	buf = append(buf, uint8(ind.DstAddrMode))
	switch ind.DstAddrMode {
	case NoAddress:
	case GroupAddress:
		buf = appendU16(buf, ind.DstAddress.Group())
	case NwkAddress:
		buf = appendU16(buf, ind.DstAddress.Nwk())
	case ExtAddress:
		buf = appendU64(buf, ind.DstAddress.Ext())
	default:
		return nil, fmt.Errorf("encode APS indication: invalid dst address mode %#02x", ind.DstAddrMode)
	}
	buf = append(buf, ind.DstEndpoint)

	buf = append(buf, uint8(ind.SrcAddrMode))
	switch ind.SrcAddrMode {
	case NoAddress:
	case GroupAddress:
		buf = appendU16(buf, ind.SrcAddress.Group())
	case NwkAddress:
		buf = appendU16(buf, ind.SrcAddress.Nwk())
	case ExtAddress:
		buf = appendU64(buf, ind.SrcAddress.Ext())
	default:
		return nil, fmt.Errorf("encode APS indication: invalid src address mode %#02x", ind.SrcAddrMode)
	}
	buf = append(buf, ind.SrcEndpoint)

	buf = appendU16(buf, ind.ProfileID)
	buf = appendU16(buf, ind.ClusterID)

	if len(ind.Asdu) > 0xFFFF {
		return nil, fmt.Errorf("encode APS indication: asdu length %d exceeds 16-bit budget", len(ind.Asdu))
	}
	buf = appendU16(buf, uint16(len(ind.Asdu)))
	buf = append(buf, ind.Asdu...)

	if ind.version >= 3 {
		buf = appendU16(buf, ind.PreviousHop)
	} else {
		buf = append(buf, uint8(ind.Status), ind.SecurityStatus)
	}
	buf = append(buf, ind.LinkQuality)
	buf = appendU32(buf, uint32(ind.RxTime.Unix()))

	if ind.version >= 2 {
		buf = append(buf, byte(ind.RSSI))
	}

	return buf, nil
}

// DecodeIndication parses the wire layout Encode produces for the given
// protocol version. The inbound ASDU is capped at MaxInboundAsdu per
// spec.md §3; a longer declared length is a protocol error.
func DecodeIndication(b []byte, version uint8) (*Indication, error) {
	ind := NewIndication(version)
	off := 0

	if len(b) < off+1 {
		return nil, fmt.Errorf("decode APS indication: empty buffer")
	}
	ind.DstAddrMode = AddressMode(b[off])
	off++
	switch ind.DstAddrMode {
	case NoAddress:
	case GroupAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		ind.DstAddress.SetGroup(v)
		off += n
	case NwkAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		ind.DstAddress.SetNwk(v)
		off += n
	case ExtAddress:
		v, n, err := readU64(b, off)
		if err != nil {
			return nil, err
		}
		ind.DstAddress.SetExt(v)
		off += n
	default:
		return nil, fmt.Errorf("decode APS indication: invalid dst address mode %#02x", ind.DstAddrMode)
	}
	if len(b) < off+1 {
		return nil, fmt.Errorf("decode APS indication: truncated before dst endpoint")
	}
	ind.DstEndpoint = b[off]
	off++

	if len(b) < off+1 {
		return nil, fmt.Errorf("decode APS indication: truncated before src address mode")
	}
	ind.SrcAddrMode = AddressMode(b[off])
	off++
	switch ind.SrcAddrMode {
	case NoAddress:
	case GroupAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		ind.SrcAddress.SetGroup(v)
		off += n
	case NwkAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		ind.SrcAddress.SetNwk(v)
		off += n
	case NwkExtAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		ind.SrcAddress.SetNwk(v)
		off += n
		ext, n2, err := readU64(b, off)
		if err != nil {
			return nil, err
		}
		off += n2
		if ext != 0 {
			ind.SrcAddress.SetExt(ext)
		}
		ind.SrcAddrMode = NwkAddress // keep it simple, matching the upstream behavior
	case ExtAddress:
		v, n, err := readU64(b, off)
		if err != nil {
			return nil, err
		}
		ind.SrcAddress.SetExt(v)
		off += n
	default:
		return nil, fmt.Errorf("decode APS indication: invalid src address mode %#02x", ind.SrcAddrMode)
	}
	if len(b) < off+1 {
		return nil, fmt.Errorf("decode APS indication: truncated before src endpoint")
	}
	ind.SrcEndpoint = b[off]
	off++

	profileID, n, err := readU16(b, off)
	if err != nil {
		return nil, err
	}
	ind.ProfileID = profileID
	off += n

	clusterID, n, err := readU16(b, off)
	if err != nil {
		return nil, err
	}
	ind.ClusterID = clusterID
	off += n

	asduLen, n, err := readU16(b, off)
	if err != nil {
		return nil, err
	}
	off += n
	if asduLen > MaxInboundAsdu {
		return nil, fmt.Errorf("decode APS indication: asdu length %d exceeds inbound budget %d", asduLen, MaxInboundAsdu)
	}
	if len(b) < off+int(asduLen) {
		return nil, fmt.Errorf("decode APS indication: truncated asdu, want %d bytes", asduLen)
	}
	ind.Asdu = append([]byte(nil), b[off:off+int(asduLen)]...)
	off += int(asduLen)

	if version >= 3 {
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		ind.PreviousHop = v
		off += n
		ind.Status = StatusSuccess
	} else {
		if len(b) < off+2 {
			return nil, fmt.Errorf("decode APS indication: truncated before status/security status")
		}
		ind.Status = Status(b[off])
		ind.SecurityStatus = b[off+1]
		off += 2
	}

	if len(b) < off+1 {
		return nil, fmt.Errorf("decode APS indication: truncated before link quality")
	}
	ind.LinkQuality = b[off]
	off++

	rxTime, n, err := readU32(b, off)
	if err != nil {
		return nil, err
	}
	ind.RxTime = unixToTime(rxTime)
	off += n

	if version >= 2 {
		if len(b) < off+1 {
			return nil, fmt.Errorf("decode APS indication: truncated before rssi")
		}
		ind.RSSI = int8(b[off])
		off++
	}

	return ind, nil
}
