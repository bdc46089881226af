package aps

import (
	"encoding/binary"
	"fmt"
)

// flags byte bits, supported since wire version 2.
const (
	flagIncludeNodeID uint8 = 0x01
	flagIncludeRelays uint8 = 0x02
)

// Encode serializes the request per §4.7's versioned wire layout:
//
//	id:u8
//	flags:u8            (only if version >= 2)
//	node_id:u16         (only if flags bit 0)
//	dst_addr_mode:u8
//	dst_addr            (0, 2, 3, or 9 bytes depending on mode)
//	profile_id:u16
//	cluster_id:u16
//	src_endpoint:u8
//	asdu_length:u16
//	asdu:bytes[asdu_length]
//	tx_options:u8       (full byte; masking happens on decode only)
//	radius:u8
//	relay_count:u8      (only if flags bit 1)
//	relays:u16 * relay_count
func (r *Request) Encode() ([]byte, error) {
	buf := make([]byte, 0, 32+len(r.asdu))
	buf = append(buf, r.id)

	var flags uint8
	if r.version > 1 {
		if r.HasNodeID() {
			flags |= flagIncludeNodeID
		}
		if r.sourceRoute != nil && r.sourceRoute.Count > 0 {
			flags |= flagIncludeRelays
		}
		buf = append(buf, flags)
	}

	if flags&flagIncludeNodeID != 0 {
		buf = appendU16(buf, r.nodeID)
	}

	buf = append(buf, uint8(r.dstAddrMode))
	switch r.dstAddrMode {
	case NoAddress:
		return nil, fmt.Errorf("encode APS request: no destination address mode specified")
	case GroupAddress:
		if !r.dstAddress.HasGroup() {
			return nil, fmt.Errorf("encode APS request: group address mode but no group address set")
		}
		buf = appendU16(buf, r.dstAddress.Group())
	case NwkAddress:
		if !r.dstAddress.HasNwk() {
			return nil, fmt.Errorf("encode APS request: nwk address mode but no nwk address set")
		}
		buf = appendU16(buf, r.dstAddress.Nwk())
		buf = append(buf, r.dstEndpoint)
	case ExtAddress:
		if !r.dstAddress.HasExt() {
			return nil, fmt.Errorf("encode APS request: ext address mode but no ext address set")
		}
		buf = appendU64(buf, r.dstAddress.Ext())
		buf = append(buf, r.dstEndpoint)
	default:
		return nil, fmt.Errorf("encode APS request: invalid destination address mode %#02x", r.dstAddrMode)
	}

	buf = appendU16(buf, r.profileID)
	buf = appendU16(buf, r.clusterID)
	buf = append(buf, r.srcEndpoint)

	if len(r.asdu) > 0xFFFF {
		return nil, fmt.Errorf("encode APS request: asdu length %d exceeds 16-bit budget", len(r.asdu))
	}
	buf = appendU16(buf, uint16(len(r.asdu)))
	buf = append(buf, r.asdu...)

	buf = append(buf, r.txOptions.Byte())
	buf = append(buf, r.radius)

	if flags&flagIncludeRelays != 0 {
		buf = append(buf, r.sourceRoute.Count)
		for i := uint8(0); i < r.sourceRoute.Count; i++ {
			buf = appendU16(buf, r.sourceRoute.Relays[i])
		}
	}

	return buf, nil
}

// DecodeRequest parses the wire layout Encode produces for the given
// protocol version. On malformed input it returns a nil request and an
// error; the partially-built request is discarded.
func DecodeRequest(b []byte, version uint8) (*Request, error) {
	r := NewRequest(0, version)

	if len(b) < 1 {
		return nil, fmt.Errorf("decode APS request: empty buffer")
	}
	off := 0
	r.id = b[off]
	off++

	var flags uint8
	if version > 1 {
		if len(b) < off+1 {
			return nil, fmt.Errorf("decode APS request: truncated before flags byte")
		}
		flags = b[off]
		off++
	}

	if flags&flagIncludeNodeID != 0 {
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		r.nodeID = v
		off += n
	}

	if len(b) < off+1 {
		return nil, fmt.Errorf("decode APS request: truncated before address mode")
	}
	r.dstAddrMode = AddressMode(b[off])
	off++

	switch r.dstAddrMode {
	case NoAddress:
		// nothing to read
	case GroupAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		r.dstAddress.SetGroup(v)
		off += n
	case NwkAddress:
		v, n, err := readU16(b, off)
		if err != nil {
			return nil, err
		}
		r.dstAddress.SetNwk(v)
		off += n
		if len(b) < off+1 {
			return nil, fmt.Errorf("decode APS request: truncated before dst endpoint")
		}
		r.dstEndpoint = b[off]
		off++
	case ExtAddress:
		v, n, err := readU64(b, off)
		if err != nil {
			return nil, err
		}
		r.dstAddress.SetExt(v)
		off += n
		if len(b) < off+1 {
			return nil, fmt.Errorf("decode APS request: truncated before dst endpoint")
		}
		r.dstEndpoint = b[off]
		off++
	default:
		return nil, fmt.Errorf("decode APS request: invalid destination address mode %#02x", b[off-1])
	}

	profileID, n, err := readU16(b, off)
	if err != nil {
		return nil, err
	}
	r.profileID = profileID
	off += n

	clusterID, n, err := readU16(b, off)
	if err != nil {
		return nil, err
	}
	r.clusterID = clusterID
	off += n

	if len(b) < off+1 {
		return nil, fmt.Errorf("decode APS request: truncated before src endpoint")
	}
	r.srcEndpoint = b[off]
	off++

	asduLen, n, err := readU16(b, off)
	if err != nil {
		return nil, err
	}
	off += n
	if len(b) < off+int(asduLen) {
		return nil, fmt.Errorf("decode APS request: truncated asdu, want %d bytes", asduLen)
	}
	r.asdu = append([]byte(nil), b[off:off+int(asduLen)]...)
	off += int(asduLen)

	if len(b) < off+2 {
		return nil, fmt.Errorf("decode APS request: truncated before tx options/radius")
	}
	r.txOptions = DecodeTxOptions(b[off])
	off++
	r.radius = b[off]
	off++

	if flags&flagIncludeRelays != 0 {
		if len(b) < off+1 {
			return nil, fmt.Errorf("decode APS request: truncated before relay count")
		}
		count := b[off]
		off++
		if count > MaxRelays {
			return nil, fmt.Errorf("decode APS request: relay count %d exceeds max %d", count, MaxRelays)
		}
		sr := &SourceRoute{Count: count}
		for i := uint8(0); i < count; i++ {
			v, n, err := readU16(b, off)
			if err != nil {
				return nil, err
			}
			sr.Relays[i] = v
			off += n
		}
		r.sourceRoute = sr
	}

	return r, nil
}

func appendU16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[0], tmp[1])
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readU16(b []byte, off int) (uint16, int, error) {
	if len(b) < off+2 {
		return 0, 0, fmt.Errorf("decode APS request: truncated reading u16 at offset %d", off)
	}
	return binary.LittleEndian.Uint16(b[off : off+2]), 2, nil
}

func readU64(b []byte, off int) (uint64, int, error) {
	if len(b) < off+8 {
		return 0, 0, fmt.Errorf("decode APS request: truncated reading u64 at offset %d", off)
	}
	return binary.LittleEndian.Uint64(b[off : off+8]), 8, nil
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func readU32(b []byte, off int) (uint32, int, error) {
	if len(b) < off+4 {
		return 0, 0, fmt.Errorf("decode APS request: truncated reading u32 at offset %d", off)
	}
	return binary.LittleEndian.Uint32(b[off : off+4]), 4, nil
}
