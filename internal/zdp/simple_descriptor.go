package zdp

import (
	"encoding/binary"
	"fmt"

	"homai-zigbee/internal/ids"
)

// invalidEndpoint marks a SimpleDescriptor that failed to parse.
const invalidEndpoint uint8 = 0xFF

// SimpleDescriptor describes one active application endpoint: its profile,
// device type/version, and the server (in) and client (out) clusters it
// exposes. Cluster bodies are resolved against the schema database
// (internal/zcldb) by the node cache; this type only carries cluster ids.
type SimpleDescriptor struct {
	endpoint      uint8
	profileID     uint16
	deviceID      uint16
	deviceVersion uint8
	inClusters    []ids.ClusterID
	outClusters   []ids.ClusterID
}

// NewSimpleDescriptor returns an invalid (endpoint 0xFF) descriptor.
func NewSimpleDescriptor() SimpleDescriptor {
	return SimpleDescriptor{endpoint: invalidEndpoint}
}

// DecodeSimpleDescriptor parses the wire layout:
//
//	endpoint:u8 profile_id:u16 device_id:u16 device_version:u8
//	in_count:u8  in_cluster_id:u16 * in_count
//	out_count:u8 out_cluster_id:u16 * out_count
//
// A truncated buffer mid-list leaves the descriptor invalid, matching the
// upstream reader's "mark endpoint 0xFF and bail" behavior.
func DecodeSimpleDescriptor(b []byte) SimpleDescriptor {
	sd := NewSimpleDescriptor()
	if len(b) < 6 {
		return sd
	}
	off := 0
	endpoint := b[off]
	off++
	profileID := binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	deviceID := binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	deviceVersion := b[off] & 0x0F
	off++

	if len(b) < off+1 {
		return sd
	}
	inCount := int(b[off])
	off++
	inClusters := make([]ids.ClusterID, 0, inCount)
	for i := 0; i < inCount; i++ {
		if len(b) < off+2 {
			return sd
		}
		inClusters = append(inClusters, ids.NewClusterID(binary.LittleEndian.Uint16(b[off:off+2])))
		off += 2
	}

	if len(b) < off+1 {
		return sd
	}
	outCount := int(b[off])
	off++
	outClusters := make([]ids.ClusterID, 0, outCount)
	for i := 0; i < outCount; i++ {
		if len(b) < off+2 {
			return sd
		}
		outClusters = append(outClusters, ids.NewClusterID(binary.LittleEndian.Uint16(b[off:off+2])))
		off += 2
	}

	return SimpleDescriptor{
		endpoint:      endpoint,
		profileID:     profileID,
		deviceID:      deviceID,
		deviceVersion: deviceVersion,
		inClusters:    inClusters,
		outClusters:   outClusters,
	}
}

// Encode serializes the layout DecodeSimpleDescriptor parses. Cluster lists
// longer than 0xFE are truncated to an empty list on the wire, matching the
// upstream writer's "if count fits in a byte" guard.
func (sd SimpleDescriptor) Encode() ([]byte, error) {
	if sd.endpoint == invalidEndpoint {
		return nil, fmt.Errorf("encode simple descriptor: invalid (unset) endpoint")
	}
	buf := make([]byte, 0, 8+2*(len(sd.inClusters)+len(sd.outClusters)))
	buf = append(buf, sd.endpoint)
	buf = binary.LittleEndian.AppendUint16(buf, sd.profileID)
	buf = binary.LittleEndian.AppendUint16(buf, sd.deviceID)
	buf = append(buf, sd.deviceVersion&0x0F)

	if len(sd.inClusters) < 0xFF {
		buf = append(buf, uint8(len(sd.inClusters)))
		for _, c := range sd.inClusters {
			buf = binary.LittleEndian.AppendUint16(buf, c.Uint16())
		}
	} else {
		buf = append(buf, 0)
	}

	if len(sd.outClusters) < 0xFF {
		buf = append(buf, uint8(len(sd.outClusters)))
		for _, c := range sd.outClusters {
			buf = binary.LittleEndian.AppendUint16(buf, c.Uint16())
		}
	} else {
		buf = append(buf, 0)
	}

	return buf, nil
}

// Endpoint returns the endpoint number.
func (sd SimpleDescriptor) Endpoint() uint8 { return sd.endpoint }

// SetEndpoint sets the endpoint number.
func (sd *SimpleDescriptor) SetEndpoint(ep uint8) { sd.endpoint = ep }

// ProfileID returns the application profile id.
func (sd SimpleDescriptor) ProfileID() uint16 { return sd.profileID }

// SetProfileID sets the application profile id.
func (sd *SimpleDescriptor) SetProfileID(v uint16) { sd.profileID = v }

// DeviceID returns the application device id.
func (sd SimpleDescriptor) DeviceID() uint16 { return sd.deviceID }

// SetDeviceID sets the application device id.
func (sd *SimpleDescriptor) SetDeviceID(v uint16) { sd.deviceID = v }

// DeviceVersion returns the device version (low nibble only).
func (sd SimpleDescriptor) DeviceVersion() uint8 { return sd.deviceVersion }

// SetDeviceVersion sets the device version (masked to the low nibble).
func (sd *SimpleDescriptor) SetDeviceVersion(v uint8) { sd.deviceVersion = v & 0x0F }

// IsValid reports whether this descriptor parsed successfully.
func (sd SimpleDescriptor) IsValid() bool { return sd.endpoint != invalidEndpoint }

// InClusters returns the server (in) cluster ids.
func (sd SimpleDescriptor) InClusters() []ids.ClusterID { return sd.inClusters }

// OutClusters returns the client (out) cluster ids.
func (sd SimpleDescriptor) OutClusters() []ids.ClusterID { return sd.outClusters }

// SetInClusters replaces the server cluster id list.
func (sd *SimpleDescriptor) SetInClusters(cl []ids.ClusterID) {
	sd.inClusters = append([]ids.ClusterID(nil), cl...)
}

// SetOutClusters replaces the client cluster id list.
func (sd *SimpleDescriptor) SetOutClusters(cl []ids.ClusterID) {
	sd.outClusters = append([]ids.ClusterID(nil), cl...)
}

// HasCluster reports whether id is present among in (ServerCluster=true) or
// out (false) clusters.
func (sd SimpleDescriptor) HasCluster(id ids.ClusterID, server bool) bool {
	list := sd.outClusters
	if server {
		list = sd.inClusters
	}
	for _, c := range list {
		if c == id {
			return true
		}
	}
	return false
}
