package controller

import (
	"fmt"

	"homai-zigbee/internal/address"
	"homai-zigbee/internal/aps"
	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/zcl"
)

// AddressTarget bundles the addressing/profile fields every submit helper
// below needs; callers build one per destination rather than repeating
// five positional arguments at each call site.
type AddressTarget struct {
	Dst         address.Address
	DstMode     aps.AddressMode
	DstEndpoint uint8
	SrcEndpoint uint8
	ProfileID   uint16
}

// submitFrame encodes f (a pooled frame already filled in by the caller)
// into a request's ASDU and submits it. The frame is returned to the pool
// once its bytes are copied into the request -- unlike the request and the
// attribute, a frame never outlives the call that builds it.
func (c *Controller) submitFrame(dst AddressTarget, cluster ids.ClusterID, f *zcl.Frame) (uint8, aps.Status) {
	r := c.NewRequest()
	*r.DstAddress() = dst.Dst
	r.SetDstAddressMode(dst.DstMode)
	r.SetDstEndpoint(dst.DstEndpoint)
	r.SetSrcEndpoint(dst.SrcEndpoint)
	r.SetProfileID(dst.ProfileID)
	r.SetClusterID(cluster.Uint16())
	r.SetAsdu(f.Encode())
	r.SetTxOptions(aps.TxOptions(0).Set(aps.TxAcknowledged, true))
	c.framePool.Put(f)

	id, status := c.SendAPS(r)
	if status != aps.StatusSuccess {
		c.ReleaseRequest(r)
	}
	return id, status
}

// ReadAttribute submits a global Read Attributes Request for a single
// attribute against clusterID. The schema database is not consulted; the
// ids are sent as given.
func (c *Controller) ReadAttribute(dst AddressTarget, clusterID ids.ClusterID, mfg ids.ManufacturerCode, attrID ids.AttributeID) (uint8, aps.Status) {
	f := fillReadAttributes(c.framePool.Get(), mfg, attrID)
	return c.submitFrame(dst, clusterID, f)
}

// WriteAttribute submits a global Write Attributes Request for one
// attribute already populated with the value to write.
func (c *Controller) WriteAttribute(dst AddressTarget, clusterID ids.ClusterID, mfg ids.ManufacturerCode, attr *zcl.Attribute) (uint8, aps.Status, error) {
	f, err := fillWriteAttributes(c.framePool.Get(), mfg, attr)
	if err != nil {
		c.framePool.Put(f)
		return 0, aps.StatusIllegalRequest, fmt.Errorf("write attribute: %w", err)
	}
	id, status := c.submitFrame(dst, clusterID, f)
	return id, status, nil
}

// SendCommand submits a cluster-specific command frame.
func (c *Controller) SendCommand(dst AddressTarget, clusterID ids.ClusterID, cluster *zcl.Cluster, cmd *zcl.Command, payload []byte) (uint8, aps.Status) {
	f := fillCommand(c.framePool.Get(), cluster, cmd, payload)
	return c.submitFrame(dst, clusterID, f)
}

// ClusterFor resolves the schema entry for clusterID scoped to dst's
// profile, from the server side if server is true.
func (c *Controller) ClusterFor(dst AddressTarget, clusterID ids.ClusterID, mfg ids.ManufacturerCode, server bool) *zcl.Cluster {
	if server {
		return c.schema.InCluster(dst.ProfileID, clusterID, mfg)
	}
	return c.schema.OutCluster(dst.ProfileID, clusterID, mfg)
}
