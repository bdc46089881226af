package zcl

import "homai-zigbee/internal/ids"

// AttributeSet groups related attributes under a manufacturer-scoped id
// (e.g. a manufacturer-specific extension to a standard cluster).
type AttributeSet struct {
	ID               int
	ManufacturerCode ids.ManufacturerCode
	Attributes       []*Attribute
}

// Cluster is a ZCL cluster definition: its identity plus the attributes,
// attribute-sets and commands it declares.
type Cluster struct {
	ID                 ids.ClusterID
	OppositeID         ids.ClusterID // usually equal to ID
	ManufacturerCode   ids.ManufacturerCode
	Name               string
	Description        string
	IsZCL              bool // false: proprietary, non-ZCL payload
	IsServer           bool // server = incoming
	Attributes         []*Attribute
	AttributeSets      []*AttributeSet
	Commands           []*Command
}

// UnknownClusterName is substituted when the schema database has no entry
// for a requested (profile, cluster, mfcode) lookup (spec.md §4.4).
const UnknownClusterName = "Unknown"

// NewUnknownCluster builds the placeholder the schema database returns when
// a cluster id has no matching definition.
func NewUnknownCluster(id ids.ClusterID, isServer bool) *Cluster {
	return &Cluster{
		ID:         id,
		OppositeID: id,
		Name:       UnknownClusterName,
		IsZCL:      true,
		IsServer:   isServer,
	}
}

// Attribute looks up an attribute by id among this cluster's direct
// attributes and its attribute-sets.
func (c *Cluster) Attribute(id ids.AttributeID) *Attribute {
	for _, a := range c.Attributes {
		if a.ID == id {
			return a
		}
	}
	for _, set := range c.AttributeSets {
		for _, a := range set.Attributes {
			if a.ID == id {
				return a
			}
		}
	}
	return nil
}

// Command looks up a command by id.
func (c *Cluster) Command(id ids.CommandID) *Command {
	for _, cmd := range c.Commands {
		if cmd.ID == id {
			return cmd
		}
	}
	return nil
}

// ReadCommand walks the command table for a command matching the frame's id
// and direction (given this cluster's server/client role), then decodes its
// parameters from the frame payload in declaration order (spec.md §4.6).
func (c *Cluster) ReadCommand(f *Frame) (*Command, error) {
	frameServerToClient := f.FrameControl.Has(FrameControlDirection)
	for _, cmd := range c.Commands {
		if cmd.ID.Uint8() != f.CommandID.Uint8() {
			continue
		}
		if !cmd.matchesDirection(frameServerToClient, c.IsServer) {
			continue
		}
		off := 0
		for _, param := range cmd.Parameters {
			n, err := param.DecodeValue(f.Payload[off:])
			if err != nil {
				return nil, err
			}
			off += n
		}
		return cmd, nil
	}
	return nil, nil
}
