package zcl

import (
	"testing"

	"homai-zigbee/internal/ids"
)

func onOffCluster() *Cluster {
	c := &Cluster{
		ID:       ids.NewClusterID(0x0006),
		Name:     "On/Off",
		IsZCL:    true,
		IsServer: true,
	}
	c.Attributes = append(c.Attributes, NewAttribute(ids.NewAttributeID(0x0000), ids.NewDataTypeID(TypeBool)))
	c.Commands = append(c.Commands,
		NewCommand(ids.NewCommandID(0x00), "Off", DirectionReceived),
		NewCommand(ids.NewCommandID(0x01), "On", DirectionReceived),
		NewCommand(ids.NewCommandID(0x02), "Toggle", DirectionReceived),
	)
	return c
}

func TestClusterReadCommandMatchesDirectionAndID(t *testing.T) {
	c := onOffCluster()
	f := &Frame{
		FrameControl: FrameControlClusterSpecific, // client->server
		CommandID:    ids.NewCommandID(0x01),
	}
	cmd, err := c.ReadCommand(f)
	if err != nil {
		t.Fatal(err)
	}
	if cmd == nil || cmd.Name != "On" {
		t.Fatalf("ReadCommand = %+v, want On", cmd)
	}
}

func TestClusterReadCommandWrongDirectionNoMatch(t *testing.T) {
	c := onOffCluster()
	f := &Frame{
		FrameControl: FrameControlClusterSpecific | FrameControlDirection, // server->client
		CommandID:    ids.NewCommandID(0x01),
	}
	cmd, err := c.ReadCommand(f)
	if err != nil {
		t.Fatal(err)
	}
	if cmd != nil {
		t.Errorf("expected no match for a received-only command on a server->client frame, got %+v", cmd)
	}
}

func TestClusterAttributeLookupAcrossAttributeSets(t *testing.T) {
	c := onOffCluster()
	extra := NewAttribute(ids.NewAttributeID(0x4000), ids.NewDataTypeID(TypeUint8))
	c.AttributeSets = append(c.AttributeSets, &AttributeSet{ID: 1, Attributes: []*Attribute{extra}})

	if c.Attribute(ids.NewAttributeID(0x0000)) == nil {
		t.Error("expected to find the direct attribute")
	}
	if c.Attribute(ids.NewAttributeID(0x4000)) == nil {
		t.Error("expected to find the attribute-set attribute")
	}
	if c.Attribute(ids.NewAttributeID(0x9999)) != nil {
		t.Error("expected no match for an unknown attribute id")
	}
}

func TestNewUnknownClusterPlaceholder(t *testing.T) {
	c := NewUnknownCluster(ids.NewClusterID(0xABCD), true)
	if c.Name != UnknownClusterName {
		t.Errorf("name = %q, want %q", c.Name, UnknownClusterName)
	}
	if c.ID.Uint16() != 0xABCD || c.OppositeID.Uint16() != 0xABCD {
		t.Errorf("placeholder cluster carries the wrong id: %+v", c)
	}
}
