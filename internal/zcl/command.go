package zcl

import "homai-zigbee/internal/ids"

// Direction distinguishes commands this side receives from commands it sends.
type Direction uint8

const (
	DirectionReceived Direction = iota
	DirectionSent
)

// Command is a ZCL command definition. Parameters are structural only --
// they describe the wire shape, they don't carry live values.
type Command struct {
	ID                     ids.CommandID
	Name                   string
	Description            string
	ManufacturerCode       ids.ManufacturerCode
	ResponseCommandID      ids.CommandID
	Direction              Direction
	Mandatory              bool
	DisableDefaultResponse bool
	ProfileWide            bool
	Parameters             []*Attribute
}

// NewCommand returns a command with no response command configured.
func NewCommand(id ids.CommandID, name string, dir Direction) *Command {
	return &Command{
		ID:                id,
		Name:              name,
		Direction:         dir,
		ResponseCommandID: ids.NoResponseCommandID,
	}
}

// HasResponse reports whether this command declares a response command.
func (c *Command) HasResponse() bool { return c.ResponseCommandID != ids.NoResponseCommandID }

// matchesDirection reports whether a frame with the given server->client bit
// should be read as this command, given which side of the cluster owns it
// (isServer). A server-side cluster receives commands client->server and
// sends them server->client; a client-side cluster is the mirror image.
func (c *Command) matchesDirection(frameServerToClient bool, isServer bool) bool {
	var expectServerToClient bool
	if c.Direction == DirectionReceived {
		expectServerToClient = !isServer
	} else {
		expectServerToClient = isServer
	}
	return frameServerToClient == expectServerToClient
}
