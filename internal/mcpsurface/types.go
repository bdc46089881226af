// Package mcpsurface exposes the gateway's node cache and ZCL submit
// operations as MCP tools, mirroring the teacher's pkg/mcp package's
// tool-registration shape (NewTool/AddTool, jsonschema struct tags, a
// formatJSON text result per call).
package mcpsurface

// --- list_nodes ---

// NodeInfo summarizes one cached node for the list_nodes tool.
type NodeInfo struct {
	ExtAddress      string `json:"ext_address" jsonschema:"description=IEEE address, hex-encoded with 0x prefix"`
	NwkAddress      string `json:"nwk_address,omitempty" jsonschema:"description=16-bit network address, hex-encoded, if known"`
	UserDescriptor  string `json:"user_descriptor,omitempty" jsonschema:"description=User-assigned descriptor string"`
	DeviceType      string `json:"device_type" jsonschema:"description=coordinator, router, end_device, or unknown"`
	ActiveEndpoints []int  `json:"active_endpoints" jsonschema:"description=Endpoint numbers reported by Active Endpoints Response"`
	Zombie          bool   `json:"zombie" jsonschema:"description=Whether the node is presumed gone (PARENT_ANNCE aged out, no route)"`
}

// ListNodesOutput is the output of the list_nodes tool.
type ListNodesOutput struct {
	Nodes []NodeInfo `json:"nodes" jsonschema:"description=Every node currently in the cache"`
	Count int        `json:"count" jsonschema:"description=Number of nodes returned"`
}

// --- read_attribute ---

// ReadAttributeInput is the input for the read_attribute tool.
type ReadAttributeInput struct {
	Ext              string `json:"ext" jsonschema:"required,description=Target node's IEEE address, hex-encoded"`
	Endpoint         int    `json:"endpoint" jsonschema:"required,description=Destination endpoint"`
	ProfileID        int    `json:"profile_id" jsonschema:"required,description=Profile id the cluster belongs to"`
	SrcEndpoint      int    `json:"src_endpoint" jsonschema:"required,description=Source endpoint to originate the request from"`
	Cluster          int    `json:"cluster" jsonschema:"required,description=Cluster id"`
	Attribute        int    `json:"attribute" jsonschema:"required,description=Attribute id"`
	ManufacturerCode int    `json:"manufacturer_code,omitempty" jsonschema:"description=Manufacturer code, 0 for standard clusters"`
}

// ReadAttributeOutput is the output of the read_attribute tool: the request
// was accepted for submission, not that the attribute value is known yet
// (APS confirms and ZCL responses arrive asynchronously over the wire).
type ReadAttributeOutput struct {
	RequestID int    `json:"request_id" jsonschema:"description=APS request id allocated for this submission"`
	Status    string `json:"status" jsonschema:"description=Synchronous submit-time APS status"`
}

// --- send_zcl_command ---

// SendCommandInput is the input for the send_zcl_command tool.
type SendCommandInput struct {
	Ext              string `json:"ext" jsonschema:"required,description=Target node's IEEE address, hex-encoded"`
	Endpoint         int    `json:"endpoint" jsonschema:"required,description=Destination endpoint"`
	ProfileID        int    `json:"profile_id" jsonschema:"required,description=Profile id the cluster belongs to"`
	SrcEndpoint      int    `json:"src_endpoint" jsonschema:"required,description=Source endpoint to originate the request from"`
	Cluster          int    `json:"cluster" jsonschema:"required,description=Cluster id"`
	Command          int    `json:"command" jsonschema:"required,description=Command id, looked up in the cluster's server-side command table"`
	ManufacturerCode int    `json:"manufacturer_code,omitempty" jsonschema:"description=Manufacturer code, 0 for standard clusters"`
	PayloadHex       string `json:"payload_hex,omitempty" jsonschema:"description=Pre-encoded command parameter bytes, hex-encoded"`
}

// SendCommandOutput is the output of the send_zcl_command tool.
type SendCommandOutput struct {
	RequestID int    `json:"request_id" jsonschema:"description=APS request id allocated for this submission"`
	Status    string `json:"status" jsonschema:"description=Synchronous submit-time APS status"`
}
