package mcpsurface

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers every tool this server exposes.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_nodes",
			mcp.WithDescription("List every node currently in the gateway's cache, with its address, device type, and active endpoints"),
		),
		s.handleListNodes,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("read_attribute",
			mcp.WithDescription("Submit a ZCL Read Attributes request to a node's endpoint/cluster/attribute. The value arrives asynchronously; this only reports whether the request was accepted."),
			mcp.WithString("ext", mcp.Required(), mcp.Description("Target node's IEEE address, hex-encoded")),
			mcp.WithNumber("endpoint", mcp.Required(), mcp.Description("Destination endpoint")),
			mcp.WithNumber("profile_id", mcp.Required(), mcp.Description("Profile id the cluster belongs to")),
			mcp.WithNumber("src_endpoint", mcp.Required(), mcp.Description("Source endpoint to originate the request from")),
			mcp.WithNumber("cluster", mcp.Required(), mcp.Description("Cluster id")),
			mcp.WithNumber("attribute", mcp.Required(), mcp.Description("Attribute id")),
			mcp.WithNumber("manufacturer_code", mcp.Description("Manufacturer code, 0 for standard clusters")),
		),
		s.handleReadAttribute,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("send_zcl_command",
			mcp.WithDescription("Submit a ZCL cluster command to a node's endpoint/cluster. The command id must exist in the schema database's server-side command table for the cluster; payload_hex is sent as the command body unchanged."),
			mcp.WithString("ext", mcp.Required(), mcp.Description("Target node's IEEE address, hex-encoded")),
			mcp.WithNumber("endpoint", mcp.Required(), mcp.Description("Destination endpoint")),
			mcp.WithNumber("profile_id", mcp.Required(), mcp.Description("Profile id the cluster belongs to")),
			mcp.WithNumber("src_endpoint", mcp.Required(), mcp.Description("Source endpoint to originate the request from")),
			mcp.WithNumber("cluster", mcp.Required(), mcp.Description("Cluster id")),
			mcp.WithNumber("command", mcp.Required(), mcp.Description("Command id")),
			mcp.WithNumber("manufacturer_code", mcp.Description("Manufacturer code, 0 for standard clusters")),
			mcp.WithString("payload_hex", mcp.Description("Pre-encoded command parameter bytes, hex-encoded")),
		),
		s.handleSendCommand,
	)
}
