package mcpsurface

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"homai-zigbee/internal/aps"
	"homai-zigbee/internal/controller"
	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/nodecache"
	"homai-zigbee/internal/zdp"
)

func buildTarget(ext uint64, ep uint8, profileID uint16, srcEP uint8) controller.AddressTarget {
	var dst controller.AddressTarget
	dst.Dst.SetExt(ext)
	dst.DstMode = aps.ExtAddress
	dst.DstEndpoint = ep
	dst.SrcEndpoint = srcEP
	dst.ProfileID = profileID
	return dst
}

func deviceTypeString(dt zdp.DeviceType) string {
	switch dt {
	case zdp.Coordinator:
		return "coordinator"
	case zdp.Router:
		return "router"
	case zdp.EndDevice:
		return "end_device"
	default:
		return "unknown"
	}
}

func toNodeInfo(n *nodecache.Node) NodeInfo {
	eps := make([]int, 0, len(n.ActiveEndpoints()))
	for _, ep := range n.ActiveEndpoints() {
		eps = append(eps, int(ep))
	}
	info := NodeInfo{
		ExtAddress:      n.Address.StringExt(),
		UserDescriptor:  n.UserDescriptor,
		DeviceType:      deviceTypeString(n.NodeDescriptor.DeviceType()),
		ActiveEndpoints: eps,
		Zombie:          n.Zombie,
	}
	if n.Address.HasNwk() {
		info.NwkAddress = n.Address.StringNwk()
	}
	return info
}

func (s *Server) handleListNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes := s.ctrl.Nodes()
	out := ListNodesOutput{Nodes: make([]NodeInfo, 0, len(nodes)), Count: len(nodes)}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, toNodeInfo(n))
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleReadAttribute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ext, err := requiredHexAddress(request, "ext")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ep, err := requiredUint(request, "endpoint")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	profileID, err := requiredUint(request, "profile_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	srcEP, err := requiredUint(request, "src_endpoint")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clusterID, err := requiredUint(request, "cluster")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attrID, err := requiredUint(request, "attribute")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mfg := optionalUint(request, "manufacturer_code", 0)

	dst := buildTarget(ext, uint8(ep), uint16(profileID), uint8(srcEP))
	id, status := s.ctrl.ReadAttribute(dst, ids.NewClusterID(uint16(clusterID)), ids.NewManufacturerCode(uint16(mfg)), ids.NewAttributeID(uint16(attrID)))

	out := ReadAttributeOutput{RequestID: int(id), Status: status.String()}
	if status != aps.StatusSuccess {
		return mcp.NewToolResultError(fmt.Sprintf("submit failed: %s", status)), nil
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleSendCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ext, err := requiredHexAddress(request, "ext")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ep, err := requiredUint(request, "endpoint")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	profileID, err := requiredUint(request, "profile_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	srcEP, err := requiredUint(request, "src_endpoint")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clusterID, err := requiredUint(request, "cluster")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	cmdID, err := requiredUint(request, "command")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mfg := optionalUint(request, "manufacturer_code", 0)

	payload, err := hex.DecodeString(strings.TrimPrefix(optionalString(request, "payload_hex", ""), "0x"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid payload_hex: %s", err)), nil
	}

	dst := buildTarget(ext, uint8(ep), uint16(profileID), uint8(srcEP))
	mfgCode := ids.NewManufacturerCode(uint16(mfg))
	cID := ids.NewClusterID(uint16(clusterID))

	cluster := s.ctrl.ClusterFor(dst, cID, mfgCode, true)
	cmd := cluster.Command(ids.NewCommandID(uint8(cmdID)))
	if cmd == nil {
		return mcp.NewToolResultError(fmt.Sprintf("command %#02x not found on cluster %#04x", cmdID, clusterID)), nil
	}

	id, status := s.ctrl.SendCommand(dst, cID, cluster, cmd, payload)
	out := SendCommandOutput{RequestID: int(id), Status: status.String()}
	if status != aps.StatusSuccess {
		return mcp.NewToolResultError(fmt.Sprintf("submit failed: %s", status)), nil
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalString(request mcp.CallToolRequest, key, def string) string {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func requiredUint(request mcp.CallToolRequest, key string) (uint64, error) {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("required parameter %q is missing", key)
	}
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0, fmt.Errorf("parameter %q must be a non-negative number", key)
	}
	return uint64(f), nil
}

func optionalUint(request mcp.CallToolRequest, key string, def uint64) uint64 {
	v, ok := request.GetArguments()[key]
	if !ok || v == nil {
		return def
	}
	if f, ok := v.(float64); ok && f >= 0 {
		return uint64(f)
	}
	return def
}

func requiredHexAddress(request mcp.CallToolRequest, key string) (uint64, error) {
	raw, err := requiredString(request, key)
	if err != nil {
		return 0, err
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	ext, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be a hex-encoded IEEE address: %w", key, err)
	}
	return ext, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
