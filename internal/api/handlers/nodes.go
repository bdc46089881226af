package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homai-zigbee/internal/api/types"
	"homai-zigbee/internal/controller"
	"homai-zigbee/internal/nodecache"
	"homai-zigbee/internal/zdp"
)

// NodesHandler serves the read-only node-cache views.
type NodesHandler struct {
	ctrl *controller.Controller
}

// NewNodesHandler creates a nodes handler.
func NewNodesHandler(ctrl *controller.Controller) *NodesHandler {
	return &NodesHandler{ctrl: ctrl}
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

func toNodeDTO(n *nodecache.Node) types.Node {
	eps := make([]int, 0, len(n.ActiveEndpoints()))
	for _, ep := range n.ActiveEndpoints() {
		eps = append(eps, int(ep))
	}

	dto := types.Node{
		ExtAddress:      n.Address.StringExt(),
		UserDescriptor:  n.UserDescriptor,
		DeviceType:      deviceTypeString(n.NodeDescriptor.DeviceType()),
		ActiveEndpoints: eps,
		Zombie:          n.Zombie,
		EnergyDetect:    int(n.EnergyDetect),
	}
	if n.Address.HasNwk() {
		dto.NwkAddress = n.Address.StringNwk()
	}
	return dto
}

// ListNodes handles GET /nodes.
func (h *NodesHandler) ListNodes(c *gin.Context) {
	nodes := h.ctrl.Nodes()
	out := make([]types.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toNodeDTO(n))
	}
	c.JSON(http.StatusOK, types.ListNodesResponse{Nodes: out, Count: len(out)})
}

// GetNode handles GET /nodes/:ext. The ext path param is the IEEE address
// in hex, with or without a "0x" prefix.
func (h *NodesHandler) GetNode(c *gin.Context) {
	ext, err := parseExtParam(c.Param("ext"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_ext_address", Message: err.Error()})
		return
	}

	for _, n := range h.ctrl.Nodes() {
		if n.Address.Ext() == ext {
			c.JSON(http.StatusOK, types.NodeResponse{Node: toNodeDTO(n)})
			return
		}
	}
	c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "not_found", Message: "node not found"})
}

func parseExtParam(raw string) (uint64, error) {
	raw = trimHexPrefix(raw)
	return strconv.ParseUint(raw, 16, 64)
}

func trimHexPrefix(s string) string {
	if len(s) > 1 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}
