package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"homai-zigbee/internal/api/types"
	"homai-zigbee/internal/aps"
	"homai-zigbee/internal/controller"
	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/variant"
	"homai-zigbee/internal/zcl"
	"homai-zigbee/internal/zcl/attrschema"
)

// AttributesHandler submits ZCL Read/Write Attributes requests against a
// node's endpoint/cluster/attribute, resolved through the controller's
// schema database.
type AttributesHandler struct {
	ctrl      *controller.Controller
	validator *attrschema.Validator
}

// NewAttributesHandler creates an attributes handler. validator may be nil,
// disabling write-payload validation.
func NewAttributesHandler(ctrl *controller.Controller, validator *attrschema.Validator) *AttributesHandler {
	return &AttributesHandler{ctrl: ctrl, validator: validator}
}

func parseAttrPath(c *gin.Context) (ext uint64, ep uint8, cluster ids.ClusterID, attr ids.AttributeID, err error) {
	ext, err = parseExtParam(c.Param("ext"))
	if err != nil {
		return
	}
	epVal, err := strconv.ParseUint(c.Param("ep"), 10, 8)
	if err != nil {
		return
	}
	clusterVal, err := strconv.ParseUint(trimHexPrefix(c.Param("cluster")), 16, 16)
	if err != nil {
		return
	}
	attrVal, err := strconv.ParseUint(trimHexPrefix(c.Param("attr")), 16, 16)
	if err != nil {
		return
	}
	return ext, uint8(epVal), ids.NewClusterID(uint16(clusterVal)), ids.NewAttributeID(uint16(attrVal)), nil
}

func (h *AttributesHandler) target(ext uint64, ep uint8, profileID uint16, srcEP uint8) controller.AddressTarget {
	var dst controller.AddressTarget
	dst.Dst.SetExt(ext)
	dst.DstMode = aps.ExtAddress
	dst.DstEndpoint = ep
	dst.SrcEndpoint = srcEP
	dst.ProfileID = profileID
	return dst
}

// ReadAttribute handles POST
// /nodes/:ext/endpoints/:ep/clusters/:cluster/attributes/:attr/read.
func (h *AttributesHandler) ReadAttribute(c *gin.Context) {
	ext, ep, cluster, attr, err := parseAttrPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_path", Message: err.Error()})
		return
	}

	var req types.ReadAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	dst := h.target(ext, ep, req.ProfileID, req.SrcEndpoint)
	id, status := h.ctrl.ReadAttribute(dst, cluster, ids.NewManufacturerCode(req.ManufacturerCode), attr)
	if status != aps.StatusSuccess {
		c.JSON(http.StatusConflict, types.ErrorResponse{Error: "submit_failed", Message: status.String()})
		return
	}
	c.JSON(http.StatusAccepted, types.SubmitResponse{RequestID: id, Status: status.String()})
}

// WriteAttribute handles POST
// /nodes/:ext/endpoints/:ep/clusters/:cluster/attributes/:attr/write.
func (h *AttributesHandler) WriteAttribute(c *gin.Context) {
	ext, ep, cluster, attrID, err := parseAttrPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_path", Message: err.Error()})
		return
	}

	var req types.WriteAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	if h.validator != nil {
		if err := h.validator.ValidateAttributeWrite(cluster, attrID, req.Value); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "validation_error", Message: err.Error()})
			return
		}
	}

	dt := ids.NewDataTypeID(req.DataType)
	value, err := valueFromJSON(dt, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_value", Message: err.Error()})
		return
	}

	attr := zcl.NewAttribute(attrID, dt)
	if err := attr.SetValue(value); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_value", Message: err.Error()})
		return
	}

	dst := h.target(ext, ep, req.ProfileID, req.SrcEndpoint)
	id, status, err := h.ctrl.WriteAttribute(dst, cluster, ids.NewManufacturerCode(req.ManufacturerCode), attr)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "encode_failed", Message: err.Error()})
		return
	}
	if status != aps.StatusSuccess {
		c.JSON(http.StatusConflict, types.ErrorResponse{Error: "submit_failed", Message: status.String()})
		return
	}
	c.JSON(http.StatusAccepted, types.SubmitResponse{RequestID: id, Status: status.String()})
}

// valueFromJSON builds a variant.Value of the kind/width dt expects from a
// decoded JSON request body (bool, float64, or string per encoding/json's
// default unmarshaling into interface{}).
func valueFromJSON(dt ids.DataTypeID, raw any) (variant.Value, error) {
	switch v := raw.(type) {
	case bool:
		return variant.Bool(v), nil
	case string:
		return variant.String(v), nil
	case float64:
		width, hasWidth := zcl.WidthOf(dt)
		if !hasWidth {
			return variant.Float32(float32(v)), nil
		}
		if zcl.IsSigned(dt) {
			return variant.Int(int64(v), width), nil
		}
		return variant.Uint(uint64(v), width), nil
	default:
		return variant.Value{}, fmt.Errorf("unsupported value type %T for data type %#02x", raw, dt.Uint8())
	}
}
