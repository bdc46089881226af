package zcldb

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/zcl"
)

// frame is one open element on the parser's section stack (spec.md §4.4:
// "parsing is a stack machine with a section stack").
type frame struct {
	name  string
	attrs map[string]string
	text  strings.Builder

	domain    *domainBuild
	side      *zcl.Cluster // the server/client Cluster a cluster's children attach to
	attrSet   *zcl.AttributeSet
	attribute *zcl.Attribute
	command   *zcl.Command
	enumD     *EnumerationDescriptor
	dtD       *DataTypeDescriptor
	device    *DeviceDescriptor
	profile   *ProfileDescriptor
}

type domainBuild struct {
	name string
	in   map[uint32]*zcl.Cluster
	out  map[uint32]*zcl.Cluster
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// LoadFile parses one schema XML document, merging its contents into db.
func (db *Database) LoadFile(path string) error {
	f, err := db.openFile(path)
	if err != nil {
		return fmt.Errorf("zcldb: open %s: %w", path, err)
	}
	defer f.Close()
	return db.parse(path, f)
}

func (db *Database) parse(source string, r io.Reader) error {
	dec := xml.NewDecoder(r)
	var stack []*frame

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("zcldb: %s: %w", source, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			var parent *frame
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			f := db.openFrame(t, parent, source, dec)
			stack = append(stack, f)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			var parent *frame
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			db.closeFrame(f, parent, source)

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	return nil
}

func (db *Database) openFrame(t xml.StartElement, parent *frame, source string, dec *xml.Decoder) *frame {
	f := &frame{name: t.Name.Local, attrs: attrMap(t.Attr)}

	switch f.name {
	case "domain":
		f.domain = &domainBuild{
			name: f.attrs["name"],
			in:   make(map[uint32]*zcl.Cluster),
			out:  make(map[uint32]*zcl.Cluster),
		}

	case "server", "client":
		if parent == nil || parent.name != "cluster" {
			db.warnf(source, dec, "%q outside a <cluster>", f.name)
			break
		}
		id := hexU16(f.attrs["id"])
		opp := id
		if v, ok := parent.attrs["opposite"]; ok {
			opp = hexU16(v)
		}
		f.side = &zcl.Cluster{
			ID:               ids.NewClusterID(id),
			OppositeID:       ids.NewClusterID(opp),
			ManufacturerCode: ids.NewManufacturerCode(hexU16(parent.attrs["mfcode"])),
			Name:             parent.attrs["name"],
			Description:      parent.attrs["description"],
			IsZCL:            parent.attrs["zcl"] != "false",
			IsServer:         f.name == "server",
		}

	case "attribute-set":
		f.attrSet = &zcl.AttributeSet{
			ID:               intAttr(f.attrs["id"]),
			ManufacturerCode: ids.NewManufacturerCode(hexU16(f.attrs["mfcode"])),
		}

	case "attribute":
		dt, err := parseDataType(f.attrs["type"])
		if err != nil {
			db.warnf(source, dec, "attribute %s: %v", f.attrs["id"], err)
		}
		a := zcl.NewAttribute(ids.NewAttributeID(uint16(hexU16(f.attrs["id"]))), dt)
		a.Name = f.attrs["name"]
		a.Description = f.attrs["description"]
		a.Access = parseAccess(f.attrs["access"])
		a.Mandatory = f.attrs["mandatory"] == "true"
		a.Available = true
		a.NumericBase = parseBase(f.attrs["base"])
		if mf, ok := f.attrs["mfcode"]; ok {
			a.ManufacturerCode = ids.NewManufacturerCode(hexU16(mf))
		}
		f.attribute = a

	case "command":
		dir := zcl.DirectionReceived
		if f.attrs["direction"] == "sent" {
			dir = zcl.DirectionSent
		}
		cmd := zcl.NewCommand(ids.NewCommandID(uint8(hexU16(f.attrs["id"]))), f.attrs["name"], dir)
		cmd.Description = f.attrs["description"]
		cmd.Mandatory = f.attrs["mandatory"] == "true"
		cmd.DisableDefaultResponse = f.attrs["disableDefaultResponse"] == "true"
		cmd.ProfileWide = f.attrs["profileWide"] == "true"
		if r, ok := f.attrs["response"]; ok {
			cmd.ResponseCommandID = ids.NewCommandID(uint8(hexU16(r)))
		}
		if mf, ok := f.attrs["mfcode"]; ok {
			cmd.ManufacturerCode = ids.NewManufacturerCode(hexU16(mf))
		}
		f.command = cmd

	case "payload":
		if parent != nil {
			f.command = parent.command
		}

	case "datatype":
		f.dtD = &DataTypeDescriptor{
			ID:         ids.NewDataTypeID(uint8(hexU16(f.attrs["id"]))),
			Name:       f.attrs["name"],
			ShortName:  f.attrs["short"],
			ByteLength: intAttr(f.attrs["length"]),
			IsAnalog:   f.attrs["analog"] == "true",
		}

	case "enumeration":
		f.enumD = &EnumerationDescriptor{ID: intAttr(f.attrs["id"]), Name: f.attrs["name"]}

	case "device":
		f.device = &DeviceDescriptor{
			ProfileID: uint16(hexU16(f.attrs["profile"])),
			DeviceID:  uint16(hexU16(f.attrs["id"])),
			Name:      f.attrs["name"],
		}

	case "profile":
		f.profile = &ProfileDescriptor{ID: uint16(hexU16(f.attrs["id"])), Name: f.attrs["name"]}

	case "value", "domain-ref", "cluster":
		// resolved against the parent at close time; nothing to build yet.

	default:
		if parent != nil {
			db.warnf(source, dec, "unrecognized element <%s>", f.name)
		}
	}

	return f
}

func (db *Database) closeFrame(f, parent *frame, source string) {
	switch f.name {
	case "domain":
		db.domains[f.domain.name] = &domain{name: f.domain.name, in: f.domain.in, out: f.domain.out}

	case "server", "client":
		if f.side == nil || parent == nil || parent.domain == nil {
			return
		}
		key := domainKey(f.side.ID, f.side.ManufacturerCode)
		if f.side.IsServer {
			parent.domain.in[key] = f.side
		} else {
			parent.domain.out[key] = f.side
		}

	case "attribute-set":
		if parent != nil && parent.side != nil {
			parent.side.AttributeSets = append(parent.side.AttributeSets, f.attrSet)
		}

	case "attribute":
		switch {
		case parent == nil:
		case parent.attrSet != nil:
			parent.attrSet.Attributes = append(parent.attrSet.Attributes, f.attribute)
		case parent.command != nil:
			parent.command.Parameters = append(parent.command.Parameters, f.attribute)
		case parent.side != nil:
			parent.side.Attributes = append(parent.side.Attributes, f.attribute)
		default:
			log.Warn().Str("source", source).Msg("zcldb: attribute outside any cluster/command context")
		}

	case "command":
		if parent != nil && parent.side != nil {
			parent.side.Commands = append(parent.side.Commands, f.command)
		}

	case "value":
		name := f.attrs["name"]
		text := strings.TrimSpace(f.text.String())
		if name == "" {
			name = text
		}
		pos := intAttr(f.attrs["pos"])
		switch {
		case parent == nil:
		case parent.attribute != nil:
			parent.attribute.EnumValues = append(parent.attribute.EnumValues, zcl.EnumValue{Name: name, Position: pos})
			if parent.attribute.EnumerationID < 0 {
				parent.attribute.EnumerationID = 0
			}
		case parent.enumD != nil:
			parent.enumD.Values = append(parent.enumD.Values, EnumValueDescriptor{Name: name, Position: pos})
		}

	case "datatype":
		db.dataTypes[f.dtD.ID.Uint8()] = *f.dtD
		if f.dtD.ShortName != "" {
			db.dataTypesByName[f.dtD.ShortName] = *f.dtD
		}

	case "enumeration":
		db.enumerations[f.enumD.ID] = *f.enumD

	case "device":
		db.devices = append(db.devices, *f.device)

	case "domain-ref":
		if parent != nil && parent.profile != nil {
			parent.profile.Domains = append(parent.profile.Domains, f.attrs["name"])
		}

	case "profile":
		db.profiles[f.profile.ID] = *f.profile
	}
}

func (db *Database) warnf(source string, dec *xml.Decoder, format string, args ...any) {
	line, _ := dec.InputPos()
	log.Warn().Str("source", source).Int("line", line).Msg(fmt.Sprintf(format, args...))
}

func hexU16(s string) uint16 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 32)
	if err != nil {
		return 0
	}
	return uint16(v)
}

func intAttr(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func parseAccess(s string) zcl.Access {
	switch s {
	case "w", "write":
		return zcl.AccessWrite
	case "rw", "readwrite":
		return zcl.AccessReadWrite
	default:
		return zcl.AccessRead
	}
}

func parseBase(s string) zcl.NumericBase {
	switch s {
	case "2":
		return zcl.Base2
	case "16":
		return zcl.Base16
	default:
		return zcl.Base10
	}
}
