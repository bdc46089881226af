package zcldb

import (
	"bufio"
	"os"
	"strings"

	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/zcl"
)

// DefaultSchemaPath is where the library seeds an empty or stale index from,
// per spec.md §6.1.
const DefaultSchemaPath = "/usr/share/homai-zigbee/zcl/general.xml"

type domain struct {
	name string
	in   map[uint32]*zcl.Cluster // server-side clusters ("in", per Zigbee's own In/Out cluster naming)
	out  map[uint32]*zcl.Cluster // client-side clusters
}

// Database is the runtime schema repository: data types, enumerations,
// devices, profiles and domains of clusters, loaded from one or more XML
// files (spec.md §3/§4.4).
type Database struct {
	dataTypes       map[uint8]DataTypeDescriptor
	dataTypesByName map[string]DataTypeDescriptor
	enumerations    map[int]EnumerationDescriptor
	devices         []DeviceDescriptor
	profiles        map[uint16]ProfileDescriptor
	domains         map[string]*domain
}

// NewDatabase returns an empty, ready-to-load schema database.
func NewDatabase() *Database {
	return &Database{
		dataTypes:       make(map[uint8]DataTypeDescriptor),
		dataTypesByName: make(map[string]DataTypeDescriptor),
		enumerations:    make(map[int]EnumerationDescriptor),
		profiles:        make(map[uint16]ProfileDescriptor),
		domains:         make(map[string]*domain),
	}
}

func (db *Database) openFile(path string) (*os.File, error) { return os.Open(path) }

// LoadIndex reads a newline-delimited list of schema file paths (blank lines
// and "#" comments ignored) and loads each one. If the index cannot be read,
// or its general.xml entry is missing on disk, it falls back to
// DefaultSchemaPath (spec.md §6.1).
func (db *Database) LoadIndex(indexPath string) error {
	f, err := os.Open(indexPath)
	if err != nil {
		return db.LoadFile(DefaultSchemaPath)
	}
	defer f.Close()

	var files []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		files = append(files, line)
	}

	stale := len(files) == 0
	for _, fp := range files {
		if strings.HasSuffix(fp, "general.xml") {
			if _, err := os.Stat(fp); err != nil {
				stale = true
			}
		}
	}
	if stale {
		return db.LoadFile(DefaultSchemaPath)
	}

	for _, fp := range files {
		if err := db.LoadFile(fp); err != nil {
			return err
		}
	}
	return nil
}

// DataType looks up a data-type descriptor by its 8-bit id.
func (db *Database) DataType(id ids.DataTypeID) (DataTypeDescriptor, bool) {
	d, ok := db.dataTypes[id.Uint8()]
	return d, ok
}

// DataTypeByShortName looks up a data-type descriptor by its schema short
// name (e.g. "uint8", "bmp16").
func (db *Database) DataTypeByShortName(name string) (DataTypeDescriptor, bool) {
	d, ok := db.dataTypesByName[name]
	return d, ok
}

// Enumeration looks up a shared enumeration descriptor by id.
func (db *Database) Enumeration(id int) (EnumerationDescriptor, bool) {
	e, ok := db.enumerations[id]
	return e, ok
}

// Devices returns every loaded device descriptor. Profile-specific entries
// (ProfileID != 0) are not deduplicated against generic ones here; callers
// preferring profile-specific entries should filter by ProfileID themselves.
func (db *Database) Devices() []DeviceDescriptor { return db.devices }

// InCluster resolves the server-side ("in") cluster for (profile, cluster,
// mfcode). Returns a placeholder "Unknown" cluster if no definition matches.
func (db *Database) InCluster(profileID uint16, cluster ids.ClusterID, mfcode ids.ManufacturerCode) *zcl.Cluster {
	return db.lookupCluster(profileID, cluster, mfcode, true)
}

// OutCluster resolves the client-side ("out") cluster for (profile, cluster,
// mfcode). Returns a placeholder "Unknown" cluster if no definition matches.
func (db *Database) OutCluster(profileID uint16, cluster ids.ClusterID, mfcode ids.ManufacturerCode) *zcl.Cluster {
	return db.lookupCluster(profileID, cluster, mfcode, false)
}

func (db *Database) lookupCluster(profileID uint16, cluster ids.ClusterID, mfcode ids.ManufacturerCode, server bool) *zcl.Cluster {
	prof, ok := db.profiles[profileID]
	if ok {
		key := domainKey(cluster, mfcode)
		for _, name := range prof.Domains {
			dom, ok := db.domains[name]
			if !ok {
				continue
			}
			m := dom.out
			if server {
				m = dom.in
			}
			if c, ok := m[key]; ok {
				return filterForMfg(c, mfcode)
			}
		}
	}
	return zcl.NewUnknownCluster(cluster, server)
}

// filterForMfg returns a shallow copy of c with attributes, attribute-sets
// and commands filtered to those visible to mfcode: a zero manufacturer
// code (profile-wide) or one equal to mfcode under the 0x115F<->0x1037
// legacy alias (spec.md §3, ManufacturerCode.MatchesForLookup).
func filterForMfg(c *zcl.Cluster, mfcode ids.ManufacturerCode) *zcl.Cluster {
	out := &zcl.Cluster{
		ID:               c.ID,
		OppositeID:       c.OppositeID,
		ManufacturerCode: c.ManufacturerCode,
		Name:             c.Name,
		Description:      c.Description,
		IsZCL:            c.IsZCL,
		IsServer:         c.IsServer,
	}
	for _, a := range c.Attributes {
		if visibleTo(a.ManufacturerCode, mfcode) {
			out.Attributes = append(out.Attributes, a)
		}
	}
	for _, set := range c.AttributeSets {
		if !visibleTo(set.ManufacturerCode, mfcode) {
			continue
		}
		filtered := &zcl.AttributeSet{ID: set.ID, ManufacturerCode: set.ManufacturerCode}
		for _, a := range set.Attributes {
			if visibleTo(a.ManufacturerCode, mfcode) {
				filtered.Attributes = append(filtered.Attributes, a)
			}
		}
		out.AttributeSets = append(out.AttributeSets, filtered)
	}
	for _, cmd := range c.Commands {
		if visibleTo(cmd.ManufacturerCode, mfcode) {
			out.Commands = append(out.Commands, cmd)
		}
	}
	return out
}

func visibleTo(itemCode, caller ids.ManufacturerCode) bool {
	if !itemCode.IsSpecific() {
		return true
	}
	return itemCode.MatchesForLookup(caller)
}
