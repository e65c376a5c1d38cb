package model

import (
	"strings"
	"time"

	"github.com/nanoncore/olt-gateway/types"
)

// ONU is the persisted record of an optical network unit, keyed by
// (OLTID, Identifier).
type ONU struct {
	ID    int64 `json:"id"`
	OLTID int64 `json:"olt_id"`

	// Identifier is the vendor-neutral key (serial or MAC)
	Identifier string `json:"identifier"`

	PONInterface string `json:"pon_interface"`
	VendorName   string `json:"vendor_name"`

	// Details is the last record read over CLI
	Details *types.ONUInfo `json:"details,omitempty"`

	// DetailsSNMP is the last record read over SNMP
	DetailsSNMP *types.ONUInfo `json:"details_snmp,omitempty"`

	LastSeen time.Time `json:"last_seen"`
}

// OID maps one metric function of a vendor/model onto an SNMP object.
// Mappings are shared by every tenant.
type OID struct {
	ID  int64  `json:"id"`
	OID string `json:"oid"`

	// Function is the logical key, e.g. "rx_power" or "serial_number".
	// The special function "identifier_key" names the identifier field in
	// the OID column instead of an object.
	Function string `json:"fungsi"`

	Type   string       `json:"type"`
	Model  string       `json:"model"`
	Vendor types.Vendor `json:"vendor"`
}

// FunctionIdentifierKey marks a mapping row that selects the identifier field.
const FunctionIdentifierKey = "identifier_key"

// OIDMap flattens mappings into function -> OID for one hardware model.
// Rows without a model apply to every model; model-specific rows win.
func OIDMap(oids []OID, model string) map[string]string {
	out := make(map[string]string, len(oids))
	for _, o := range oids {
		if o.Model == "" {
			out[o.Function] = mappingValue(o)
		}
	}
	for _, o := range oids {
		if o.Model != "" && strings.EqualFold(o.Model, model) {
			out[o.Function] = mappingValue(o)
		}
	}
	return out
}

func mappingValue(o OID) string {
	return strings.TrimSpace(o.OID)
}
