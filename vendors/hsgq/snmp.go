package hsgq

import (
	"context"
	"regexp"
	"strconv"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

// EPONFallbackOIDs are walked for EPON chassis whose model has no stored
// mapping. Stored rows override individual entries.
var EPONFallbackOIDs = map[string]string{
	common.FuncName:     "1.3.6.1.4.1.50224.3.3.2.1.2",
	common.FuncTxPower:  "1.3.6.1.4.1.50224.3.3.3.1.4",
	common.FuncRxPower:  "1.3.6.1.4.1.50224.3.3.3.1.5",
	common.FuncStatus:   "1.3.6.1.4.1.50224.3.3.2.1.8",
	common.FuncDistance: "1.3.6.1.4.1.50224.3.3.2.1.15",
	common.FuncMAC:      "1.3.6.1.4.1.50224.3.3.2.1.7",
}

// Default identifier columns per PON type.
const (
	GPONIdentifierKey = common.FuncSerial
	EPONIdentifierKey = common.FuncMAC
)

// indexRegex picks the ONU index: the last arc, or the arc before a
// trailing 0.0 / 65535.65535 pair.
var indexRegex = regexp.MustCompile(`(?:^|\.)(\d+)\.(?:0\.0|65535\.65535)$|(?:^|\.)(\d+)$`)

func snmpIndex(suffix string) (string, bool) {
	m := indexRegex.FindStringSubmatch(suffix)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

var eponStates = map[string]string{"1": "online", "2": "offline"}

func (a *Adapter) oidMap() map[string]string {
	if !a.isEPON() {
		return a.desc.OIDs
	}
	oids := make(map[string]string, len(EPONFallbackOIDs)+len(a.desc.OIDs))
	for fn, oid := range EPONFallbackOIDs {
		oids[fn] = oid
	}
	for fn, oid := range a.desc.OIDs {
		oids[fn] = oid
	}
	return oids
}

// powerDivisor scales raw optical columns to dBm. EPON agents report
// hundredths of a dBm.
func (a *Adapter) powerDivisor() float64 {
	def := 1
	if a.isEPON() {
		def = 100
	}
	d := common.MetadataIntWithDefault(a.desc.Metadata, def, "snmp_power_divisor")
	if d <= 0 {
		d = def
	}
	return float64(d)
}

func (a *Adapter) listONUsSNMP(ctx context.Context) ([]types.ONUInfo, error) {
	oids := a.oidMap()
	if len(oids) == 0 {
		return nil, types.Errorf(types.KindUnsupportedCommand, string(types.VendorHSGQ), "snmp list onus",
			"no OID mapping for model %q", a.desc.Model)
	}

	rows, err := common.WalkTable(ctx, a.snmpExecutor, types.VendorHSGQ, oids, snmpIndex)
	if err != nil {
		return nil, err
	}

	identifierKey := oids[common.FuncIdentifierKey]
	if identifierKey == "" {
		identifierKey = GPONIdentifierKey
		if a.isEPON() {
			identifierKey = EPONIdentifierKey
		}
	}

	divisor := a.powerDivisor()
	decoder := common.RowDecoder{
		Power: func(raw float64) (float64, bool) { return raw / divisor, true },
	}
	switch identifierKey {
	case common.FuncMAC:
		decoder.Identifier = common.NormalizeMAC
	case common.FuncSerial:
		decoder.Identifier = common.NormalizeSerial
	}
	if a.isEPON() {
		decoder.State = func(raw string) string {
			if s, ok := eponStates[raw]; ok {
				return s
			}
			return "unknown"
		}
	}

	onus := []types.ONUInfo{}
	for _, row := range rows {
		onu, ok := row.ToONU(types.VendorHSGQ, identifierKey, decoder)
		if !ok {
			continue
		}
		onu.ONUID, _ = strconv.Atoi(row.Index)
		onus = append(onus, onu)
	}
	return onus, nil
}
