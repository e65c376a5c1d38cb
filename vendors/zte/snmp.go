package zte

import (
	"context"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

// C3xx enterprise MIB columns, indexed by <ifIndex>.<onu>. The receive
// power column carries one extra arc.
const (
	OIDONUType     = "1.3.6.1.4.1.3902.1012.3.28.1.1.1"
	OIDONUName     = "1.3.6.1.4.1.3902.1012.3.28.1.1.2"
	OIDONUSerial   = "1.3.6.1.4.1.3902.1012.3.28.1.1.5"
	OIDONUPhase    = "1.3.6.1.4.1.3902.1012.3.28.2.1.4"
	OIDONURxPower  = "1.3.6.1.4.1.3902.1012.3.50.12.1.1.10"
	OIDONUDistance = "1.3.6.1.4.1.3902.1012.3.11.4.1.2"
)

// DefaultOIDs are walked when the model has no stored mapping. Stored
// rows override individual entries.
var DefaultOIDs = map[string]string{
	common.FuncModel:    OIDONUType,
	common.FuncName:     OIDONUName,
	common.FuncSerial:   OIDONUSerial,
	common.FuncStatus:   OIDONUPhase,
	common.FuncRxPower:  OIDONURxPower,
	common.FuncDistance: OIDONUDistance,
}

// DefaultIdentifierKey is the GPON serial column.
const DefaultIdentifierKey = common.FuncSerial

var phaseStates = map[string]string{
	"1": "logging",
	"2": "los",
	"3": "syncmib",
	"4": "working",
	"5": "dyinggasp",
	"6": "authfailed",
	"7": "offline",
}

// snmpIndex keeps <ifIndex>.<onu>, dropping trailing arcs.
func snmpIndex(suffix string) (string, bool) {
	parts := strings.Split(suffix, ".")
	if len(parts) < 2 {
		return "", false
	}
	return parts[0] + "." + parts[1], true
}

// DecodeIfIndex maps a GPON port ifIndex to its rack/shelf/port name.
// 268501248 (0x10010100) is gpon-olt_1/1/1.
func DecodeIfIndex(ifIndex uint32) string {
	slot := (ifIndex >> 16) & 0xff
	port := (ifIndex >> 8) & 0xff
	return "1/" + strconv.FormatUint(uint64(slot), 10) + "/" + strconv.FormatUint(uint64(port), 10)
}

// rxPower converts the onu-rx column. The agent reports 65535 when the
// ONU is not ranging.
func rxPower(raw float64) (float64, bool) {
	if raw <= 0 || raw >= 65535 {
		return 0, false
	}
	return raw*0.002 - 30, true
}

// DecodeSerial renders the 8-octet GPON serial as vendor ID plus hex,
// e.g. "ZTEG" 0xc0a1b2c3 -> ZTEGC0A1B2C3. The serial number half is
// always binary, even when its bytes happen to be printable. Text serials
// (12 characters) pass through.
func DecodeSerial(raw string) string {
	if len(raw) == 8 && isPrintable(raw[:4]) {
		return strings.ToUpper(raw[:4] + hex.EncodeToString([]byte(raw[4:])))
	}
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "0x") && len(trimmed) == 18 {
		if b, err := hex.DecodeString(trimmed[2:]); err == nil {
			return DecodeSerial(string(b))
		}
	}
	return common.NormalizeSerial(trimmed)
}

func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

func (a *Adapter) oidMap() map[string]string {
	oids := make(map[string]string, len(DefaultOIDs)+len(a.desc.OIDs))
	for fn, oid := range DefaultOIDs {
		oids[fn] = oid
	}
	for fn, oid := range a.desc.OIDs {
		oids[fn] = oid
	}
	return oids
}

func (a *Adapter) listONUsSNMP(ctx context.Context) ([]types.ONUInfo, error) {
	oids := a.oidMap()
	rows, err := common.WalkTable(ctx, a.snmpExecutor, types.VendorZTE, oids, snmpIndex)
	if err != nil {
		return nil, err
	}

	identifierKey := oids[common.FuncIdentifierKey]
	if identifierKey == "" {
		identifierKey = DefaultIdentifierKey
	}
	decoder := common.RowDecoder{
		Power: rxPower,
		State: func(raw string) string {
			if s, ok := phaseStates[raw]; ok {
				return s
			}
			return "unknown"
		},
	}
	if identifierKey == common.FuncSerial {
		decoder.Identifier = DecodeSerial
	}

	onus := []types.ONUInfo{}
	for _, row := range rows {
		onu, ok := row.ToONU(types.VendorZTE, identifierKey, decoder)
		if !ok {
			continue
		}
		if raw, ok := row.Values[common.FuncSerial]; ok {
			if s, ok := common.ParseStringSNMPValue(raw); ok {
				onu.Serial = DecodeSerial(s)
				onu.Details[common.FuncSerial] = onu.Serial
			}
		}

		parts := strings.SplitN(row.Index, ".", 2)
		if ifIndex, err := strconv.ParseUint(parts[0], 10, 32); err == nil {
			onu.PONPort = DecodeIfIndex(uint32(ifIndex))
		}
		if len(parts) == 2 {
			onu.ONUID, _ = strconv.Atoi(parts[1])
		}
		onus = append(onus, onu)
	}
	return onus, nil
}
