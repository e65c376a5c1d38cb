package hioso

import (
	"context"
	"strconv"
	"strings"

	"github.com/nanoncore/olt-gateway/types"
	"github.com/nanoncore/olt-gateway/vendors/common"
)

// DefaultIdentifierKey is the mapping function used as the ONU key when the
// OID mapping does not name one.
const DefaultIdentifierKey = common.FuncMAC

// Hioso agents index ONU tables by <pon>.<onu>.
var snmpIndex = common.LastArcsIndex(2)

// listONUsSNMP walks every mapped column. Power columns are reported by the
// agent in dBm already.
func (a *Adapter) listONUsSNMP(ctx context.Context) ([]types.ONUInfo, error) {
	if len(a.desc.OIDs) == 0 {
		return nil, types.Errorf(types.KindUnsupportedCommand, string(types.VendorHioso), "snmp list onus",
			"no OID mapping for model %q", a.desc.Model)
	}

	rows, err := common.WalkTable(ctx, a.snmpExecutor, types.VendorHioso, a.desc.OIDs, snmpIndex)
	if err != nil {
		return nil, err
	}

	identifierKey := a.desc.OIDs[common.FuncIdentifierKey]
	if identifierKey == "" {
		identifierKey = DefaultIdentifierKey
	}
	decoder := common.RowDecoder{}
	if identifierKey == common.FuncMAC {
		decoder.Identifier = common.MACIdentifier
	}

	onus := []types.ONUInfo{}
	for _, row := range rows {
		onu, ok := row.ToONU(types.VendorHioso, identifierKey, decoder)
		if !ok {
			continue
		}
		onu.PONPort, onu.ONUID = splitIndex(row.Index)
		onus = append(onus, onu)
	}
	return onus, nil
}

// splitIndex turns "<pon>.<onu>" into the CLI's "1/<pon>" port and ONU ID.
func splitIndex(index string) (string, int) {
	parts := strings.Split(index, ".")
	if len(parts) != 2 {
		return "", 0
	}
	onu, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0
	}
	return "1/" + parts[0], onu
}
