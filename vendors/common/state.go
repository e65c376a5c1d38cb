package common

import (
	"strings"

	"github.com/nanoncore/olt-gateway/types"
)

// stateWords maps raw vendor state words onto the normalized status.
var stateWords = map[string]types.ONUStatus{
	"up":          types.ONUStatusOnline,
	"online":      types.ONUStatusOnline,
	"working":     types.ONUStatusOnline,
	"active":      types.ONUStatusOnline,
	"registered":  types.ONUStatusOnline,
	"operational": types.ONUStatusOnline,
	"down":        types.ONUStatusOffline,
	"offline":     types.ONUStatusOffline,
	"los":         types.ONUStatusOffline,
	"dyinggasp":   types.ONUStatusOffline,
	"dying_gasp":  types.ONUStatusOffline,
	"poweroff":    types.ONUStatusOffline,
	"deactivated": types.ONUStatusOffline,
	"inactive":    types.ONUStatusOffline,
	"authfailed":  types.ONUStatusOffline,
	"logging":     types.ONUStatusOffline,
	"syncmib":     types.ONUStatusOffline,
}

// StatusOf normalizes a raw vendor state. Unrecognized words are unknown.
func StatusOf(state string) types.ONUStatus {
	key := strings.ToLower(strings.TrimSpace(state))
	key = strings.NewReplacer(" ", "", "-", "").Replace(key)
	if s, ok := stateWords[key]; ok {
		return s
	}
	return types.ONUStatusUnknown
}

// IsOnline reports whether an ONU record is online, preferring an
// already normalized status.
func IsOnline(onu types.ONUInfo) bool {
	if onu.Status != "" {
		return onu.Status == types.ONUStatusOnline
	}
	return StatusOf(onu.OperState) == types.ONUStatusOnline
}
