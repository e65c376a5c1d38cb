package types

// ONUStatus is the normalized operational status of an ONU
type ONUStatus string

const (
	ONUStatusOnline  ONUStatus = "online"
	ONUStatusOffline ONUStatus = "offline"
	ONUStatusUnknown ONUStatus = "unknown"
)

// ONUInfo is the vendor-neutral record for one ONU. Every adapter returns
// this exact shape: fields a vendor does not report stay nil/empty rather
// than being omitted, so serialized records have the same keys everywhere.
//
// The record carries no timestamps; re-reading an unchanged device yields
// an identical value.
type ONUInfo struct {
	// Identifier is the stable key of the ONU on its OLT (serial for GPON,
	// MAC for EPON unless the OID mapping says otherwise)
	Identifier string `json:"identifier"`

	// Vendor is the OLT vendor that produced the record
	Vendor Vendor `json:"vendor"`

	// PONPort is the PON port (e.g., "1/1", "0/1/3")
	PONPort string `json:"pon_port"`

	// ONUID is the ONU ID on the PON port
	ONUID int `json:"onu_id"`

	// Serial is the ONU serial number
	Serial string `json:"serial"`

	// MAC is the ONU MAC address in aa:bb:cc:dd:ee:ff form
	MAC string `json:"mac"`

	Name        string `json:"name"`
	Description string `json:"description"`

	// Model is the ONU model/type string reported by the OLT
	Model string `json:"model"`

	// Status is the normalized status
	Status ONUStatus `json:"status"`

	// OperState is the raw vendor state (working, los, dyinggasp, ...)
	OperState string `json:"oper_state"`

	// AdminState is the administrative state (enabled, disabled)
	AdminState string `json:"admin_state"`

	// RxPowerDBm is the optical power received (at the ONU or as seen by the OLT)
	RxPowerDBm *float64 `json:"rx_power_dbm"`

	// TxPowerDBm is the ONU transmit power
	TxPowerDBm *float64 `json:"tx_power_dbm"`

	// TemperatureC is the ONU temperature in Celsius
	TemperatureC *float64 `json:"temperature_c"`

	// VoltageV is the ONU power supply voltage in Volts
	VoltageV *float64 `json:"voltage_v"`

	// BiasMA is the laser bias current in mA
	BiasMA *float64 `json:"bias_ma"`

	// DistanceM is the fiber distance in meters
	DistanceM *int `json:"distance_m"`

	// Source is the transport the record was read over
	Source Transport `json:"source"`

	// Details contains vendor-specific fields (auth mode, firmware, ...)
	Details map[string]string `json:"details"`
}

// ONUPowerReading represents optical power readings for a specific ONU.
type ONUPowerReading struct {
	Identifier string `json:"identifier"`

	// PONPort is the PON port
	PONPort string `json:"pon_port"`

	// ONUID is the ONU ID
	ONUID int `json:"onu_id"`

	RxPowerDBm *float64 `json:"rx_power_dbm"`
	TxPowerDBm *float64 `json:"tx_power_dbm"`

	// IsWithinSpec is false when any reported reading is outside GPON limits
	IsWithinSpec bool `json:"is_within_spec"`
}

// OLTStatus represents the status of the OLT chassis.
type OLTStatus struct {
	// Vendor is the OLT vendor
	Vendor Vendor `json:"vendor"`

	// Model is the OLT model
	Model string `json:"model"`

	// Firmware is the firmware version
	Firmware string `json:"firmware"`

	// Description is the free-form system description (sysDescr)
	Description string `json:"description"`

	// IsReachable indicates if the OLT answered
	IsReachable bool `json:"is_reachable"`

	// UptimeSeconds is the OLT uptime
	UptimeSeconds int64 `json:"uptime_seconds"`

	// PONPorts lists the PON ports that were inspected
	PONPorts []string `json:"pon_ports"`

	// ActiveONUs is the count of online ONUs
	ActiveONUs int `json:"active_onus"`

	// TotalONUs is the count of all registered ONUs
	TotalONUs int `json:"total_onus"`

	// Metadata contains vendor-specific status data
	Metadata map[string]string `json:"metadata"`
}

// PowerReading extracts the optical part of an ONU record.
func (o *ONUInfo) PowerReading() ONUPowerReading {
	return ONUPowerReading{
		Identifier:   o.Identifier,
		PONPort:      o.PONPort,
		ONUID:        o.ONUID,
		RxPowerDBm:   o.RxPowerDBm,
		TxPowerDBm:   o.TxPowerDBm,
		IsWithinSpec: IsReadingWithinSpec(o.RxPowerDBm, o.TxPowerDBm),
	}
}

// HasPower reports whether the ONU carried any optical reading.
func (o *ONUInfo) HasPower() bool {
	return o.RxPowerDBm != nil || o.TxPowerDBm != nil
}

// Typical GPON optical power thresholds
const (
	// ONU Rx acceptable range: -8 to -28 dBm
	GPONRxHighThreshold = -8.0
	GPONRxLowThreshold  = -28.0

	// ONU Tx acceptable range: 0.5 to 5 dBm
	GPONTxHighThreshold = 5.0
	GPONTxLowThreshold  = 0.5
)

// IsPowerWithinSpec checks if optical power readings are within GPON spec.
func IsPowerWithinSpec(rxDBm, txDBm float64) bool {
	rxOK := rxDBm >= GPONRxLowThreshold && rxDBm <= GPONRxHighThreshold
	txOK := txDBm >= GPONTxLowThreshold && txDBm <= GPONTxHighThreshold
	return rxOK && txOK
}

// IsReadingWithinSpec applies the thresholds to whichever readings exist.
// No readings at all is never within spec.
func IsReadingWithinSpec(rxDBm, txDBm *float64) bool {
	if rxDBm == nil && txDBm == nil {
		return false
	}
	if rxDBm != nil && (*rxDBm < GPONRxLowThreshold || *rxDBm > GPONRxHighThreshold) {
		return false
	}
	if txDBm != nil && (*txDBm < GPONTxLowThreshold || *txDBm > GPONTxHighThreshold) {
		return false
	}
	return true
}
