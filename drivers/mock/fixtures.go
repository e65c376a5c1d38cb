package mock

// Canned device sessions for the supported vendors, captured from lab
// chassis and trimmed.

const hiosoShowONUAll = `
 OnuId   Mac             Status  Ports  ChipId  Version  Flags  AuthMode  Distance  Time
 ------- --------------- ------- ------ ------- -------- ------ --------- --------- -------------------------
 1/1:1   98c7a4.5e30b8   Up      1      0x0     0x4853   0      Undef     412       22 hours 2 minutes 15 seconds
 1/1:2   98c7a4.5e4410   Down    1      0x0     0x4853   0      Undef     0         0 hours 0 minutes 0 seconds
 --- Press Enter Or Space To Continue ---
 1/1:3   e0e8e6.123456   Up      1      0x0     0x4853   0      Undef     1280      3 days 1 hours 5 minutes 0 seconds
`

const hiosoShowVersion = `
 Product Name     : EPON OLT
 Software Version : V1.2.3
 Hardware Version : V2.0
 Uptime           : 12 days 3 hours 4 minutes 5 seconds
`

// HiosoTelnetScript is a two-port chassis where only 1/1 exists.
func HiosoTelnetScript() Script {
	s := Script{}
	s.On("configure terminal", "")
	s.On("epon", "")
	s.On("pon 1/1", "")
	s.On("pon 1/2", "% Unknown command.")
	s.On("show onu all", hiosoShowONUAll)
	s.On("exit", "")
	s.On("show version", hiosoShowVersion)
	return s
}

// Hioso OID mapping as stored for the test model.
var HiosoOIDs = map[string]string{
	"mac_address": "1.3.6.1.4.1.25355.3.2.6.3.2.1.11",
	"name":        "1.3.6.1.4.1.25355.3.2.6.3.2.1.37",
	"status":      "1.3.6.1.4.1.25355.3.2.6.3.2.1.39",
	"rx_power":    "1.3.6.1.4.1.25355.3.2.6.14.2.1.8",
	"tx_power":    "1.3.6.1.4.1.25355.3.2.6.14.2.1.4",
}

// HiosoSNMPScript answers the HiosoOIDs walks. Index 1.3 has no MAC and
// must be skipped.
func HiosoSNMPScript() Script {
	s := Script{}
	s.Walk(HiosoOIDs["mac_address"], map[string]interface{}{
		"1.1": "\x98\xc7\xa4\x5e\x30\xb8",
		"1.2": "\x98\xc7\xa4\x5e\x44\x10",
	})
	s.Walk(HiosoOIDs["name"], map[string]interface{}{"1.1": "rumah-andi", "1.2": "warung", "1.3": "orphan"})
	s.Walk(HiosoOIDs["status"], map[string]interface{}{"1.1": "Up", "1.2": "Down", "1.3": "Up"})
	s.Walk(HiosoOIDs["rx_power"], map[string]interface{}{"1.1": "-21.46", "1.2": "-40.0"})
	s.Walk(HiosoOIDs["tx_power"], map[string]interface{}{"1.1": "2.1"})
	s.Gets = systemGroup("Hioso EPON OLT, Software Version V1.2.3")
	return s
}

const hsgqOpticalAll = `
 PON/ONU  SN              Temp    Voltage   Bias      TxPower     RxPower      Name
 -------------------------------------------------------------------------------------
 1/1      HWTC1A2B3C4D    45 C    3.28 V    12.50 mA  2.31 dBm    -21.456 dBm  cust_ahmad
 1/2      ZTEGC0A1B2C3    41 C    3.30 V    11.02 mA  2.05 dBm    -29.10 dBm   cust_budi
`

// HSGQGPONScript is a GPON shell with two ranging ONUs.
func HSGQGPONScript() Script {
	s := Script{}
	s.On("show ont-optical all", hsgqOpticalAll)
	s.On("show version", " Software Version: V3.1.0\n Uptime: 1 days 2 hours")
	return s
}

const hsgqONUInfoAll = `
 PON   MAC                 Status   Auth   Cfg    RegTime              Name    Desc
 ------------------------------------------------------------------------------------
 0/1   AA:BB:CC:DD:EE:01   Online   TRUE   TRUE   2024/05/01 10:20:30  budi    lantai2
 0/2   aa:bb:cc:dd:ee:02   Offline  TRUE   FALSE  2024/04/11 08:00:00  sari    -
`

// HSGQEPONScript is an EPON shell with one online and one offline ONU.
func HSGQEPONScript() Script {
	s := Script{}
	s.On("show onu-info all", hsgqONUInfoAll)
	s.On("show version", " Software Version: V1.9.2")
	return s
}

// HSGQGPONOIDs is a stored GPON mapping keyed by serial.
var HSGQGPONOIDs = map[string]string{
	"serial_number":  "1.3.6.1.4.1.50224.3.12.2.1.4",
	"name":           "1.3.6.1.4.1.50224.3.12.2.1.2",
	"status":         "1.3.6.1.4.1.50224.3.12.2.1.5",
	"rx_power":       "1.3.6.1.4.1.50224.3.12.3.1.4",
	"identifier_key": "serial_number",
}

// HSGQGPONSNMPScript answers the HSGQGPONOIDs walks.
func HSGQGPONSNMPScript() Script {
	s := Script{}
	s.Walk(HSGQGPONOIDs["serial_number"], map[string]interface{}{"16777473.1": "HWTC1A2B3C4D", "16777473.2": "ZTEGC0A1B2C3"})
	s.Walk(HSGQGPONOIDs["name"], map[string]interface{}{"16777473.1": "cust_ahmad", "16777473.2": "cust_budi"})
	s.Walk(HSGQGPONOIDs["status"], map[string]interface{}{"16777473.1": "online", "16777473.2": "offline"})
	s.Walk(HSGQGPONOIDs["rx_power"], map[string]interface{}{"16777473.1": "-21.46"})
	s.Gets = systemGroup("HSGQ GPON OLT Software Version V3.1.0")
	return s
}

// HSGQEPONSNMPScript answers the built-in EPON columns.
func HSGQEPONSNMPScript() Script {
	const base = "1.3.6.1.4.1.50224.3.3."
	s := Script{}
	s.Walk(base+"2.1.7", map[string]interface{}{"1": "\xaa\xbb\xcc\xdd\xee\x01", "2": "0xaabbccddee02", "3": "bogus"})
	s.Walk(base+"2.1.2", map[string]interface{}{"1": "budi", "2": "sari", "3": "x"})
	s.Walk(base+"2.1.8", map[string]interface{}{"1": int64(1), "2": int64(2), "3": int64(9)})
	s.Walk(base+"2.1.15", map[string]interface{}{"1": int64(1250), "2": int64(0)})
	s.Walk(base+"3.1.4", map[string]interface{}{"1": int64(231)})
	s.Walk(base+"3.1.5", map[string]interface{}{"1": int64(-2146)})
	s.Gets = systemGroup("HSGQ EPON OLT")
	return s
}

const (
	zteBaseInfo = `
OnuIndex                 Type          Mode        AuthInfo                State
---------------------------------------------------------------------------------
gpon-onu_1/1/1:1         ZTE-F660      sn          SN:ZTEGC0A1B2C3        ready
gpon-onu_1/1/1:2         F609          sn          SN:HWTC1A2B3C4D        ready
`
	zteState = `
OnuIndex   Admin State  OMCC State  O7 State   Phase State
----------------------------------------------------------
1/1/1:1    enable       enable      operation  working
1/1/1:2    enable       disable     unknown    LOS
`
	ztePower = `
Onu                 Rx power
-----------------------------------
gpon-onu_1/1/1:1    -20.123(dbm)
gpon-onu_1/1/1:2    N/A
`
	zteMissingPort = "%Code 32310-GPONSRV : Interface does not exist."
)

// ZTECLIScript is a C320 shell with ONUs on 1/1/1 only; every other port
// is absent.
func ZTECLIScript() Script {
	missing := zteMissingPort
	s := Script{DefaultCLI: &missing}
	s.On("terminal length 0", "")
	s.On("show gpon onu baseinfo gpon-olt_1/1/1", zteBaseInfo)
	s.On("show gpon onu state gpon-olt_1/1/1", zteState)
	s.On("show pon power onu-rx gpon-olt_1/1/1", ztePower)
	s.On("show gpon onu baseinfo gpon-olt_1/1/2", zteMissingPort)
	s.On("show version-running", " Software Version : V2.1.0\n Uptime : 30 days 4 hours")
	return s
}

// ZTESNMPScript answers the built-in C320 columns for gpon-olt_1/1/1
// (ifIndex 268501248).
func ZTESNMPScript() Script {
	const zx = "1.3.6.1.4.1.3902.1012.3."
	s := Script{}
	s.Walk(zx+"28.1.1.1", map[string]interface{}{"268501248.1": "ZTE-F660", "268501248.2": "F609"})
	s.Walk(zx+"28.1.1.2", map[string]interface{}{"268501248.1": "andi", "268501248.2": "budi"})
	s.Walk(zx+"28.1.1.5", map[string]interface{}{"268501248.1": "ZTEG\xc0\xa1\xb2\xc3", "268501248.2": "HWTC\x1a\x2b\x3c\x4d"})
	s.Walk(zx+"28.2.1.4", map[string]interface{}{"268501248.1": int64(4), "268501248.2": int64(2)})
	s.Walk(zx+"50.12.1.1.10", map[string]interface{}{"268501248.1.1": int64(4938), "268501248.2.1": int64(65535)})
	s.Walk(zx+"11.4.1.2", map[string]interface{}{"268501248.1": int64(1532), "268501248.2": int64(0)})
	s.Gets = systemGroup("ZXA10 C320, Software Version V2.1.0")
	return s
}

func systemGroup(descr string) map[string]interface{} {
	return map[string]interface{}{
		"1.3.6.1.2.1.1.1.0": descr,
		"1.3.6.1.2.1.1.3.0": uint64(8640000),
		"1.3.6.1.2.1.1.5.0": "olt-lab",
	}
}

// FixtureFor picks the canned session matching a descriptor, for dry runs
// and gateway tests. Unknown combinations get an empty script.
func FixtureFor(vendor, ponType, transport string) Script {
	snmp := transport == "snmp"
	switch vendor {
	case "hioso":
		if snmp {
			return HiosoSNMPScript()
		}
		return HiosoTelnetScript()
	case "hsgq":
		switch {
		case ponType == "epon" && snmp:
			return HSGQEPONSNMPScript()
		case ponType == "epon":
			return HSGQEPONScript()
		case snmp:
			return HSGQGPONSNMPScript()
		default:
			return HSGQGPONScript()
		}
	case "zte":
		if snmp {
			return ZTESNMPScript()
		}
		return ZTECLIScript()
	}
	return Script{}
}
