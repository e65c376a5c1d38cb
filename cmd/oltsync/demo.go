package main

import (
	"sort"

	"github.com/nanoncore/olt-gateway/drivers/mock"
	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/store/memory"
	"github.com/nanoncore/olt-gateway/types"
)

const demoTenant = 1

// demoFleet is one OLT per supported vendor session. Addresses are from
// TEST-NET-1 and are never dialed: --simulate answers from fixtures.
func demoFleet() []model.OLT {
	return []model.OLT{
		{ID: 1, TenantID: demoTenant, Name: "hioso-epon", Vendor: "Hioso", PONType: "epon", Model: "epon",
			Address: "192.0.2.11", Username: "admin", Password: "admin", SNMPEnabled: true, Status: model.OLTStateOnline},
		{ID: 2, TenantID: demoTenant, Name: "hsgq-gpon", Vendor: "HSGQ", PONType: "gpon", Model: "gpon",
			Address: "192.0.2.12", Username: "root", Password: "admin", SNMPEnabled: true, Status: model.OLTStateOnline},
		{ID: 3, TenantID: demoTenant, Name: "hsgq-epon", Vendor: "HSGQ", PONType: "epon", Model: "epon",
			Address: "192.0.2.13", Username: "root", Password: "admin", Status: model.OLTStateOnline},
		{ID: 4, TenantID: demoTenant, Name: "zte-c320", Vendor: "ZTE", PONType: "gpon", Model: "gpon",
			Address: "192.0.2.14", Username: "zte", Password: "zte", SNMPEnabled: true, Status: model.OLTStateOnline},
	}
}

func seedDemo(s *memory.Store) {
	for _, olt := range demoFleet() {
		s.AddOLT(olt)
	}
	s.AddOIDs(oidRows(types.VendorHioso, "epon", mock.HiosoOIDs)...)
	s.AddOIDs(oidRows(types.VendorHSGQ, "gpon", mock.HSGQGPONOIDs)...)
}

// oidRows turns a function -> OID map into stored mapping rows.
func oidRows(vendor types.Vendor, hwModel string, m map[string]string) []model.OID {
	functions := make([]string, 0, len(m))
	for fn := range m {
		functions = append(functions, fn)
	}
	sort.Strings(functions)

	rows := make([]model.OID, 0, len(m))
	for _, fn := range functions {
		rows = append(rows, model.OID{Function: fn, Type: "string", Model: hwModel, Vendor: vendor, OID: m[fn]})
	}
	return rows
}
