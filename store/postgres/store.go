// Package postgres reads the OLT inventory and persists ONU state with pgx.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/rs/zerolog"
)

// db is the subset of *pgxpool.Pool used by the store.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store implements the syncer Source and Store on the management database.
type Store struct {
	db     db
	logger zerolog.Logger
	now    func() time.Time
}

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, url string, maxConns int32, logger zerolog.Logger) (*Store, *pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to reach database: %w", err)
	}

	logger.Info().
		Str("host", poolConfig.ConnConfig.Host).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("Connected to database")
	return New(pool, logger), pool, nil
}

// New wraps an existing pool.
func New(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{db: pool, logger: logger, now: time.Now}
}

// colonMAC renders a 12-digit hex identifier column as aa:bb:cc:dd:ee:ff.
const colonMAC = `lower(substr(%[1]s, 1, 2) || ':' || substr(%[1]s, 3, 2) || ':' || substr(%[1]s, 5, 2) || ':' ||
       substr(%[1]s, 7, 2) || ':' || substr(%[1]s, 9, 2) || ':' || substr(%[1]s, 11, 2))`

// EPON ONUs used to be keyed by bare hex MACs. Rows already stored under
// the colon form are newer and win over their bare-hex twins.
var (
	dropLegacyEPONKeysSQL = fmt.Sprintf(`
DELETE FROM onus o
USING onus c, olts t
WHERE t.id = o.olt_id AND lower(t.olt_type) = 'epon'
  AND o.identifier ~* '^[0-9a-f]{12}$'
  AND c.olt_id = o.olt_id AND c.identifier = %s`, fmt.Sprintf(colonMAC, "o.identifier"))

	migrateLegacyEPONKeysSQL = fmt.Sprintf(`
UPDATE onus o SET identifier = %s
FROM olts t
WHERE t.id = o.olt_id AND lower(t.olt_type) = 'epon'
  AND o.identifier ~* '^[0-9a-f]{12}$'`, fmt.Sprintf(colonMAC, "o.identifier"))
)

var ensureSchemaSQL = []string{
	`ALTER TABLE olts ADD COLUMN IF NOT EXISTS transport TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE olts ADD COLUMN IF NOT EXISTS snmp_enabled BOOLEAN NOT NULL DEFAULT false`,
	dropLegacyEPONKeysSQL,
	migrateLegacyEPONKeysSQL,
	`CREATE UNIQUE INDEX IF NOT EXISTS onus_olt_identifier_key ON onus (olt_id, identifier)`,
}

// EnsureSchema adds the columns and the unique index the sync relies on and
// rewrites bare-hex EPON identifiers into the colon MAC form. The tables
// themselves belong to the management backend.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range ensureSchemaSQL {
		tag, err := s.db.Exec(ctx, stmt)
		if err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
		if tag.Update() && tag.RowsAffected() > 0 {
			s.logger.Info().Int64("rows", tag.RowsAffected()).Msg("Migrated legacy EPON identifiers")
		}
	}
	return nil
}

const listOLTsSQL = `
SELECT o.id, o.tenant_id, o.name, COALESCE(v.name, ''), COALESCE(o.olt_type, ''), o.ip,
       o.username, o.password, COALESCE(o.ssh_port, 0), COALESCE(o.telnet_port, 0),
       COALESCE(o.snmp_port, 0), COALESCE(o.community, ''), o.transport, o.snmp_enabled,
       COALESCE(o.status, 'unknown'), o.last_checked, COALESCE(o.ssh_timeout, 0)
FROM olts o
LEFT JOIN vendors v ON v.id = o.vendor_id
WHERE ($1::bigint = 0 OR o.tenant_id = $1)
ORDER BY o.id`

// ListOLTs returns the OLTs of a tenant, or all of them when tenantID is 0.
func (s *Store) ListOLTs(ctx context.Context, tenantID int64) ([]model.OLT, error) {
	rows, err := s.db.Query(ctx, listOLTsSQL, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query OLTs: %w", err)
	}
	defer rows.Close()

	var olts []model.OLT
	for rows.Next() {
		var (
			o          model.OLT
			status     string
			timeoutSec int32
		)
		if err := rows.Scan(&o.ID, &o.TenantID, &o.Name, &o.Vendor, &o.PONType, &o.Address,
			&o.Username, &o.Password, &o.SSHPort, &o.TelnetPort,
			&o.SNMPPort, &o.Community, &o.Transport, &o.SNMPEnabled,
			&status, &o.LastChecked, &timeoutSec); err != nil {
			return nil, fmt.Errorf("failed to scan OLT: %w", err)
		}
		o.Status = model.OLTState(status)
		// OID mappings are keyed by the PON type column.
		o.Model = o.PONType
		o.Timeout = time.Duration(timeoutSec) * time.Second
		olts = append(olts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate OLTs: %w", err)
	}
	return olts, nil
}

const listOIDsSQL = `
SELECT d.id, d.oid, d.fungsi, d.type, COALESCE(d.model, ''), v.name
FROM oids d
JOIN vendors v ON v.id = d.vendor_id
WHERE lower(v.name) = lower($1)`

// ListOIDs returns every mapping of a vendor.
func (s *Store) ListOIDs(ctx context.Context, vendor types.Vendor) ([]model.OID, error) {
	rows, err := s.db.Query(ctx, listOIDsSQL, string(vendor))
	if err != nil {
		return nil, fmt.Errorf("failed to query OIDs: %w", err)
	}
	defer rows.Close()

	var oids []model.OID
	for rows.Next() {
		var o model.OID
		var vendorName string
		if err := rows.Scan(&o.ID, &o.OID, &o.Function, &o.Type, &o.Model, &vendorName); err != nil {
			return nil, fmt.Errorf("failed to scan OID: %w", err)
		}
		o.Vendor = types.Vendor(vendorName)
		oids = append(oids, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate OIDs: %w", err)
	}
	return oids, nil
}

const (
	upsertCLISQL = `
INSERT INTO onus (olt_id, identifier, pon_interface, vendor_name, details, last_seen)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (olt_id, identifier) DO UPDATE
SET pon_interface = EXCLUDED.pon_interface,
    vendor_name = EXCLUDED.vendor_name,
    details = EXCLUDED.details,
    last_seen = EXCLUDED.last_seen`

	upsertSNMPSQL = `
INSERT INTO onus (olt_id, identifier, pon_interface, vendor_name, details_snmp, last_seen)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (olt_id, identifier) DO UPDATE
SET pon_interface = EXCLUDED.pon_interface,
    vendor_name = EXCLUDED.vendor_name,
    details_snmp = EXCLUDED.details_snmp,
    last_seen = EXCLUDED.last_seen`

	updateSNMPSQL = `
UPDATE onus SET details_snmp = $3, last_seen = $4
WHERE olt_id = $1 AND identifier = $2`
)

// UpsertONUs creates or updates ONUs in one batch.
func (s *Store) UpsertONUs(ctx context.Context, oltID int64, onus []types.ONUInfo) (int, error) {
	batch := &pgx.Batch{}
	now := s.now().UTC()
	for i := range onus {
		details, err := json.Marshal(onus[i])
		if err != nil {
			return 0, fmt.Errorf("failed to encode ONU %s: %w", onus[i].Identifier, err)
		}
		query := upsertCLISQL
		if onus[i].Source == types.TransportSNMP {
			query = upsertSNMPSQL
		}
		batch.Queue(query, oltID, onus[i].Identifier, onus[i].PONPort, string(onus[i].Vendor), details, now)
	}

	if err := sendBatchExecAll(ctx, batch, s.db.SendBatch, "upsert onus"); err != nil {
		return 0, err
	}
	return len(onus), nil
}

// UpdateONUsSNMP updates the SNMP details of known ONUs in one batch.
func (s *Store) UpdateONUsSNMP(ctx context.Context, oltID int64, onus []types.ONUInfo) (int, int, error) {
	batch := &pgx.Batch{}
	now := s.now().UTC()
	for i := range onus {
		details, err := json.Marshal(onus[i])
		if err != nil {
			return 0, 0, fmt.Errorf("failed to encode ONU %s: %w", onus[i].Identifier, err)
		}
		batch.Queue(updateSNMPSQL, oltID, onus[i].Identifier, details, now)
	}

	affected, err := sendBatchRowsAffected(ctx, batch, s.db.SendBatch, "update snmp details")
	if err != nil {
		return 0, 0, err
	}
	updated := 0
	for _, n := range affected {
		if n > 0 {
			updated++
		}
	}
	if skipped := len(onus) - updated; skipped > 0 {
		s.logger.Debug().Int64("olt_id", oltID).Int("skipped", skipped).Msg("SNMP rows without a known ONU")
	}
	return updated, len(onus) - updated, nil
}

const updateOLTStatusSQL = `UPDATE olts SET status = $2, last_checked = $3 WHERE id = $1`

// UpdateOLTStatus records a reachability check.
func (s *Store) UpdateOLTStatus(ctx context.Context, oltID int64, status model.OLTState, checkedAt time.Time) error {
	tag, err := s.db.Exec(ctx, updateOLTStatusSQL, oltID, string(status), checkedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to update OLT %d status: %w", oltID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("olt %d not found", oltID)
	}
	return nil
}
