package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nanoncore/olt-gateway/model"
	"github.com/nanoncore/olt-gateway/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBatchResults struct {
	tags   []string
	err    error
	execs  int
	closed bool
}

func (f *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	i := f.execs
	f.execs++
	if f.err != nil && i == len(f.tags) {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag(f.tags[i]), nil
}

func (f *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }
func (f *fakeBatchResults) QueryRow() pgx.Row        { return nil }

func (f *fakeBatchResults) Close() error {
	f.closed = true
	return nil
}

type fakeDB struct {
	execs []string
	tags  map[int]string
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag(f.tags[len(f.execs)-1]), nil
}

func (f *fakeDB) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }

func TestEnsureSchemaMigratesBareHexEPONKeys(t *testing.T) {
	db := &fakeDB{tags: map[int]string{3: "UPDATE 12"}}
	s := &Store{db: db, logger: zerolog.Nop(), now: time.Now}

	require.NoError(t, s.EnsureSchema(context.Background()))
	require.Len(t, db.execs, 5)

	// Twins are dropped before the rewrite, and both run before the
	// unique index exists.
	assert.Contains(t, db.execs[2], "DELETE FROM onus")
	assert.Contains(t, db.execs[3], "UPDATE onus o SET identifier")
	assert.Contains(t, db.execs[4], "CREATE UNIQUE INDEX")
	for _, stmt := range db.execs[2:4] {
		assert.Contains(t, stmt, "lower(t.olt_type) = 'epon'")
		assert.Contains(t, stmt, "'^[0-9a-f]{12}$'")
	}
	assert.Contains(t, db.execs[3],
		"lower(substr(o.identifier, 1, 2) || ':' || substr(o.identifier, 3, 2) || ':' || substr(o.identifier, 5, 2) || ':' ||")
}

func TestSendBatchRowsAffected(t *testing.T) {
	batch := &pgx.Batch{}
	batch.Queue("UPDATE onus SET x = 1")
	batch.Queue("UPDATE onus SET x = 2")
	batch.Queue("UPDATE onus SET x = 3")

	br := &fakeBatchResults{tags: []string{"UPDATE 1", "UPDATE 0", "UPDATE 1"}}
	send := func(context.Context, *pgx.Batch) pgx.BatchResults { return br }

	affected, err := sendBatchRowsAffected(context.Background(), batch, send, "test")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 1}, affected)
	assert.True(t, br.closed)
}

func TestSendBatchExecError(t *testing.T) {
	batch := &pgx.Batch{}
	batch.Queue("INSERT 1")
	batch.Queue("INSERT 2")

	br := &fakeBatchResults{tags: []string{"INSERT 0 1"}, err: errors.New("unique violation")}
	send := func(context.Context, *pgx.Batch) pgx.BatchResults { return br }

	err := sendBatchExecAll(context.Background(), batch, send, "upsert onus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert onus batch exec (command 1)")
	assert.True(t, br.closed)
}

func TestSendBatchEmpty(t *testing.T) {
	called := false
	send := func(context.Context, *pgx.Batch) pgx.BatchResults {
		called = true
		return nil
	}
	require.NoError(t, sendBatchExecAll(context.Background(), &pgx.Batch{}, send, "noop"))
	assert.False(t, called)
}

// TestStoreIntegration runs against a database holding the management
// schema. Set OLTSYNC_TEST_DATABASE_URL to enable it.
func TestStoreIntegration(t *testing.T) {
	url := os.Getenv("OLTSYNC_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("OLTSYNC_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, pool, err := Connect(ctx, url, 2, zerolog.Nop())
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, store.EnsureSchema(ctx))

	olts, err := store.ListOLTs(ctx, 0)
	require.NoError(t, err)
	if len(olts) == 0 {
		t.Skip("no OLTs in test database")
	}
	olt := olts[0]

	onus := []types.ONUInfo{{
		Identifier: "aa:bb:cc:dd:ee:ff",
		PONPort:    "0/1",
		ONUID:      1,
		Vendor:     types.VendorHioso,
		Source:     types.TransportTelnet,
		Status:     types.ONUStatusOnline,
	}}
	n, err := store.UpsertONUs(ctx, olt.ID, onus)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Second upsert of the same identifier updates in place.
	n, err = store.UpsertONUs(ctx, olt.ID, onus)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	snmp := append(onus, types.ONUInfo{Identifier: "unknown-onu", Source: types.TransportSNMP})
	snmp[0].Source = types.TransportSNMP
	updated, skipped, err := store.UpdateONUsSNMP(ctx, olt.ID, snmp)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, skipped)

	if olt.PONType == "epon" {
		_, err = pool.Exec(ctx, `INSERT INTO onus (olt_id, identifier) VALUES ($1, '98c7a45e30b8')
			ON CONFLICT DO NOTHING`, olt.ID)
		require.NoError(t, err)
		require.NoError(t, store.EnsureSchema(ctx))
		var n int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT count(*) FROM onus WHERE olt_id = $1 AND identifier = '98:c7:a4:5e:30:b8'`, olt.ID).Scan(&n))
		assert.Equal(t, 1, n)
	}

	require.NoError(t, store.UpdateOLTStatus(ctx, olt.ID, model.OLTStateOnline, time.Now()))
	assert.Error(t, store.UpdateOLTStatus(ctx, -1, model.OLTStateOnline, time.Now()))
}
