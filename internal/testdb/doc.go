// Package testdb opens databases for store tests.
//
// SQLite tests get a fresh, migrated in-memory database per call. PostgreSQL
// tests run against the server named by DATABASE_URL (or NOTEA_TEST_DB_URL)
// and are skipped when neither is set. Each PostgreSQL test should run inside
// WithTx so that its writes are rolled back and tests stay independent:
//
//	func TestCardStore_Save(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.Postgres(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        cards := postgres.NewPostgresCardStore(tx, nil)
//	        ...
//	    })
//	}
package testdb
