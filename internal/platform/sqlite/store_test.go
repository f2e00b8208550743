package sqlite_test

import (
	"testing"

	"github.com/noteaapp/notea/internal/platform/sqlite"
	"github.com/noteaapp/notea/internal/store/storetest"
	"github.com/noteaapp/notea/internal/testdb"
)

func TestStores(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) storetest.Stores {
		db := testdb.SQLite(t)
		return storetest.Stores{
			Cards:      sqlite.NewCardStore(db, nil),
			ReviewLogs: sqlite.NewReviewLogStore(db, nil),
		}
	})
}
