package localstore

import (
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/terraincognita07/syndic/internal/db"
	"github.com/terraincognita07/syndic/internal/logging"
)

type recordingWarner struct {
	warnings []Warning
}

func (warner *recordingWarner) Warn(warning Warning) {
	warner.warnings = append(warner.warnings, warning)
}

type testStore struct {
	store  *Store
	kv     *db.KVStore
	warner *recordingWarner
}

func newTestStore(t *testing.T, capacityBytes int64) testStore {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "localstore-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	kv := db.NewKVStore(database, capacityBytes)
	warner := &recordingWarner{}
	adapter := NewAdapter(kv, DefaultNamespace, warner, logging.Discard())
	store := NewStore(adapter, logging.Discard())
	store.SetClock(func() time.Time {
		return time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)
	})
	return testStore{store: store, kv: kv, warner: warner}
}

// rawNamespace returns every key/value under the default namespace.
func rawNamespace(t *testing.T, kv *db.KVStore) map[string]string {
	t.Helper()

	keys, err := kv.Keys(DefaultNamespace)
	if err != nil {
		t.Fatalf("scan keys: %v", err)
	}
	sort.Strings(keys)
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		value, _, err := kv.Get(key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		values[key] = value
	}
	return values
}
