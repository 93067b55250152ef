package localstore

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/terraincognita07/syndic/internal/logging"
	"github.com/terraincognita07/syndic/internal/models"
)

type failingSubstrate struct {
	err error
}

func (stub *failingSubstrate) Get(string) (string, bool, error) { return "", false, stub.err }
func (stub *failingSubstrate) Put(string, string) error         { return stub.err }
func (stub *failingSubstrate) Remove(string) error              { return stub.err }
func (stub *failingSubstrate) Keys(string) ([]string, error)    { return nil, stub.err }
func (stub *failingSubstrate) Entries(string) ([]models.StorageEntry, error) {
	return nil, stub.err
}
func (stub *failingSubstrate) RemovePrefix(string) (int64, error) { return 0, stub.err }
func (stub *failingSubstrate) ReplacePrefix(string, map[string]string) error {
	return stub.err
}

func TestAdapterWriteDegradesOnQuotaAndKeepsPriorState(t *testing.T) {
	fixture := newTestStore(t, 64)
	adapter := fixture.store.Adapter()

	saved, err := adapter.Write("building", `{"name":"Atlas"}`)
	if err != nil || !saved {
		t.Fatalf("Write() = %v, %v; want true, nil", saved, err)
	}
	before := rawNamespace(t, fixture.kv)

	saved, err = adapter.Write("building", strings.Repeat("x", 128))
	if err != nil {
		t.Fatalf("Write() over quota must not return an error, got %v", err)
	}
	if saved {
		t.Fatalf("Write() over quota reported saved=true")
	}

	after := rawNamespace(t, fixture.kv)
	if len(after) != len(before) || after[DefaultNamespace+"building"] != before[DefaultNamespace+"building"] {
		t.Fatalf("prior state changed: before=%v after=%v", before, after)
	}
	if len(fixture.warner.warnings) != 1 {
		t.Fatalf("expected one warning, got %d", len(fixture.warner.warnings))
	}
	warning := fixture.warner.warnings[0]
	if warning.Code != WarningQuotaExceeded || warning.Key != "building" {
		t.Fatalf("unexpected warning %+v", warning)
	}
}

func TestAdapterReturnsNonQuotaFailures(t *testing.T) {
	diskErr := errors.New("disk unavailable")
	adapter := NewAdapter(&failingSubstrate{err: diskErr}, "", nil, logging.Discard())

	if _, err := adapter.Write("building", "{}"); !errors.Is(err, diskErr) {
		t.Fatalf("Write() expected wrapped disk error, got %v", err)
	}
	if _, _, err := adapter.Read("building"); !errors.Is(err, diskErr) {
		t.Fatalf("Read() expected wrapped disk error, got %v", err)
	}
	if adapter.Prefix() != DefaultNamespace {
		t.Fatalf("expected default namespace, got %q", adapter.Prefix())
	}
}

func TestAdapterReadMissingKey(t *testing.T) {
	fixture := newTestStore(t, 0)

	value, found, err := fixture.store.Adapter().Read("nothing")
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if found || value != "" {
		t.Fatalf("Read() = %q, %v; want empty, false", value, found)
	}
}

func TestAdapterScanKeysStripsNamespace(t *testing.T) {
	fixture := newTestStore(t, 0)
	adapter := fixture.store.Adapter()

	for _, key := range []string{"cotis_2024", "cotis_2025", "asset_pay_2024"} {
		if _, err := adapter.Write(key, "{}"); err != nil {
			t.Fatalf("Write(%s): %v", key, err)
		}
	}
	if err := fixture.kv.Put("other_app_cotis_2024", "{}"); err != nil {
		t.Fatalf("Put foreign key: %v", err)
	}

	keys, err := adapter.ScanKeys("cotis_")
	if err != nil {
		t.Fatalf("ScanKeys() unexpected error: %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "cotis_2024" || keys[1] != "cotis_2025" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestAdapterClearNamespaceLeavesForeignKeys(t *testing.T) {
	fixture := newTestStore(t, 0)
	adapter := fixture.store.Adapter()

	if _, err := adapter.Write("building", "{}"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := adapter.Write("assets", "{}"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := fixture.kv.Put("other_app_key", "1"); err != nil {
		t.Fatalf("Put foreign key: %v", err)
	}

	removed, err := adapter.ClearNamespace()
	if err != nil {
		t.Fatalf("ClearNamespace() unexpected error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed keys, got %d", removed)
	}
	if _, found, _ := fixture.kv.Get("other_app_key"); !found {
		t.Fatalf("foreign key was removed")
	}

	if err := adapter.DeleteKey("missing"); err != nil {
		t.Fatalf("DeleteKey() on missing key: %v", err)
	}
}
