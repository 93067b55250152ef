package services

import (
	"fmt"

	"github.com/terraincognita07/syndic/internal/localstore"
)

func (reconciler *Reconciler) ExportAll() (localstore.ExportDocument, error) {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	return reconciler.store.ExportAll()
}

// ImportAll replaces the store with the document and reloads the state from
// it. A rejected import leaves both the store and the state unchanged.
func (reconciler *Reconciler) ImportAll(document localstore.ExportDocument) error {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()

	if err := reconciler.store.ImportAll(document); err != nil {
		return err
	}
	if err := reconciler.loadLocked(); err != nil {
		return fmt.Errorf("reload after import: %w", err)
	}
	return nil
}

// Wipe clears the namespace and resets the state, which sends the next
// visitor back to setup.
func (reconciler *Reconciler) Wipe() (int64, error) {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()

	removed, err := reconciler.store.Wipe()
	if err != nil {
		return 0, err
	}
	reconciler.state = emptyAppState()
	reconciler.loaded = true
	return removed, nil
}

func (reconciler *Reconciler) ListEntries() ([]localstore.EntryInfo, error) {
	reconciler.mu.Lock()
	defer reconciler.mu.Unlock()
	return reconciler.store.ListEntries()
}
