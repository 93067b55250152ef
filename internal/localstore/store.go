package localstore

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/db"
	"github.com/terraincognita07/syndic/internal/models"
)

// ErrQuotaExceeded is surfaced only by whole-namespace operations such as
// import; single writes degrade to a warning instead.
var ErrQuotaExceeded = db.ErrQuotaExceeded

const (
	DefaultAppName = "Syndic Pro"
	DefaultVersion = "2.0"
)

// Data is everything the store holds, decoded.
type Data struct {
	Building        BuildingDocument
	Assets          []models.BuildingAsset
	Operations      Operations
	ReminderLogs    []models.ReminderLog
	ProfileRequests []models.ProfileRequest
	Finance         Finance
}

type Store struct {
	adapter *Adapter
	logger  logrus.FieldLogger
	appName string
	version string
	now     func() time.Time
}

func NewStore(adapter *Adapter, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Store{
		adapter: adapter,
		logger:  logger,
		appName: DefaultAppName,
		version: DefaultVersion,
		now:     time.Now,
	}
}

func (store *Store) SetClock(now func() time.Time) {
	if now != nil {
		store.now = now
	}
}

func (store *Store) Adapter() *Adapter {
	return store.adapter
}

// LoadAll reads every partition and singleton. Undecodable values are
// logged and replaced with empty ones; only substrate failures are returned.
func (store *Store) LoadAll() (Data, error) {
	finance, err := store.LoadAllPartitions()
	if err != nil {
		return Data{}, err
	}
	data := Data{Finance: finance}

	raw, err := store.readSingleton(KeyBuilding)
	if err != nil {
		return Data{}, err
	}
	data.Building, err = DecodeBuilding(raw)
	store.logDecodeFailure(KeyBuilding, err)

	if raw, err = store.readSingleton(KeyAssets); err != nil {
		return Data{}, err
	}
	data.Assets, err = DecodeAssets(raw)
	store.logDecodeFailure(KeyAssets, err)

	if raw, err = store.readSingleton(KeyOperations); err != nil {
		return Data{}, err
	}
	data.Operations, err = DecodeOperations(raw)
	store.logDecodeFailure(KeyOperations, err)

	if raw, err = store.readSingleton(KeyReminders); err != nil {
		return Data{}, err
	}
	data.ReminderLogs, err = DecodeReminderLogs(raw)
	store.logDecodeFailure(KeyReminders, err)

	if raw, err = store.readSingleton(KeyProfileRequests); err != nil {
		return Data{}, err
	}
	data.ProfileRequests, err = DecodeProfileRequests(raw)
	store.logDecodeFailure(KeyProfileRequests, err)

	return data, nil
}

func (store *Store) SaveBuilding(document BuildingDocument) (bool, error) {
	return store.saveEncoded(KeyBuilding, func() (string, error) { return EncodeBuilding(document) })
}

func (store *Store) SaveAssets(assets []models.BuildingAsset) (bool, error) {
	return store.saveEncoded(KeyAssets, func() (string, error) { return EncodeAssets(assets) })
}

func (store *Store) SaveOperations(operations Operations) (bool, error) {
	return store.saveEncoded(KeyOperations, func() (string, error) { return EncodeOperations(operations) })
}

func (store *Store) SaveReminderLogs(logs []models.ReminderLog) (bool, error) {
	return store.saveEncoded(KeyReminders, func() (string, error) { return EncodeReminderLogs(logs) })
}

func (store *Store) SaveProfileRequests(requests []models.ProfileRequest) (bool, error) {
	return store.saveEncoded(KeyProfileRequests, func() (string, error) { return EncodeProfileRequests(requests) })
}

func (store *Store) saveEncoded(key string, encode func() (string, error)) (bool, error) {
	value, err := encode()
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", key, err)
	}
	return store.adapter.Write(key, value)
}

func (store *Store) readSingleton(key string) (string, error) {
	raw, _, err := store.adapter.Read(key)
	return raw, err
}

func (store *Store) logDecodeFailure(key string, err error) {
	if err == nil {
		return
	}
	store.logger.WithError(err).WithField("key", key).Warn("stored value ignored")
}
