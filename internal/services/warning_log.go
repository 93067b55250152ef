package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/syndic/internal/localstore"
)

const defaultWarningCapacity = 50

type LoggedWarning struct {
	localstore.Warning
	At time.Time `json:"at"`
}

// WarningLog keeps the most recent persistence warnings for display. It is
// the adapter's Warner.
type WarningLog struct {
	mu       sync.Mutex
	entries  []LoggedWarning
	capacity int
	now      func() time.Time
	logger   logrus.FieldLogger
}

func NewWarningLog(capacity int, logger logrus.FieldLogger) *WarningLog {
	if capacity <= 0 {
		capacity = defaultWarningCapacity
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &WarningLog{capacity: capacity, now: time.Now, logger: logger}
}

func (warnings *WarningLog) Warn(warning localstore.Warning) {
	warnings.mu.Lock()
	defer warnings.mu.Unlock()

	warnings.entries = append(warnings.entries, LoggedWarning{Warning: warning, At: warnings.now().UTC()})
	if overflow := len(warnings.entries) - warnings.capacity; overflow > 0 {
		warnings.entries = append([]LoggedWarning{}, warnings.entries[overflow:]...)
	}
	warnings.logger.WithFields(logrus.Fields{"code": warning.Code, "key": warning.Key}).Warn("persistence warning recorded")
}

// Recent returns the retained warnings, newest last.
func (warnings *WarningLog) Recent() []LoggedWarning {
	warnings.mu.Lock()
	defer warnings.mu.Unlock()
	return append([]LoggedWarning{}, warnings.entries...)
}

func (warnings *WarningLog) Clear() {
	warnings.mu.Lock()
	defer warnings.mu.Unlock()
	warnings.entries = nil
}
