// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dovewatch/dovewatch-go/internal/errors"
)

// ErrStoreUnavailable is returned when the underlying database connection has
// not been opened or has been closed.
var ErrStoreUnavailable = errors.NewStd("datastore: store unavailable")

// Interface abstracts the underlying database implementation and defines the
// operations the rest of the application may perform on the event store.
type Interface interface {
	Open() error
	Save(ctx context.Context, event *Event) error
	Get(ctx context.Context, id uint) (Event, error)
	// GetEventsInRange returns all events with rangeStart <= timestamp < rangeEnd.
	// No ordering is guaranteed; callers aggregate over the materialized slice.
	GetEventsInRange(ctx context.Context, rangeStart, rangeEnd time.Time) ([]Event, error)
	// GetDailyCounts returns per-UTC-date event counts for the trends endpoint.
	GetDailyCounts(ctx context.Context, rangeStart, rangeEnd time.Time) ([]DailyCount, error)
	CountEvents(ctx context.Context) (int64, error)
	Close() error
}

// DataStore implements the event store operations shared by all supported
// database dialects.
type DataStore struct {
	DB *gorm.DB
}

// Save inserts a new event record. The timestamp is normalized to UTC so the
// store holds a single canonical representation regardless of the source.
func (ds *DataStore) Save(ctx context.Context, event *Event) error {
	if ds.DB == nil {
		return ErrStoreUnavailable
	}

	event.Timestamp = event.Timestamp.UTC()

	if err := ds.DB.WithContext(ctx).Create(event).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "save_event").
			Build()
	}

	return nil
}

// Get retrieves a single event by id.
func (ds *DataStore) Get(ctx context.Context, id uint) (Event, error) {
	if ds.DB == nil {
		return Event{}, ErrStoreUnavailable
	}

	var event Event
	if err := ds.DB.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Event{}, errors.Newf("event %d not found", id).
				Component("datastore").
				Category(errors.CategoryNotFound).
				Build()
		}
		return Event{}, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_event").
			Build()
	}

	return event, nil
}

// GetEventsInRange returns all events in the half-open interval
// [rangeStart, rangeEnd). Results carry no ordering guarantee.
func (ds *DataStore) GetEventsInRange(ctx context.Context, rangeStart, rangeEnd time.Time) ([]Event, error) {
	if ds.DB == nil {
		return nil, ErrStoreUnavailable
	}

	var events []Event
	err := ds.DB.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", rangeStart.UTC(), rangeEnd.UTC()).
		Find(&events).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_events_in_range").
			Build()
	}

	return events, nil
}

// CountEvents returns the total number of stored events.
func (ds *DataStore) CountEvents(ctx context.Context) (int64, error) {
	if ds.DB == nil {
		return 0, ErrStoreUnavailable
	}

	var count int64
	if err := ds.DB.WithContext(ctx).Model(&Event{}).Count(&count).Error; err != nil {
		return 0, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "count_events").
			Build()
	}
	return count, nil
}

// performAutoMigration runs gorm AutoMigrate for the event schema.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(&Event{}); err != nil {
		return errors.Newf("failed to auto-migrate %s database: %v", dbType, err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("db_type", dbType).
			Build()
	}

	if debug {
		logger().Debug("database connection initialized", "db_type", dbType, "connection", connectionInfo)
	}

	return nil
}
