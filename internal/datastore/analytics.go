// internal/datastore/analytics.go
package datastore

import (
	"context"
	"time"

	"github.com/dovewatch/dovewatch-go/internal/errors"
)

// GetDailyCounts retrieves event counts grouped by UTC calendar date for the
// half-open interval [rangeStart, rangeEnd). Dates with zero events are
// omitted. Used by the trends endpoint; report-grade aggregation happens in
// the analytics package over GetEventsInRange results.
func (ds *DataStore) GetDailyCounts(ctx context.Context, rangeStart, rangeEnd time.Time) ([]DailyCount, error) {
	if ds.DB == nil {
		return nil, ErrStoreUnavailable
	}

	dateExpr, err := ds.dateExpr()
	if err != nil {
		return nil, err
	}

	var counts []DailyCount
	err = ds.DB.WithContext(ctx).
		Table("events").
		Select(dateExpr+" as date, COUNT(*) as count").
		Where("timestamp >= ? AND timestamp < ?", rangeStart.UTC(), rangeEnd.UTC()).
		Group(dateExpr).
		Order("date").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "get_daily_counts").
			Build()
	}

	return counts, nil
}

// dateExpr returns the SQL expression extracting the UTC calendar date from
// the timestamp column for the active dialect.
func (ds *DataStore) dateExpr() (string, error) {
	switch ds.DB.Dialector.Name() {
	case "sqlite":
		return "strftime('%Y-%m-%d', timestamp)", nil
	case "mysql":
		return "DATE_FORMAT(timestamp, '%Y-%m-%d')", nil
	default:
		return "", errors.Newf("unsupported database dialect: %s", ds.DB.Dialector.Name()).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}
}
