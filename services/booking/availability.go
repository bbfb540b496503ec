package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"mindhaven/models"
	"mindhaven/services/upstream"
)

const templateCacheKey = "availability:template"

// AvailabilityResolver decides which calendar dates are clickable at all
// (coarse weekly-template filter) and which discrete time slots are
// selectable for a given date and viewer timezone (authoritative per-date
// resolution).
type AvailabilityResolver struct {
	Upstream    upstream.Client
	Cache       *redis.Client
	Logger      *zap.Logger
	TemplateTTL time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (r *AvailabilityResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Template returns the weekly availability template, serving from the Redis
// cache when fresh. A cache failure falls through to the backend.
func (r *AvailabilityResolver) Template(ctx context.Context) (*models.AvailabilityTemplate, error) {
	if r.Cache != nil {
		if data, err := r.Cache.Get(ctx, templateCacheKey).Result(); err == nil {
			var tpl models.AvailabilityTemplate
			if err := json.Unmarshal([]byte(data), &tpl); err == nil {
				return &tpl, nil
			}
			r.Logger.Warn("discarding undecodable cached template")
		} else if err != redis.Nil {
			r.Logger.Warn("template cache read failed", zap.Error(err))
		}
	}

	tpl, err := r.Upstream.FetchAvailabilityTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityUnavailable, err)
	}

	if r.Cache != nil {
		if data, err := json.Marshal(tpl); err == nil {
			if err := r.Cache.Set(ctx, templateCacheKey, data, r.TemplateTTL).Err(); err != nil {
				r.Logger.Warn("template cache write failed", zap.Error(err))
			}
		}
	}
	return tpl, nil
}

// DateEnabled is the optimistic pre-filter applied before any per-slot fetch:
// a date is clickable only if it is not before today in the viewer timezone
// and its weekday appears in the weekly template. The authoritative check is
// Resolve, once slots are actually fetched.
func (r *AvailabilityResolver) DateEnabled(tpl *models.AvailabilityTemplate, date, viewerTz string) (bool, error) {
	viewerLoc, err := time.LoadLocation(viewerTz)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidTimezone, viewerTz)
	}
	day, err := time.ParseInLocation(DateLayout, date, viewerLoc)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrInvalidDateTime, date)
	}

	nowLocal := r.now().In(viewerLoc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, viewerLoc)
	if day.Before(today) {
		return false, nil
	}
	return tpl.HasDay(day.Weekday().String()), nil
}

// EnabledDays lists the clickable dates of one month, per DateEnabled.
func (r *AvailabilityResolver) EnabledDays(tpl *models.AvailabilityTemplate, year int, month time.Month, viewerTz string) ([]string, error) {
	viewerLoc, err := time.LoadLocation(viewerTz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, viewerTz)
	}

	var days []string
	for d := time.Date(year, month, 1, 0, 0, 0, 0, viewerLoc); d.Month() == month; d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(DateLayout)
		ok, err := r.DateEnabled(tpl, dateStr, viewerTz)
		if err != nil {
			return nil, err
		}
		if ok {
			days = append(days, dateStr)
		}
	}
	return days, nil
}

// Resolve returns the ordered bookable display instants for one date.
//
// The backend's per-date answer is authoritative for which slots exist and
// which are consumed; on top of that, entries marked unavailable are dropped,
// each survivor is converted into the viewer timezone, and anything already
// in the past in the viewer's clock is excluded as a clock-skew safety net.
func (r *AvailabilityResolver) Resolve(ctx context.Context, date, viewerTz string) ([]models.DisplayInstant, error) {
	tpl, err := r.Template(ctx)
	if err != nil {
		return nil, err
	}

	da, err := r.Upstream.FetchDateAvailability(ctx, date, tpl.ServerTimezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityUnavailable, err)
	}

	now := r.now()
	slots := make([]models.DisplayInstant, 0, len(da.Availabilities))
	for _, entry := range da.Availabilities {
		if !entry.Available {
			continue
		}
		inst, err := ToDisplay(da.Date, entry.Time, tpl.ServerTimezone, viewerTz)
		if err != nil {
			// A malformed backend entry is a data bug, never silently swallowed.
			if errors.Is(err, ErrInvalidDateTime) {
				r.Logger.Error("backend returned malformed slot",
					zap.String("date", da.Date), zap.String("time", entry.Time))
				continue
			}
			return nil, err
		}
		if inst.At.Before(now) {
			continue
		}
		slots = append(slots, inst)
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].At.Before(slots[j].At) })
	return slots, nil
}
