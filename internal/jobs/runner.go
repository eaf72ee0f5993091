// Package jobs orchestrates the engine's derived-data builds across
// households: snapshots, rollups, milestone evaluation, and schedule
// processing, invoked by an external scheduler or a manual retry.
package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "hearthbook/internal/errors"
	"hearthbook/internal/logger"
	"hearthbook/internal/services"
)

// JobType identifies one build the runner can perform.
type JobType string

const (
	JobSnapshot   JobType = "snapshot"
	JobRollup     JobType = "rollup"
	JobMilestones JobType = "milestones"
	JobSchedules  JobType = "schedules"
	JobAll        JobType = "all"
)

// Params are the logical job parameters. An empty HouseholdID targets all
// active households. Zero Year/Month default to the previous calendar month
// relative to Now. Zero Now defaults to the wall clock; tests always inject
// it.
type Params struct {
	Types       []JobType
	HouseholdID string
	Year        int
	Month       time.Month
	Now         time.Time
}

// HouseholdResult reports what one household's run produced.
type HouseholdResult struct {
	HouseholdID        string `json:"household_id"`
	SchedulesAdvanced  int    `json:"schedules_advanced,omitempty"`
	SnapshotNetWorth   *int64 `json:"snapshot_net_worth,omitempty"`
	RollupRows         int    `json:"rollup_rows,omitempty"`
	NotificationsFired int    `json:"notifications_fired,omitempty"`
}

// RunError records one failed (household, job) unit.
type RunError struct {
	HouseholdID string `json:"household_id"`
	Job         string `json:"job"`
	Message     string `json:"message"`
}

// Report is the sole user-visible surface of a run. Processed and Failed
// let operators tell "bad parameters, nothing attempted" apart from
// "N processed, M failed".
type Report struct {
	StartedAt  time.Time         `json:"started_at"`
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Processed  int               `json:"processed"`
	Failed     int               `json:"failed"`
	Households []HouseholdResult `json:"households"`
	Errors     []RunError        `json:"errors,omitempty"`
}

// Runner iterates target households and invokes the builders, isolating
// failures per household.
type Runner struct {
	db         *gorm.DB
	snapshots  services.SnapshotServicer
	rollups    services.RollupServicer
	milestones services.MilestoneServicer
	schedules  services.ScheduleServicer
}

// NewRunner creates a job runner over the given services.
func NewRunner(
	db *gorm.DB,
	snapshots services.SnapshotServicer,
	rollups services.RollupServicer,
	milestones services.MilestoneServicer,
	schedules services.ScheduleServicer,
) *Runner {
	return &Runner{
		db:         db,
		snapshots:  snapshots,
		rollups:    rollups,
		milestones: milestones,
		schedules:  schedules,
	}
}

// Run validates parameters, resolves target households, and executes the
// requested jobs per household. Input errors reject the whole run with zero
// work done; per-household failures are recorded in the report and the
// remaining households continue. Completed households are authoritative —
// nothing is rolled back because a later household failed.
func (r *Runner) Run(p Params) (*Report, error) {
	now := p.Now
	if now.IsZero() {
		now = time.Now()
	}

	types, err := expandTypes(p.Types)
	if err != nil {
		return nil, err
	}

	year, month := p.Year, p.Month
	if year == 0 && month == 0 {
		// Step back from the first of the current month, not from now:
		// AddDate(0, -1, 0) on month-end days normalizes (Mar 31 -> Feb 31
		// -> Mar 3) and would target the in-progress month.
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		prev := first.AddDate(0, 0, -1)
		year, month = prev.Year(), prev.Month()
	}
	if month < time.January || month > time.December || year < 1970 {
		return nil, apperrors.ErrInvalidPeriod
	}

	householdIDs, err := r.targetHouseholds(p.HouseholdID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		StartedAt: now,
		Year:      year,
		Month:     int(month),
	}

	for _, householdID := range householdIDs {
		result, errs := r.runHousehold(householdID, types, year, month, now)
		report.Households = append(report.Households, result)
		if len(errs) > 0 {
			report.Failed++
			report.Errors = append(report.Errors, errs...)
		} else {
			report.Processed++
		}
	}

	logger.Get().Infow("job run complete",
		"processed", report.Processed,
		"failed", report.Failed,
		"jobs", types,
	)
	return report, nil
}

// runHousehold executes the requested jobs for one household, sequentially,
// converting panics into recorded errors so a corrupt household can never
// take down the batch.
func (r *Runner) runHousehold(householdID string, types []JobType, year int, month time.Month, now time.Time) (HouseholdResult, []RunError) {
	result := HouseholdResult{HouseholdID: householdID}
	var errs []RunError

	record := func(job JobType, err error) {
		logger.Get().Errorw("household job failed",
			"household_id", householdID,
			"job", string(job),
			"error", err.Error(),
		)
		errs = append(errs, RunError{
			HouseholdID: householdID,
			Job:         string(job),
			Message:     err.Error(),
		})
	}

	for _, job := range types {
		err := r.runJob(&result, job, householdID, year, month, now)
		if err != nil {
			record(job, err)
		}
	}
	return result, errs
}

// runJob dispatches a single (household, job) unit behind a panic guard.
func (r *Runner) runJob(result *HouseholdResult, job JobType, householdID string, year int, month time.Month, now time.Time) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	switch job {
	case JobSchedules:
		advanced, jobErr := r.schedules.AdvanceDueSchedules(householdID, now)
		result.SchedulesAdvanced = advanced
		return jobErr

	case JobSnapshot:
		snapshot, jobErr := r.snapshots.BuildSnapshot(householdID, now)
		if jobErr != nil {
			return jobErr
		}
		result.SnapshotNetWorth = &snapshot.NetWorth
		return nil

	case JobRollup:
		rows, jobErr := r.rollups.BuildRollup(householdID, year, month)
		if jobErr != nil {
			return jobErr
		}
		result.RollupRows = len(rows)
		return nil

	case JobMilestones:
		fired, jobErr := r.milestones.EvaluateHousehold(householdID, now)
		result.NotificationsFired = fired
		return jobErr
	}
	return apperrors.ErrInvalidJobType
}

// expandTypes normalizes the requested job list: "all" expands to every job
// in its fixed execution order (schedules first so bill reminders and
// snapshots see fresh state), and unknown types reject the run.
func expandTypes(types []JobType) ([]JobType, error) {
	if len(types) == 0 {
		return nil, apperrors.ErrInvalidJobType
	}

	ordered := []JobType{JobSchedules, JobSnapshot, JobRollup, JobMilestones}

	requested := make(map[JobType]bool, len(types))
	for _, t := range types {
		switch t {
		case JobAll:
			for _, o := range ordered {
				requested[o] = true
			}
		case JobSnapshot, JobRollup, JobMilestones, JobSchedules:
			requested[t] = true
		default:
			return nil, apperrors.WithMessage(apperrors.ErrInvalidJobType, "Unknown job type: "+string(t))
		}
	}

	out := make([]JobType, 0, len(requested))
	for _, o := range ordered {
		if requested[o] {
			out = append(out, o)
		}
	}
	return out, nil
}

// targetHouseholds resolves the household id list: a specific id (validated
// to exist) or all active households.
func (r *Runner) targetHouseholds(householdID string) ([]string, error) {
	if householdID != "" {
		var count int64
		if err := r.db.Table("households").
			Where("id = ? AND deleted_at IS NULL", householdID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrHouseholdNotFound
		}
		return []string{householdID}, nil
	}

	var ids []string
	if err := r.db.Table("households").
		Where("is_active = ? AND deleted_at IS NULL", true).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ids, nil
}
