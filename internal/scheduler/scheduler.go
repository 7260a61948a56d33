// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/storybook-go/internal/model"
)

// RetentionSchedule is the cron schedule of the event log retention job.
const RetentionSchedule = "@daily"

// EventPurger deletes old event log entries. *store.Queries implements it.
type EventPurger interface {
	DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error)
}

// JobInfo describes a registered job.
type JobInfo struct {
	Name     string
	Schedule string
	LastRun  time.Time
	NextRun  time.Time
}

type job struct {
	name     string
	schedule string
	entryID  cron.EntryID
}

// Scheduler handles scheduled maintenance like event log retention.
type Scheduler struct {
	events    EventPurger
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	jobs      []job
	now       func() time.Time
}

// New creates a new scheduler instance. A retention of zero disables the
// purge job.
func New(events EventPurger, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		events:    events,
		retention: retention,
		cron:      cron.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.retention > 0 && s.events != nil {
		id, err := s.cron.AddFunc(RetentionSchedule, func() {
			if _, err := s.PurgeEvents(context.Background()); err != nil {
				s.logger.Error("failed to purge old events", "category", model.EventCategorySystem, "error", err)
			}
		})
		if err != nil {
			return err
		}
		s.jobs = append(s.jobs, job{name: "event-retention", schedule: RetentionSchedule, entryID: id})
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Jobs lists the registered jobs with their timing.
func (s *Scheduler) Jobs() []JobInfo {
	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		entry := s.cron.Entry(j.entryID)
		out = append(out, JobInfo{
			Name:     j.name,
			Schedule: j.schedule,
			LastRun:  entry.Prev,
			NextRun:  entry.Next,
		})
	}
	return out
}

// PurgeEvents deletes events older than the retention period.
func (s *Scheduler) PurgeEvents(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	n, err := s.events.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged old events", "count", n, "before", cutoff.Format(time.RFC3339))
	}
	return n, nil
}
