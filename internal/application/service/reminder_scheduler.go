package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sunpay/installment-service/internal/domain"
	"go.uber.org/zap"
)

const defaultReminderBatchSize = 500

// Reminder stages. Each due date gets at most one reminder per stage.
const (
	reminderStageUpcoming = "upcoming"
	reminderStageDue      = "due"
	reminderStageOverdue  = "overdue"
)

// ReminderScheduler periodically reminds active plans whose due date is
// inside the reminder window, overdue plans included.
type ReminderScheduler struct {
	planRepo      domain.PlanRepository
	reminders     domain.ReminderLog
	notifications *NotificationService
	interval      time.Duration
	windowDays    int
	batchSize     int
	now           Clock
	logger        *zap.Logger
}

func NewReminderScheduler(
	planRepo domain.PlanRepository,
	reminders domain.ReminderLog,
	notifications *NotificationService,
	interval time.Duration,
	windowDays int,
	batchSize int,
	clock Clock,
	logger *zap.Logger,
) *ReminderScheduler {
	if clock == nil {
		clock = time.Now
	}
	if batchSize <= 0 {
		batchSize = defaultReminderBatchSize
	}
	return &ReminderScheduler{
		planRepo:      planRepo,
		reminders:     reminders,
		notifications: notifications,
		interval:      interval,
		windowDays:    windowDays,
		batchSize:     batchSize,
		now:           clock,
		logger:        logger,
	}
}

// Start runs a scan every interval until ctx is cancelled.
func (s *ReminderScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("window_days", s.windowDays),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("reminder scan failed", zap.Error(err))
			}
		}
	}
}

// RunOnce pages through active plans due within the window and returns how
// many reminders were sent.
func (s *ReminderScheduler) RunOnce(ctx context.Context) (int, error) {
	today := s.now()
	cutoff := today.Add(time.Duration(s.windowDays) * 24 * time.Hour)

	scanned, sent := 0, 0
	for offset := 0; ; offset += s.batchSize {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		plans, err := s.planRepo.FindByStatusDueBefore(ctx, domain.PlanStatusActive, cutoff, s.batchSize, offset)
		if err != nil {
			return sent, fmt.Errorf("failed to load active plans: %w", err)
		}

		for _, plan := range plans {
			if s.remind(ctx, plan, today) {
				sent++
			}
		}
		scanned += len(plans)

		if len(plans) < s.batchSize {
			break
		}
	}

	s.logger.Info("reminder scan complete",
		zap.Int("scanned", scanned),
		zap.Int("sent", sent),
	)
	return sent, nil
}

func (s *ReminderScheduler) remind(ctx context.Context, plan *domain.Plan, today time.Time) bool {
	report, err := plan.Progress(today)
	if err != nil {
		s.logger.Warn("skipping plan rejected by calculator",
			zap.Error(err),
			zap.String("plan_id", plan.ID),
		)
		return false
	}
	if report.DaysUntilDue == nil || *report.DaysUntilDue > s.windowDays {
		return false
	}

	stage := reminderStage(*report.DaysUntilDue)
	claimed, err := s.reminders.Claim(ctx, plan.ID, plan.DueDate, stage)
	if err != nil {
		s.logger.Error("failed to record reminder",
			zap.Error(err),
			zap.String("plan_id", plan.ID),
		)
		return false
	}
	if !claimed {
		return false
	}

	if err := s.notifications.SendReminder(ctx, plan, report); err != nil {
		s.logger.Error("failed to send reminder",
			zap.Error(err),
			zap.String("plan_id", plan.ID),
		)
		if err := s.reminders.Release(context.WithoutCancel(ctx), plan.ID, plan.DueDate, stage); err != nil {
			s.logger.Error("failed to clear reminder",
				zap.Error(err),
				zap.String("plan_id", plan.ID),
			)
		}
		return false
	}
	return true
}

func reminderStage(daysUntilDue int) string {
	switch {
	case daysUntilDue > 0:
		return reminderStageUpcoming
	case daysUntilDue == 0:
		return reminderStageDue
	default:
		return reminderStageOverdue
	}
}
