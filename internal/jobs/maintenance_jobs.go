package jobs

import (
	"context"
	"fmt"
	"time"

	"docs-approval-backend/internal/domain"
	"docs-approval-backend/internal/logger"
)

// PurgeTransientFiles removes decrypted copies left behind by a crashed
// translation submission.
func (jr *JobRunner) PurgeTransientFiles() error {
	return jr.runWithRecovery(JobPurgeTransientFiles, func() error {
		ttl := time.Duration(jr.config.Storage.TransientTTLMinutes) * time.Minute
		removed, err := jr.files.PurgeTransient(ttl)
		if err != nil {
			return fmt.Errorf("purge transient files: %w", err)
		}
		logger.Info("Transient files purged", "removed", removed, "ttl", ttl.String())
		return nil
	})
}

// SendPendingRegistrationDigest tells every admin how many registrations await a decision.
func (jr *JobRunner) SendPendingRegistrationDigest() error {
	return jr.runWithRecovery(JobPendingRegistrationDigest, func() error {
		ctx := context.Background()

		status := domain.RegistrationStatusPending
		pending, err := jr.store.Registrations().CountByCriteria(ctx, domain.RegistrationCriteria{Status: &status})
		if err != nil {
			return fmt.Errorf("count pending registrations: %w", err)
		}
		if pending == 0 {
			logger.Info("No pending registrations, digest skipped")
			return nil
		}

		admins, err := jr.store.Users().ListAdmins(ctx)
		if err != nil {
			return fmt.Errorf("list admins: %w", err)
		}

		sent := 0
		for _, admin := range admins {
			if err := jr.email.SendPendingRegistrationDigest(ctx, admin, pending); err != nil {
				logger.Error("Failed to send pending registration digest", "admin", admin.Username, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Pending registration digest sent", "pending", pending, "admins", len(admins), "sent", sent)
		return nil
	})
}
