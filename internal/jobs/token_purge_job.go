package jobs

import (
	"context"
	"time"

	"github.com/maniadelimpeza/crm-api/internal/repository"
	"go.uber.org/zap"
)

// TokenPurgeJob removes expired password reset tokens
type TokenPurgeJob struct {
	tokenRepo *repository.PasswordResetTokenRepository
	logger    *zap.Logger
}

func NewTokenPurgeJob(tokenRepo *repository.PasswordResetTokenRepository, logger *zap.Logger) *TokenPurgeJob {
	return &TokenPurgeJob{
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

// Name returns the job name used for scheduler registration
func (j *TokenPurgeJob) Name() string {
	return "password_reset_token_purge"
}

// CronExpr runs the purge at minute 10 of every hour
func (j *TokenPurgeJob) CronExpr() string {
	return "0 10 * * * *"
}

// Run deletes expired tokens
func (j *TokenPurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := j.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("failed to purge expired reset tokens", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("purged expired reset tokens", zap.Int64("count", removed))
	}
}
