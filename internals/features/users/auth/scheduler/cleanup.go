package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"bibliothek_backend/internals/configs"
	loanModel "bibliothek_backend/internals/features/loans/model"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
)

type CleanupConfig struct {
	Schedule         string
	ReceiptRetention time.Duration
	RunTimeout       time.Duration
}

func CleanupConfigFromEnv() CleanupConfig {
	return CleanupConfig{
		Schedule:         configs.GetEnv("CLEANUP_CRON_SCHEDULE", "15 3 * * *"),
		ReceiptRetention: time.Duration(configs.GetEnvInt("RETURN_RECEIPT_TTL_DAYS", 30)) * 24 * time.Hour,
		RunTimeout:       2 * time.Minute,
	}
}

// StartCleanupScheduler purges expired blacklist rows and old return
// receipts on cfg.Schedule. The returned cron must be stopped on shutdown.
func StartCleanupScheduler(db *gorm.DB, cfg CleanupConfig) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout)
		defer cancel()
		RunCleanup(ctx, db, cfg, time.Now())
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[CLEANUP] started schedule=%q receipt_retention=%s", cfg.Schedule, cfg.ReceiptRetention)
	c.Start()
	return c, nil
}

// RunCleanup runs one pass; failures are logged and the other step still runs.
func RunCleanup(ctx context.Context, db *gorm.DB, cfg CleanupConfig, now time.Time) {
	if n, err := helpersAuth.PurgeExpiredBlacklist(ctx, db); err != nil {
		log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
	} else {
		log.Printf("[CLEANUP] token_blacklist: %d expired rows removed", n)
	}

	if n, err := PurgeReturnReceipts(ctx, db, now.Add(-cfg.ReceiptRetention)); err != nil {
		log.Printf("[CLEANUP ERROR] loan_return_receipts: %v", err)
	} else {
		log.Printf("[CLEANUP] loan_return_receipts: %d rows removed", n)
	}
}

func PurgeReturnReceipts(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("loan_return_receipt_created_at < ?", before).
		Delete(&loanModel.LoanReturnReceiptModel{})
	return res.RowsAffected, res.Error
}
