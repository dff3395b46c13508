package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/murmur/pkg/logger"
)

// CounterReconciler 对账任务：用边表重算 users / murmurs 上的冗余计数。
// 幂等，可一次性跑也可按周期跑；不在请求路径上。
type CounterReconciler struct {
	db       *gorm.DB
	interval time.Duration
}

func NewCounterReconciler(db *gorm.DB, interval time.Duration) *CounterReconciler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CounterReconciler{db: db, interval: interval}
}

// RunOnce 全量重算一遍计数
func (r *CounterReconciler) RunOnce(ctx context.Context) error {
	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
            UPDATE users SET
                followers_count = (SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id),
                following_count = (SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id),
                murmurs_count   = (SELECT COUNT(*) FROM murmurs
                                   WHERE murmurs.user_id = users.id
                                     AND murmurs.is_deleted = FALSE
                                     AND murmurs.reply_to_id IS NULL)
        `).Error; err != nil {
			return err
		}
		return tx.Exec(`
            UPDATE murmurs SET
                likes_count   = (SELECT COUNT(*) FROM likes WHERE likes.murmur_id = murmurs.id),
                replies_count = (SELECT COUNT(*) FROM murmurs m2
                                 WHERE m2.reply_to_id = murmurs.id AND m2.is_deleted = FALSE)
        `).Error
	})
	if err != nil {
		return err
	}
	logger.Info("counter reconciliation done", zap.Duration("took", time.Since(start)))
	return nil
}

// Start 启动周期对账；返回停止函数
func (r *CounterReconciler) Start() func(context.Context) error {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if err := r.RunOnce(ctx); err != nil {
					logger.Warn("counter reconciliation failed", zap.Error(err))
				}
				cancel()
			}
		}
	}()
	return func(ctx context.Context) error { close(stop); return nil }
}
