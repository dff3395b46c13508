package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/murmur/config"
	"github.com/d60-Lab/murmur/internal/service"
	"github.com/d60-Lab/murmur/pkg/database"
	"github.com/d60-Lab/murmur/pkg/logger"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

// 一次性对账：用边表重算全部冗余计数。TIMEOUT_SEC 可调超时。
func main() {
	cfg := must(config.Load())
	_ = logger.Init(cfg.Log.Level, cfg.Log.Mode)
	defer logger.Sync()

	db := must(database.InitDB(cfg))

	timeout := 5 * time.Minute
	if s := os.Getenv("TIMEOUT_SEC"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { timeout = time.Duration(v) * time.Second } }

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	r := service.NewCounterReconciler(db, 0)
	if err := r.RunOnce(ctx); err != nil {
		logger.Error("reconcile failed", zap.Error(err))
		os.Exit(1)
	}
}
