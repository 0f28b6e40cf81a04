package main

import (
	"context"
	"fmt"

	"ieee-funding-portal/internal/config"
	"ieee-funding-portal/internal/database"
	"ieee-funding-portal/internal/draft"
	"ieee-funding-portal/internal/logger"
	"ieee-funding-portal/internal/otp"
	"ieee-funding-portal/internal/report"
	"ieee-funding-portal/internal/server"
	"ieee-funding-portal/internal/wizard"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	database.SetLogger(log)
	database.Init(cfg.DBDSN)

	store := draft.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := store.Ping(context.Background()); err != nil {
		log.Fatal("redis is unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	defer func() { _ = store.Close() }()

	var mailer otp.Mailer
	if cfg.Mailer == "ses" {
		sesMailer, err := otp.NewSESMailer(context.Background(), cfg.AWSRegion, cfg.FromEmail)
		if err != nil {
			log.Fatal("failed to build SES mailer", zap.Error(err))
		}
		mailer = sesMailer
	} else {
		mailer = &otp.LogMailer{Log: log}
	}

	drafts := draft.NewManager(store)
	otpSvc := otp.NewService(store, mailer, log)
	reports := report.NewGenerator(log)
	wiz := wizard.NewController(drafts, otpSvc, reports, database.ApplicationRecorder{}, log)

	r := server.NewRouter(cfg, wiz, log)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
