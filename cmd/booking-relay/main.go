// Command booking-relay watches an IMAP mailbox for booking mails from
// the site robot and forwards them to a Telegram group. It runs until
// killed.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/avkuznetsov/booking-relay/internal/bot"
	"github.com/avkuznetsov/booking-relay/internal/config"
	"github.com/avkuznetsov/booking-relay/internal/mail"
	"github.com/avkuznetsov/booking-relay/internal/metrics"
	"github.com/avkuznetsov/booking-relay/internal/notify"
	"github.com/avkuznetsov/booking-relay/internal/poll"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("creating telegram client", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go metrics.Serve(cfg.MetricsAddr, log.Named("metrics"))
	}

	access := bot.NewAccessStore()
	commands := bot.New(api, cfg.SecretPassword, access, log.Named("bot"))
	go commands.Run(ctx)

	sink := notify.NewTelegram(api, cfg.GroupID, log.Named("notify"))
	sessions := mail.NewClient(cfg.IMAPServer, mail.Credentials{
		Account:  cfg.EmailAccount,
		Password: cfg.EmailPassword,
	}, cfg.IMAPTLS, log.Named("mail"))
	scanner := &mail.Scanner{
		Sink:    sink,
		Trigger: cfg.TriggerEmail,
		Log:     log.Named("scanner"),
	}

	loop := &poll.Loop{
		Sessions: sessions,
		Scan:     scanner.ScanFolder,
		Folders:  cfg.Folders,
		Interval: cfg.PollInterval,
		Log:      log.Named("poll"),
	}

	log.Info("booking relay started",
		zap.String("imap_server", cfg.IMAPServer),
		zap.Strings("folders", cfg.Folders),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Int64("group_id", cfg.GroupID),
	)

	loop.Run(ctx)

	log.Info("booking relay stopped")
}
