package bootstrap

import (
	"io"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/hyunhan-cho/LT-GDG/internal/config"
	"github.com/hyunhan-cho/LT-GDG/internal/filtering"
	"github.com/hyunhan-cho/LT-GDG/internal/logger"
	"github.com/hyunhan-cho/LT-GDG/internal/notify"
)

// SetupNotifiers builds the alert notifiers. The log notifier is always on
// when alerts are enabled; Redis, AMQP and Slack are optional and a sink that
// cannot connect is skipped with a warning.
func SetupNotifiers(cfg *config.Config, log logger.Logger) ([]filtering.Notifier, []io.Closer) {
	if !cfg.Alerts.Enabled {
		return nil, nil
	}

	notifiers := []filtering.Notifier{notify.NewLogNotifier(log)}
	var closers []io.Closer

	if addr := cfg.Alerts.Redis.Address; addr != "" {
		client, err := notify.NewRedisClient(notify.RedisConfig{
			Address:  addr,
			Password: cfg.Alerts.Redis.Password,
			DB:       cfg.Alerts.Redis.DB,
			Channel:  cfg.Alerts.Redis.Channel,
		})
		if err != nil {
			log.Warn("Redis alert sink unavailable", logger.String("address", addr), logger.Error(err))
		} else {
			n := notify.NewRedisNotifier(client, cfg.Alerts.Redis.Channel, log)
			notifiers = append(notifiers, n)
			closers = append(closers, n)
			log.Info("Redis alert sink enabled", logger.String("channel", cfg.Alerts.Redis.Channel))
		}
	}

	if url := cfg.Alerts.AMQP.URL; url != "" {
		n, err := notify.NewAMQPNotifier(url, cfg.Alerts.AMQP.Queue, log)
		if err != nil {
			log.Warn("AMQP alert sink unavailable", logger.Error(err))
		} else {
			notifiers = append(notifiers, n)
			closers = append(closers, n)
			log.Info("AMQP alert sink enabled", logger.String("queue", cfg.Alerts.AMQP.Queue))
		}
	}

	if token := cfg.Alerts.Slack.Token; token != "" && cfg.Alerts.Slack.ChannelID != "" {
		slackAPI := slack.New(token, slack.OptionHTTPClient(&http.Client{Timeout: cfg.Alerts.Timeout}))
		notifiers = append(notifiers, notify.NewSlackNotifier(slackAPI, cfg.Alerts.Slack.ChannelID))
		log.Info("Slack alert sink enabled", logger.String("channel_id", cfg.Alerts.Slack.ChannelID))
	}

	return notifiers, closers
}

// SetupAlerts creates the alert system shared by every pipeline. The alert
// system is the last closer so it drains before the notifiers disconnect.
func SetupAlerts(
	cfg *config.Config,
	log logger.Logger,
	recorder filtering.AlertRecorder,
) (*filtering.AlertSystem, []io.Closer) {
	notifiers, closers := SetupNotifiers(cfg, log)

	opts := []filtering.AlertOption{
		filtering.WithNotifiers(notifiers...),
		filtering.WithMinLevel(cfg.Alerts.MinLevel),
		filtering.WithQueueSize(cfg.Alerts.QueueSize),
		filtering.WithNotifyTimeout(cfg.Alerts.Timeout),
	}
	if recorder != nil {
		opts = append(opts, filtering.WithRecorder(recorder))
	}
	alerts := filtering.NewAlertSystem(cfg.Alerts.HistorySize, log, opts...)
	return alerts, append(closers, alerts)
}
