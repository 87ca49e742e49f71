package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

// SlackNotifier posts HIGH and CRITICAL events to a channel.
type SlackNotifier struct {
	api       *slack.Client
	channelID string
}

// NewSlackNotifier creates a notifier posting to channelID.
func NewSlackNotifier(api *slack.Client, channelID string) *SlackNotifier {
	return &SlackNotifier{api: api, channelID: channelID}
}

// Name implements filtering.Notifier.
func (n *SlackNotifier) Name() string { return "slack" }

// Notify implements filtering.Notifier. Events below HIGH are skipped.
func (n *SlackNotifier) Notify(ctx context.Context, ev domain.FilteringEvent) error {
	if domain.SeverityRank(ev.AlertLevel) < domain.SeverityRank(domain.SeverityHigh) {
		return nil
	}

	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(slackPrefix(ev.AlertLevel)+FormatMessage(ev), false),
	)
	if err != nil {
		return fmt.Errorf("post to slack channel %s: %w", n.channelID, err)
	}
	return nil
}

func slackPrefix(level string) string {
	if level == domain.SeverityCritical {
		return ":rotating_light: "
	}
	return ":warning: "
}
