package bot

import (
	"context"
	"fmt"

	"aurabot/events"
	"aurabot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// resetAnnouncer posts to a channel whenever the daily reset runs
type resetAnnouncer struct {
	api       messageSender
	channelID string
}

func newResetAnnouncer(api messageSender, channelID string) *resetAnnouncer {
	return &resetAnnouncer{api: api, channelID: channelID}
}

func (a *resetAnnouncer) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeLedgerReset, func(ctx context.Context, event events.Event) {
		reset, ok := event.(events.LedgerResetEvent)
		if !ok {
			return
		}
		if err := a.Announce(reset); err != nil {
			log.Errorf("Failed to announce daily reset: %v", err)
		}
	})
}

func (a *resetAnnouncer) Announce(reset events.LedgerResetEvent) error {
	_, err := a.api.ChannelMessageSend(a.channelID, resetAnnouncement(reset))
	return err
}

func resetAnnouncement(reset events.LedgerResetEvent) string {
	return fmt.Sprintf("🔄 A new day has begun! Aura was reset for %d users, everyone now holds between %d and %d aura.",
		reset.UsersAffected, service.MinInitialBalance, service.MaxInitialBalance)
}
