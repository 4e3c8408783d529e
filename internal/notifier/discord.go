package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/campuspulse/campus-events-api/internal/models"
)

type Notifier interface {
	EventPublished(event models.Event) error
	EventCancelled(event models.Event) error
	EventFull(event models.Event) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) EventPublished(event models.Event) error {
	message := fmt.Sprintf("📅 **New Event**\n**%s** (%s)\n%s\n**When:** %s - %s\n**Capacity:** %d",
		event.Title,
		event.EventType,
		event.Description,
		event.StartTime.Format("2006-01-02 15:04"),
		event.EndTime.Format("2006-01-02 15:04"),
		event.Capacity,
	)
	return n.send(message)
}

func (n *DiscordNotifier) EventCancelled(event models.Event) error {
	message := fmt.Sprintf("🚫 **Event Cancelled**\n**%s** scheduled for %s is no longer happening.",
		event.Title,
		event.StartTime.Format("2006-01-02 15:04"),
	)
	return n.send(message)
}

func (n *DiscordNotifier) EventFull(event models.Event) error {
	message := fmt.Sprintf("🎟️ **Event Full**\n**%s** has reached its capacity of %d registrations.",
		event.Title,
		event.Capacity,
	)
	return n.send(message)
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
