package bot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/calendar"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/config"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/ledger"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/patchnotes"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/reminder"
	"github.com/carlosfong02/El-Rincon-del-Poro-Bot/internal/scheduler"
)

// Bot represents the Discord bot instance
type Bot struct {
	config  *config.Config
	session *discordgo.Session
	store   *calendar.Store
	patches *patchnotes.Client
	sched   *scheduler.Scheduler
	loc     *time.Location
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Prefix commands need message content
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	// Load calendar data and persisted state
	store := calendar.Load(cfg.DataDir, loc)
	led := ledger.Load(filepath.Join(cfg.StateDir, "sent_reminders.json"))
	lastSeen := ledger.LoadLastSeenURL(filepath.Join(cfg.StateDir, "last_patch_url.txt"))

	patches := patchnotes.NewClient(cfg.PatchListURL)

	b := &Bot{
		config:  cfg,
		session: session,
		store:   store,
		patches: patches,
		loc:     loc,
	}

	b.sched = scheduler.New(
		reminder.NewEvaluator(store),
		led,
		lastSeen,
		patches,
		&discordSender{session: session},
		cfg.ChannelID,
	)

	// Register event handlers
	b.session.AddHandler(b.handleMessage)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
	})

	return b, nil
}

// Start opens the Discord connection and starts the reminder scheduler
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	b.sched.Start(ctx)
	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	if b.sched != nil {
		b.sched.Stop()
	}

	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

// now returns the current time in the bot's configured timezone.
func (b *Bot) now() time.Time {
	return time.Now().In(b.loc)
}

// discordSender adapts the Discord session to the scheduler's Sender.
type discordSender struct {
	session *discordgo.Session
}

func (d *discordSender) ChannelResolvable(channelID string) bool {
	if channelID == "" {
		return false
	}
	if _, err := d.session.State.Channel(channelID); err == nil {
		return true
	}
	_, err := d.session.Channel(channelID)
	return err == nil
}

func (d *discordSender) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := d.session.ChannelMessageSendEmbed(channelID, embed)
	return err
}
