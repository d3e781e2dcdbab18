/**
 * @description
 * This file wires the dispatcher and the ledger service to a Discord gateway
 * session. It owns everything discordgo-specific: the intent set, the
 * message and interaction handlers, slash command registration and the
 * streaming presence. All command semantics live in the dispatcher and the
 * ledger service; this layer only translates events and sends replies.
 *
 * @dependencies
 * - context, fmt, log: Standard Go libraries.
 * - github.com/bwmarrin/discordgo: The Discord gateway and REST client.
 * - internal/app: For the ledger service and the admin authorizer.
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/nilebank/ledger-service/internal/app"
)

const (
	slashCommandName = "addbalance"
	optionUser       = "المستخدم"
	optionAmount     = "المبلغ"

	presenceText = "فلوسك في أمان 💰"
	presenceURL  = "https://www.twitch.tv/discord"
)

// Bot runs the Discord side of the service: prefix commands and the
// admin-gated slash command, both dispatching into the shared ledger.
type Bot struct {
	session    *discordgo.Session
	dispatcher *Dispatcher
	ledger     *app.Service
	authorizer app.Authorizer
}

// New creates a Bot with the gateway intents the command surface needs.
func New(token string, ledger *app.Service, authorizer app.Authorizer) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Bot{
		session:    session,
		dispatcher: NewDispatcher(ledger),
		ledger:     ledger,
		authorizer: authorizer,
	}, nil
}

// Start opens the gateway connection and registers the slash command.
func (b *Bot) Start(ctx context.Context) error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessageCreate(ctx, s, m)
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.onInteractionCreate(ctx, s, i)
	})

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		log.Printf("level=error component=bot msg=\"slash command registration failed\" err=%v", err)
	} else {
		log.Println("level=info component=bot msg=\"slash commands registered\"")
	}
	return nil
}

// Stop closes the gateway connection.
func (b *Bot) Stop() {
	if err := b.session.Close(); err != nil {
		log.Printf("level=warn component=bot msg=\"session close failed\" err=%v", err)
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("level=info component=bot msg=\"gateway ready\" user=%s", r.User.Username)
	if err := s.UpdateStreamingStatus(0, presenceText, presenceURL); err != nil {
		log.Printf("level=warn component=bot msg=\"presence update failed\" err=%v", err)
	}
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	msg := IncomingMessage{
		AuthorID:       m.Author.ID,
		AuthorUsername: m.Author.Username,
		Content:        m.Content,
	}
	for _, mention := range m.Mentions {
		msg.Mentions = append(msg.Mentions, MentionedUser{ID: mention.ID, Username: mention.Username})
	}

	reply, handled := b.dispatcher.Dispatch(ctx, msg)
	if !handled {
		return
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, reply, m.Reference()); err != nil {
		log.Printf("level=warn component=bot msg=\"reply send failed\" channel_id=%s err=%v", m.ChannelID, err)
	}
}

func (b *Bot) registerCommands() error {
	command := &discordgo.ApplicationCommand{
		Name:        slashCommandName,
		Description: "إضافة رصيد لمستخدم معين (للمسؤول فقط).",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        optionUser,
				Description: "المستخدم الذي سيتم إضافة الرصيد له",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        optionAmount,
				Description: "المبلغ الذي سيتم إضافته",
				Required:    true,
			},
		},
	}
	_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", command)
	return err
}

func (b *Bot) onInteractionCreate(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != slashCommandName {
		return
	}

	invokerID := interactionUserID(i)
	if !b.authorizer.Authorize(invokerID) {
		log.Printf("level=warn component=bot command=/addbalance outcome=denied invoker_id=%s", invokerID)
		b.respondEphemeral(s, i, msgNotAuthorized)
		return
	}

	var target *discordgo.User
	var amount int64
	for _, opt := range data.Options {
		switch opt.Name {
		case optionUser:
			target = opt.UserValue(s)
		case optionAmount:
			amount = opt.IntValue()
		}
	}
	if target == nil {
		b.respondEphemeral(s, i, msgInvalidUserAmount)
		return
	}

	newBalance, err := b.ledger.Credit(ctx, target.ID, amount)
	if err != nil {
		if errors.Is(err, app.ErrInvalidAmount) {
			b.respondEphemeral(s, i, msgInvalidUserAmount)
			return
		}
		log.Printf("level=error component=bot command=/addbalance outcome=failed target_id=%s err=%v", target.ID, err)
		b.respondEphemeral(s, i, msgCommandFailed)
		return
	}

	log.Printf("level=info component=bot command=/addbalance outcome=applied invoker_id=%s target_id=%s amount=%d balance=%d", invokerID, target.ID, amount, newBalance)
	b.respondEphemeral(s, i, fmt.Sprintf(fmtAdminCredit, amount, target.Username, newBalance))
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("level=warn component=bot msg=\"interaction respond failed\" err=%v", err)
	}
}

// interactionUserID returns the invoking user's id for both guild and DM
// interactions; discordgo populates Member in guilds and User in DMs.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
