package bot

import (
	"context"
	"strconv"
	"strings"

	"aurabot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// subcommands whose first non-mention argument is an amount
var amountSubcommands = map[string]bool{
	models.SubcommandGamble: true,
	models.SubcommandBattle: true,
	models.SubcommandGive:   true,
	models.SubcommandTake:   true,
	models.SubcommandSet:    true,
}

// ParseText turns a prefixed chat line into a command. It reports false when the
// line is not addressed to the bot.
func ParseText(content, prefix string, authorID string, mentions []*discordgo.User) (models.Command, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return models.Command{}, false
	}
	args := strings.Fields(content[len(prefix):])
	if len(args) == 0 {
		return models.Command{}, false
	}

	cmd := models.Command{
		Name:    strings.ToLower(args[0]),
		ActorID: authorID,
		Source:  models.SourceText,
	}
	args = args[1:]

	switch cmd.Name {
	case models.CommandHelp:
		return cmd, true
	case models.CommandPrefix:
		if len(args) > 0 {
			cmd.Argument = args[0]
		}
		return cmd, true
	case models.CommandAura:
	default:
		return models.Command{}, false
	}

	if len(args) > 0 {
		cmd.Subcommand = strings.ToLower(args[0])
		args = args[1:]
	}
	if amountSubcommands[cmd.Subcommand] {
		cmd.Amount = parseAmount(args)
	}
	if len(mentions) > 0 && mentions[0] != nil {
		cmd.TargetID = mentions[0].ID
		cmd.TargetIsBot = mentions[0].Bot
	}
	return cmd, true
}

// parseAmount returns the first argument that is not a mention, parsed as an integer
func parseAmount(args []string) *int64 {
	for _, arg := range args {
		if strings.HasPrefix(arg, "<@") {
			continue
		}
		amount, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil
		}
		return &amount
	}
	return nil
}

// handleMessageCreate runs prefixed text commands
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	// Skip messages from our own bot to avoid loops
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	cmd, ok := ParseText(m.Content, b.router.Prefix(), m.Author.ID, m.Mentions)
	if !ok {
		return
	}

	defer func() {
		if p := recover(); p != nil {
			log.Errorf("Panic handling message %s: %v", m.ID, p)
			b.sendMessageReply(s, m.Message, genericReply())
		}
	}()

	reply := b.router.Dispatch(context.Background(), cmd)
	b.sendMessageReply(s, m.Message, reply)
}
