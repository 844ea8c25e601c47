package router

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"aurabot/models"
	"aurabot/service"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LeaderboardSize is how many entries the leaderboard shows
const LeaderboardSize = 10

// Router turns normalized commands into ledger operations and a single reply
type Router struct {
	ledger      service.LedgerStore
	wagers      service.WagerService
	admin       service.AdminService
	permissions service.Permissions
	identities  IdentityResolver
	prefix      *Prefix
	printer     *message.Printer
}

// Config holds the router's collaborators
type Config struct {
	Ledger      service.LedgerStore
	Wagers      service.WagerService
	Admin       service.AdminService
	Permissions service.Permissions
	Identities  IdentityResolver
	Prefix      *Prefix
}

// New creates a command router
func New(cfg Config) *Router {
	prefix := cfg.Prefix
	if prefix == nil {
		prefix = NewPrefix(DefaultPrefix)
	}
	return &Router{
		ledger:      cfg.Ledger,
		wagers:      cfg.Wagers,
		admin:       cfg.Admin,
		permissions: cfg.Permissions,
		identities:  cfg.Identities,
		prefix:      prefix,
		printer:     message.NewPrinter(language.English),
	}
}

// Prefix returns the live text command prefix
func (r *Router) Prefix() string {
	return r.prefix.Get()
}

// Dispatch executes cmd and always returns exactly one reply.
// A panic anywhere below is logged and turned into the generic error reply.
func (r *Router) Dispatch(ctx context.Context, cmd models.Command) (reply models.Reply) {
	logger := log.WithFields(log.Fields{
		"command":    cmd.Name,
		"subcommand": cmd.Subcommand,
		"actor":      cmd.ActorID,
		"target":     cmd.TargetID,
	})

	defer func() {
		if p := recover(); p != nil {
			logger.Errorf("Panic while dispatching command: %v\n%s", p, debug.Stack())
			reply = genericErrorReply()
		}
	}()

	logger.Debug("Dispatching command")

	var err error
	switch cmd.Name {
	case models.CommandAura:
		reply, err = r.dispatchAura(ctx, cmd)
	case models.CommandHelp:
		reply = r.helpReply(cmd.Source)
	case models.CommandPrefix:
		reply, err = r.changePrefix(cmd)
	default:
		err = fmt.Errorf("%w: %s", service.ErrUnknownSubcommand, cmd.Name)
	}

	if err != nil {
		return r.errorReply(logger, cmd, err)
	}
	return reply
}

func (r *Router) dispatchAura(ctx context.Context, cmd models.Command) (models.Reply, error) {
	switch cmd.Subcommand {
	case "", models.SubcommandView:
		return r.view(ctx, cmd)
	case models.SubcommandGamble:
		return r.gamble(ctx, cmd)
	case models.SubcommandBattle:
		return r.battle(ctx, cmd)
	case models.SubcommandAccept:
		return r.accept(ctx, cmd)
	case models.SubcommandLeaderboard:
		return r.leaderboard(ctx)
	case models.SubcommandGive:
		return r.give(ctx, cmd)
	case models.SubcommandTake:
		return r.take(ctx, cmd)
	case models.SubcommandReset:
		return r.reset(ctx, cmd)
	case models.SubcommandSet:
		return r.set(ctx, cmd)
	case models.SubcommandHelp:
		return r.helpReply(cmd.Source), nil
	default:
		return models.Reply{}, fmt.Errorf("%w: %s", service.ErrUnknownSubcommand, cmd.Subcommand)
	}
}

func (r *Router) view(ctx context.Context, cmd models.Command) (models.Reply, error) {
	user, err := r.ledger.GetOrCreate(ctx, cmd.ActorID)
	if err != nil {
		return models.Reply{}, err
	}
	return models.Reply{Content: r.printer.Sprintf("🌌 Your aura: **%d**", user.Balance)}, nil
}

func (r *Router) gamble(ctx context.Context, cmd models.Command) (models.Reply, error) {
	if cmd.Amount == nil {
		return models.Reply{}, service.ErrInvalidAmount
	}
	result, err := r.wagers.Gamble(ctx, cmd.ActorID, *cmd.Amount)
	if err != nil {
		return models.Reply{}, err
	}
	if result.Won {
		return models.Reply{Content: r.printer.Sprintf("🎲 You won! +%d aura. Your aura: **%d**", result.Amount, result.NewBalance)}, nil
	}
	return models.Reply{Content: r.printer.Sprintf("💀 You lost! -%d aura. Your aura: **%d**", result.Amount, result.NewBalance)}, nil
}

func (r *Router) battle(ctx context.Context, cmd models.Command) (models.Reply, error) {
	if cmd.Amount == nil {
		return models.Reply{}, service.ErrInvalidAmount
	}
	result, err := r.wagers.Challenge(ctx, cmd.ActorID, cmd.TargetID, cmd.TargetIsBot, *cmd.Amount)
	if err != nil {
		return models.Reply{}, err
	}

	challenger := r.labelFor(ctx, result.ChallengerID, Mention(result.ChallengerID))
	return models.Reply{
		Content: r.printer.Sprintf("⚔️ %s, %s challenges you for **%d aura!** Type %s to fight.",
			Mention(result.TargetID), challenger, result.Amount, r.acceptHint(cmd.Source)),
		Public: true,
	}, nil
}

func (r *Router) accept(ctx context.Context, cmd models.Command) (models.Reply, error) {
	challengerID, _, err := r.wagers.PendingChallenge(ctx, cmd.ActorID)
	if err != nil {
		return models.Reply{}, err
	}

	challengerName, err := r.identities.DisplayName(ctx, challengerID)
	if err != nil {
		return models.Reply{}, fmt.Errorf("%w: %v", service.ErrChallengerUnavailable, err)
	}
	accepterName := r.labelFor(ctx, cmd.ActorID, Mention(cmd.ActorID))

	// The lookups above yield; Accept only resolves if the challenge is still from challengerID.
	result, err := r.wagers.Accept(ctx, cmd.ActorID, challengerID)
	if err != nil {
		return models.Reply{}, err
	}

	content := r.printer.Sprintf("🎲 %s rolled %d\n🎲 %s rolled %d\n",
		challengerName, result.ChallengerRoll, accepterName, result.AccepterRoll)
	switch result.Outcome {
	case models.BattleChallengerWon:
		content += r.printer.Sprintf("🏆 %s wins **%d aura!**", challengerName, result.Amount)
	case models.BattleAccepterWon:
		content += r.printer.Sprintf("🏆 %s wins **%d aura!**", accepterName, result.Amount)
	default:
		content += "🤝 It's a tie!"
	}
	return models.Reply{Content: content, Public: true}, nil
}

func (r *Router) leaderboard(ctx context.Context) (models.Reply, error) {
	entries := r.ledger.TopN(LeaderboardSize)

	description := "No one has any aura yet."
	if len(entries) > 0 {
		description = ""
		for i, entry := range entries {
			if i > 0 {
				description += "\n"
			}
			label := r.labelFor(ctx, entry.DiscordID, UnknownLabel)
			description += r.printer.Sprintf("%d. %s: %d", entry.Rank, label, entry.Balance)
		}
	}

	return models.Reply{
		Embed: &models.Embed{
			Title:       "🏆 MXaura Leaderboard",
			Description: description,
			Color:       models.ColorLeaderboard,
		},
		Public: true,
	}, nil
}

func (r *Router) give(ctx context.Context, cmd models.Command) (models.Reply, error) {
	user, err := r.admin.Give(ctx, cmd.ActorID, cmd.TargetID, amountOrZero(cmd))
	if err != nil {
		return models.Reply{}, err
	}
	return models.Reply{Content: r.printer.Sprintf("✨ Gave **%d aura** to %s. New aura: **%d**",
		*cmd.Amount, Mention(user.DiscordID), user.Balance)}, nil
}

func (r *Router) take(ctx context.Context, cmd models.Command) (models.Reply, error) {
	user, err := r.admin.Take(ctx, cmd.ActorID, cmd.TargetID, amountOrZero(cmd))
	if err != nil {
		return models.Reply{}, err
	}
	return models.Reply{Content: r.printer.Sprintf("🩸 Took **%d aura** from %s. New aura: **%d**",
		*cmd.Amount, Mention(user.DiscordID), user.Balance)}, nil
}

func (r *Router) reset(ctx context.Context, cmd models.Command) (models.Reply, error) {
	user, err := r.admin.Reset(ctx, cmd.ActorID, cmd.TargetID)
	if err != nil {
		return models.Reply{}, err
	}
	return models.Reply{Content: fmt.Sprintf("🔄 Reset %s's aura to **0**.", Mention(user.DiscordID))}, nil
}

func (r *Router) set(ctx context.Context, cmd models.Command) (models.Reply, error) {
	if !r.permissions.IsOwner(cmd.ActorID) {
		return models.Reply{}, service.ErrPermissionDenied
	}
	if cmd.Amount == nil {
		return models.Reply{}, service.ErrInvalidAmount
	}
	user, err := r.admin.Set(ctx, cmd.ActorID, cmd.TargetID, *cmd.Amount)
	if err != nil {
		return models.Reply{}, err
	}
	return models.Reply{Content: r.printer.Sprintf("✅ Set %s's aura to **%d**.", Mention(user.DiscordID), user.Balance)}, nil
}

func (r *Router) changePrefix(cmd models.Command) (models.Reply, error) {
	if !r.permissions.IsOwner(cmd.ActorID) {
		return models.Reply{}, service.ErrPermissionDenied
	}
	if err := r.prefix.Set(cmd.Argument); err != nil {
		return models.Reply{Content: "⚠️ The prefix must be a single character.", Ephemeral: true}, nil
	}
	log.WithFields(log.Fields{
		"actor":  cmd.ActorID,
		"prefix": cmd.Argument,
	}).Info("Command prefix changed")
	return models.Reply{Content: fmt.Sprintf("✅ Prefix changed to `%s`", cmd.Argument)}, nil
}

func (r *Router) acceptHint(source models.Source) string {
	if source == models.SourceSlash {
		return "`/aura accept`"
	}
	return fmt.Sprintf("`%saura accept`", r.prefix.Get())
}

func amountOrZero(cmd models.Command) int64 {
	if cmd.Amount == nil {
		return 0
	}
	return *cmd.Amount
}

// errorReply maps the error taxonomy onto user-facing text. Unexpected errors are logged
// and answered generically.
func (r *Router) errorReply(logger *log.Entry, cmd models.Command, err error) models.Reply {
	var content string
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		content = "⚠️ Enter a valid aura amount!"
	case errors.Is(err, service.ErrInsufficientFunds):
		if cmd.Subcommand == models.SubcommandBattle {
			content = "❌ Not enough aura to battle!"
		} else {
			content = "❌ You don't have enough aura!"
		}
	case errors.Is(err, service.ErrInvalidTarget):
		content = r.invalidTargetText(cmd)
	case errors.Is(err, service.ErrNoPendingChallenge):
		content = "❌ No one has challenged you!"
	case errors.Is(err, service.ErrChallengerUnavailable):
		content = "❌ Your challenger could not be found. Try again later."
	case errors.Is(err, service.ErrPermissionDenied):
		content = "🚫 You don't have permission to do that."
	case errors.Is(err, service.ErrUnknownSubcommand):
		content = fmt.Sprintf("❓ Unknown subcommand. Type `%shelp` to see the commands.", r.prefix.Get())
	default:
		logger.WithError(err).Error("Command failed")
		return genericErrorReply()
	}

	logger.WithError(err).Debug("Command rejected")
	return models.Reply{Content: content, Ephemeral: true}
}

func (r *Router) invalidTargetText(cmd models.Command) string {
	p := r.prefix.Get()
	if !cmd.HasTarget() {
		switch cmd.Subcommand {
		case models.SubcommandBattle:
			return fmt.Sprintf("⚔️ Usage: %saura battle <amount> @user", p)
		case models.SubcommandReset:
			return fmt.Sprintf("Usage: %saura reset @user", p)
		default:
			return fmt.Sprintf("Usage: %saura %s <amount> @user", p, cmd.Subcommand)
		}
	}
	return "😅 You can't battle yourself or bots!"
}

func genericErrorReply() models.Reply {
	return models.Reply{Content: "⚠️ An error occurred. Please try again.", Ephemeral: true}
}
