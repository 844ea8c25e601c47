package router

import (
	"fmt"
	"strings"

	"aurabot/models"
)

var helpLines = []struct {
	usage       string
	description string
}{
	{"aura", "show your aura"},
	{"aura gamble <amount>", "flip a coin for aura"},
	{"aura battle <amount> @user", "challenge someone"},
	{"aura accept", "accept a battle"},
	{"aura leaderboard", "show the top aura"},
	{"aura give <amount> @user", "give aura (admins)"},
	{"aura take <amount> @user", "take aura (admins)"},
	{"aura reset @user", "reset someone's aura to 0 (owner)"},
	{"aura set <amount> [@user]", "set aura (owner)"},
	{"prefix <char>", "change the command prefix (owner)"},
	{"help", "show this help"},
}

func (r *Router) helpReply(source models.Source) models.Reply {
	p := r.prefix.Get()
	if source == models.SourceSlash {
		p = "/"
	}

	var b strings.Builder
	for _, line := range helpLines {
		fmt.Fprintf(&b, "`%s%s`: %s\n", p, line.usage, line.description)
	}
	b.WriteString("💫 Aura resets daily at midnight (IST).")

	return models.Reply{
		Embed: &models.Embed{
			Title:       "📜 MXaura Commands",
			Description: b.String(),
			Color:       models.ColorHelp,
		},
		Public: true,
	}
}
