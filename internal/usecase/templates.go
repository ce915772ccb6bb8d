package usecase

import (
	"embed"
	"fmt"

	"github.com/leaguehq/drawbridge/internal/platform/template"
)

//go:embed templates/*.json
var templateFS embed.FS

var (
	teamWelcomeTemplate = mustTemplate("templates/teams.json")
	matchTemplate       = mustTemplate("templates/match.json")
)

const (
	byeNotice      = "{TEAM_NAME} has a bye this round. No match channel was created."
	organizeNotice = "Your {ROUND_NAME} match against {OPPONENT} is ready: {CHANNEL_LINK}. Please organize a time to play."
	closingNotice  = "This match is over. The channel is now read-only and kept for reference."
	apologyNotice  = "This channel was deleted by accident and has been restored. Apologies for any messages lost."
)

func mustTemplate(name string) template.Message {
	raw, err := templateFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("read embedded template %s: %v", name, err))
	}
	msg, err := template.Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("parse embedded template %s: %v", name, err))
	}
	return msg
}
