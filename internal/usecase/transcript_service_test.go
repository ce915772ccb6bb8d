package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
	"github.com/leaguehq/drawbridge/internal/usecase"
)

func TestExportEmptyTranscriptStillProducesFile(t *testing.T) {
	t.Parallel()
	e := newEnv()
	svc := usecase.NewTranscriptService(e.logs, logging.NewNop())

	file, err := svc.Export(context.Background(), 2001, "operator")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if file.Name != "match-2001-transcript.txt" {
		t.Fatalf("got file name %q", file.Name)
	}
	body := string(file.Data)
	if !strings.Contains(body, "Transcript for match 2001") {
		t.Fatalf("header missing:\n%s", body)
	}
	if !strings.Contains(body, "operator") {
		t.Fatalf("requester missing:\n%s", body)
	}
	if !strings.Contains(body, "Entries: 0") {
		t.Fatalf("empty transcript must say so:\n%s", body)
	}
}

func TestExportFormatsAllEventKinds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv()
	ts := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	entries := []chatlog.Entry{
		{
			MatchID: 2001, AuthorID: 555, AuthorName: "captain", MessageID: 1,
			Content: "good luck", Kind: chatlog.KindCreate, Timestamp: ts,
		},
		{
			MatchID: 2001, AuthorID: 555, AuthorName: "captain", AuthorNick: "cap", MessageID: 1,
			Content: "good luck", NewContent: "good luck, have fun",
			Kind: chatlog.KindEdit, Timestamp: ts.Add(time.Minute),
		},
		{
			MatchID: 2001, AuthorID: 556, AuthorName: "rando", MessageID: 2,
			Content: "spam", Attachments: "https://cdn.example/shot.png",
			Kind: chatlog.KindDelete, Timestamp: ts.Add(2 * time.Minute),
		},
	}
	for _, entry := range entries {
		if err := e.logs.Insert(ctx, entry); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	svc := usecase.NewTranscriptService(e.logs, logging.NewNop())
	file, err := svc.Export(ctx, 2001, "operator")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	body := string(file.Data)

	for _, want := range []string{
		"Entries: 3",
		"CREATE captain",
		"good luck",
		"EDIT cap (captain)",
		"OLD: good luck",
		"NEW: good luck, have fun",
		"DELETE rando",
		"Attachments: https://cdn.example/shot.png",
		"2026-03-14 15:09:26 UTC",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("transcript misses %q:\n%s", want, body)
		}
	}

	if strings.Index(body, "CREATE") > strings.Index(body, "EDIT") {
		t.Fatal("entries out of order")
	}
}

func TestExportValidatesMatchID(t *testing.T) {
	t.Parallel()
	svc := usecase.NewTranscriptService(newEnv().logs, logging.NewNop())
	if _, err := svc.Export(context.Background(), 0, "operator"); !crerr.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("got %v, want invalid input", err)
	}
}
