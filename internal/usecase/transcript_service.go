package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/leaguehq/drawbridge/internal/chat"
	"github.com/leaguehq/drawbridge/internal/domain/chatlog"
	"github.com/leaguehq/drawbridge/internal/platform/logging"
)

const transcriptTimeLayout = "2006-01-02 15:04:05 MST"

type TranscriptService struct {
	logs   chatlog.Repository
	now    func() time.Time
	logger *logging.Logger
}

func NewTranscriptService(logs chatlog.Repository, logger *logging.Logger) *TranscriptService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TranscriptService{logs: logs, now: time.Now, logger: logger}
}

// Export compiles the ordered audit trail of a match channel into a flat
// text file. A match with no recorded messages still yields a file with just
// the header, never an error.
func (s *TranscriptService) Export(ctx context.Context, matchID int64, requester string) (chat.File, error) {
	ctx, span := startUsecaseSpan(ctx, "transcript.Export")
	defer span.End()

	if matchID <= 0 {
		return chat.File{}, fmt.Errorf("%w: match id must be greater than zero", ErrInvalidInput)
	}

	entries, err := s.logs.ListByMatch(ctx, matchID)
	if err != nil {
		return chat.File{}, fmt.Errorf("list log entries for match %d: %w", matchID, err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "Transcript for match %d\n", matchID)
	fmt.Fprintf(buf, "Exported %s by %s\n", s.now().UTC().Format(transcriptTimeLayout), requester)
	fmt.Fprintf(buf, "Entries: %d\n", len(entries))

	for _, entry := range entries {
		buf.WriteString("\n")
		writeEntry(buf, entry)
	}

	// The pooled buffer is reused after Put, so the file keeps its own copy.
	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())

	return chat.File{
		Name: fmt.Sprintf("match-%d-transcript.txt", matchID),
		Data: data,
	}, nil
}

func writeEntry(buf *bytebufferpool.ByteBuffer, entry chatlog.Entry) {
	author := entry.AuthorName
	if entry.AuthorNick != "" {
		author = fmt.Sprintf("%s (%s)", entry.AuthorNick, entry.AuthorName)
	}
	fmt.Fprintf(buf, "[%s] %s %s\n", entry.Timestamp.UTC().Format(transcriptTimeLayout), entry.Kind, author)

	switch entry.Kind {
	case chatlog.KindEdit:
		fmt.Fprintf(buf, "OLD: %s\n", entry.Content)
		fmt.Fprintf(buf, "NEW: %s\n", entry.NewContent)
	default:
		if entry.Content != "" {
			fmt.Fprintf(buf, "%s\n", entry.Content)
		}
	}
	if entry.Attachments != "" {
		fmt.Fprintf(buf, "Attachments: %s\n", entry.Attachments)
	}
}
