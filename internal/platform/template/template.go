package template

import (
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Message is a templated chat message loaded from a JSON document. String
// fields may contain {PLACEHOLDER} tokens expanded by Substitute.
type Message struct {
	Content string  `json:"content"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Embed struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func Parse(raw []byte) (Message, error) {
	var msg Message
	if err := sonic.Unmarshal(raw, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message template: %w", err)
	}
	return msg, nil
}

// Substitute returns a copy of the message with every placeholder replaced
// in every string field. Unknown placeholders are left untouched.
func (m Message) Substitute(subs map[string]string) Message {
	out := Message{
		Content: substituteString(m.Content, subs),
		Embeds:  make([]Embed, 0, len(m.Embeds)),
	}
	for _, embed := range m.Embeds {
		next := Embed{
			Title:       substituteString(embed.Title, subs),
			Description: substituteString(embed.Description, subs),
			Fields:      make([]Field, 0, len(embed.Fields)),
		}
		for _, field := range embed.Fields {
			next.Fields = append(next.Fields, Field{
				Name:  substituteString(field.Name, subs),
				Value: substituteString(field.Value, subs),
			})
		}
		out.Embeds = append(out.Embeds, next)
	}
	return out
}

// RenderText flattens the message into plain text for transports without
// structured embeds.
func (m Message) RenderText() string {
	var buf strings.Builder
	if m.Content != "" {
		buf.WriteString(m.Content)
	}
	for _, embed := range m.Embeds {
		if embed.Title != "" {
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			buf.WriteString("**")
			buf.WriteString(embed.Title)
			buf.WriteString("**")
		}
		if embed.Description != "" {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(embed.Description)
		}
		for _, field := range embed.Fields {
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			buf.WriteString(field.Name)
			buf.WriteString(": ")
			buf.WriteString(field.Value)
		}
	}
	return buf.String()
}

func substituteString(value string, subs map[string]string) string {
	if value == "" {
		return value
	}
	for key, replacement := range subs {
		value = strings.ReplaceAll(value, key, replacement)
	}
	return value
}

// Truncate cuts a name down to limit runes. The second return reports whether
// anything was cut; the result is a pure function of name and limit.
func Truncate(name string, limit int) (string, bool) {
	if limit <= 0 {
		return "", name != ""
	}
	runes := []rune(name)
	if len(runes) <= limit {
		return name, false
	}
	return string(runes[:limit]), true
}

// Split breaks text into chunks of at most limit runes, cutting only at
// newline boundaries. A single line longer than the limit becomes its own
// chunk rather than being broken mid-line. Joining the chunks back with "\n"
// reconstructs the input exactly.
func Split(text string, limit int) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")

	var parts []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		parts = append(parts, current.String())
		current.Reset()
		currentLen = 0
	}

	started := false
	for _, line := range lines {
		lineLen := len([]rune(line))
		if started && currentLen+1+lineLen > limit {
			flush()
			started = false
		}
		if started {
			current.WriteString("\n")
			currentLen++
		}
		current.WriteString(line)
		currentLen += lineLen
		started = true
	}
	flush()

	return parts
}
