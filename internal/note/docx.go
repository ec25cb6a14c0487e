package note

import (
	"fmt"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"github.com/abelbrown/aidaily/internal/feed"
)

// WriteDocx saves the note for items as a Word document at path.
// Each note line becomes one paragraph; the header line is enlarged,
// section titles are emphasised, and the hashtag footer is greyed.
func WriteDocx(path string, items []feed.Item, now time.Time) error {
	text := Generate(items, now)
	f := docx.NewFile()

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			f.AddParagraph() // Spacer
			continue
		}
		run := f.AddParagraph().AddText(line)
		switch {
		case i == 0:
			run.Size(20)
		case line == divider:
			run.Color("808080")
		case isSectionTitle(line):
			run.Size(14)
		case strings.HasPrefix(line, "#"):
			run.Size(10)
			run.Color("808080")
		}
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save note docx: %w", err)
	}
	return nil
}

func isSectionTitle(line string) bool {
	for _, prefix := range []string{"✨ ", "🛠️ ", "🔬 ", "💡 "} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
