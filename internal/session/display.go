package session

import (
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"

	"flowcellcli/internal/config"
	"flowcellcli/pkg/contracts/domain"
)

// DisplayText describes the current selection for the user: the selected file
// names for a files selection, the folder path for a folder selection. Lines
// are wrapped at width columns; width <= 0 uses config.DisplayWrapWidth.
func (s *Session) DisplayText(width int) string {
	s.mu.RLock()
	sel := s.selection
	s.mu.RUnlock()

	if width <= 0 {
		width = config.DisplayWrapWidth
	}

	switch sel.Kind {
	case domain.SelectionFolder:
		return Wrap(sel.Source, width)
	case domain.SelectionFiles:
		names := make([]string, 0, len(sel.Records))
		for _, r := range sel.Records {
			names = append(names, filepath.Base(r.Path))
		}
		return Wrap(strings.Join(names, "\n"), width)
	}
	return ""
}

// Wrap fills text into lines of at most width display columns. Any run of
// whitespace separates words; words wider than a line are split.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
	}

	for _, word := range strings.Fields(text) {
		for _, chunk := range splitWord(word, width) {
			w := runewidth.StringWidth(chunk)
			if lineWidth > 0 && lineWidth+1+w > width {
				flush()
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(chunk)
			lineWidth += w
		}
	}
	flush()

	return strings.Join(lines, "\n")
}

// splitWord cuts a word into pieces no wider than width
func splitWord(word string, width int) []string {
	if runewidth.StringWidth(word) <= width {
		return []string{word}
	}

	var chunks []string
	var cur strings.Builder
	curWidth := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if curWidth+rw > width && cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += rw
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
