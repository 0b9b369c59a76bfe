package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/tmx/internal/matrix"
)

// Table renders matrix snapshots as a cross-tab: one row per
// (test, backend, opt) group, one column per memory-strategy value.
type Table struct {
	theme Theme
	title cases.Caser
}

// NewTable creates a table renderer with the given theme.
func NewTable(theme Theme) *Table {
	return &Table{theme: theme, title: cases.Title(language.English)}
}

type rowKey struct {
	test    string
	backend matrix.Backend
	opt     matrix.Opt
}

type row struct {
	key   rowKey
	cells map[matrix.Memory]matrix.StatusKind
}

// Render formats the snapshot. Pure: the same entries always produce the
// same output.
func (t *Table) Render(entries []matrix.Entry) string {
	rows := t.group(entries)
	if len(rows) == 0 {
		return ""
	}

	headers := []string{"Test", "Backend", "Opt"}
	for _, mem := range matrix.Memories {
		headers = append(headers, t.title.String(string(mem)))
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	cellTexts := make([][]string, len(rows))
	for ri, r := range rows {
		texts := []string{r.key.test, string(r.key.backend), string(r.key.opt)}
		for _, mem := range matrix.Memories {
			texts = append(texts, t.cellText(r.cells, mem))
		}
		for ci, text := range texts {
			if w := runewidth.StringWidth(text); w > widths[ci] {
				widths[ci] = w
			}
		}
		cellTexts[ri] = texts
	}

	var sb strings.Builder
	for ci, h := range headers {
		sb.WriteString(t.theme.Header.Render(pad(h, widths[ci])))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(t.theme.Muted.Render(strings.Repeat(t.theme.Divider, total)))
	sb.WriteString("\n")

	for ri, r := range rows {
		for ci, text := range cellTexts[ri] {
			padded := pad(text, widths[ci])
			if ci >= 3 {
				status := r.cells[matrix.Memories[ci-3]]
				sb.WriteString(t.theme.styleFor(status).Render(padded))
			} else {
				sb.WriteString(padded)
			}
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// group builds rows by pulling entries out of a working copy of the
// snapshot until it is exhausted. Insertion order determines row order;
// rows whose every cell is empty are dropped.
func (t *Table) group(entries []matrix.Entry) []row {
	working := make(map[matrix.Profile]matrix.StatusKind, len(entries))
	for _, e := range entries {
		working[e.Profile] = e.Status
	}

	var rows []row
	for _, e := range entries {
		if _, ok := working[e.Profile]; !ok {
			continue // consumed by an earlier row
		}
		key := rowKey{test: e.Profile.Test, backend: e.Profile.Backend, opt: e.Profile.Opt}
		r := row{key: key, cells: make(map[matrix.Memory]matrix.StatusKind)}
		occupied := false
		for _, mem := range matrix.Memories {
			sib := matrix.Profile{Backend: key.backend, Memory: mem, Opt: key.opt, Test: key.test}
			s, ok := working[sib]
			if !ok {
				continue
			}
			delete(working, sib)
			r.cells[mem] = s
			if s != matrix.None {
				occupied = true
			}
		}
		if occupied {
			rows = append(rows, r)
		}
	}
	return rows
}

func (t *Table) cellText(cells map[matrix.Memory]matrix.StatusKind, mem matrix.Memory) string {
	s, ok := cells[mem]
	if !ok || s == matrix.None {
		return ""
	}
	return t.theme.Glyphs[s] + " " + s.String()
}

func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
