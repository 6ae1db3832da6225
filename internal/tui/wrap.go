// Package tui provides the Bubble Tea playback interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// typedCell is one character the session has typed so far. wrong marks a
// typo that has not been corrected yet.
type typedCell struct {
	r     rune
	wrong bool
}

type styledRune struct {
	s       string
	width   int
	isSpace bool
	isBreak bool
}

func buildStyledRunes(target []rune, typed []typedCell, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(target))
	for i, tr := range target {
		displayed := tr
		style := pendingStyle
		if i < len(typed) {
			if typed[i].wrong {
				displayed = typed[i].r
				style = incorrectStyle
			} else {
				style = correctStyle
			}
		}
		if i == cursorIndex && i >= len(typed) {
			style = style.Underline(true)
		}
		if displayed == '\n' {
			out = append(out, styledRune{
				s:       style.Render("↵") + "\n",
				width:   1,
				isBreak: true,
			})
			continue
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: tr == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if item.isBreak {
			line = append(line, item)
			out.WriteString(renderStyledRunes(line))
			line = line[:0]
			lineWidth = 0
			lastSpaceIdx = -1
			i++
			continue
		}
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
