package render

import (
	"fmt"
	"strings"

	"chronorogue/internal/component"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// logLines is how many log entries the HUD shows.
const logLines = 3

// DrawHUD renders the status bar, sense selection, banner and message log
// at the bottom of the screen.
func (r *Renderer) DrawHUD(v View) {
	w, h := r.screen.Size()
	hudY := h - HUDHeight
	if hudY < 0 {
		hudY = 0
	}

	r.drawHLine(hudY, tcell.ColorGray)
	r.drawText(0, hudY+1, w, StatusLine(v), tcell.StyleDefault.Foreground(tcell.ColorWhite))
	r.drawText(0, hudY+2, w, SensesLine(v.Senses), tcell.StyleDefault.Foreground(tcell.ColorAqua))
	if v.Banner != "" {
		r.drawText(0, hudY+3, w, v.Banner, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}

	start := max(len(v.Logs)-logLines, 0)
	for i, e := range v.Logs[start:] {
		line := fmt.Sprintf("%4d  %s", e.Turn, e.Text)
		r.drawText(0, hudY+4+i, w, line, tcell.StyleDefault.Foreground(tcell.ColorLightYellow))
	}
}

// StatusLine is the first HUD row. Vitals come only from the self sense.
func StatusLine(v View) string {
	vitals := "HP ?  Focus ?"
	if s, ok := v.Perception.Sense(component.SenseSelf); ok && s.Vitals != nil {
		vt := s.Vitals
		vitals = fmt.Sprintf("HP %d/%d  Focus %d/%d  Orbs %d", vt.HP, vt.MaxHP, vt.Focus, vt.MaxFocus, vt.Orbs)
	}
	tired := ""
	if v.Perception == nil && v.Turn > 0 {
		tired = "  (tired)"
	}
	return fmt.Sprintf("[%s]  %s  Turn %d  %s%s", v.Name, vitals, v.Turn, v.StageName, tired)
}

// SensesLine shows the sense request for the next action and its cost.
func SensesLine(s component.Senses) string {
	check := func(on bool) string {
		if on {
			return "x"
		}
		return " "
	}
	return fmt.Sprintf("[f]self[%s] [s/S]sight %d [t]touch[%s] [e/E]hearing %d  cost %d",
		check(s.Self), s.Sight, check(s.Touch), s.Hearing, s.Cost())
}

func (r *Renderer) drawHLine(y int, color tcell.Color) {
	w, _ := r.screen.Size()
	style := tcell.StyleDefault.Foreground(color)
	for x := 0; x < w; x++ {
		r.screen.SetContent(x, y, '─', nil, style)
	}
}

// drawText writes text from column x, truncated to fit within width columns.
func (r *Renderer) drawText(x, y, width int, text string, style tcell.Style) {
	text = runewidth.Truncate(strings.ReplaceAll(text, "\n", " "), width-x, "…")
	col := x
	for _, ch := range text {
		r.screen.SetContent(col, y, ch, nil, style)
		col += max(runewidth.RuneWidth(ch), 1)
	}
}
