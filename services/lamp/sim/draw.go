package sim

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"moodlamp-go/types"
)

const (
	pixelWidth = 4 // cells per pixel
	barWidth   = 32
	originX    = 2
)

// Screen rows.
const (
	rowTitle = iota
	_
	rowStrip
	rowStrip2
	rowValues
	_
	rowIndicator
	rowMode
	rowWiper
	rowButton
	rowStatus
	rowStats
	_
	rowHelp
)

var helpText = "space tap  h hold  g glitch  ←/→ wiper  pgup/pgdn coarse  f fail tx  q quit"

// Draw renders v onto s. It does not call Show.
func Draw(s tcell.Screen, v View) {
	s.Clear()
	text(s, originX, rowTitle, tcell.StyleDefault.Bold(true), "moodlamp simulator")

	for i, px := range v.Pixels {
		st := tcell.StyleDefault.Background(displayColor(px))
		x := originX + i*(pixelWidth+1)
		for dx := 0; dx < pixelWidth; dx++ {
			s.SetContent(x+dx, rowStrip, ' ', nil, st)
			s.SetContent(x+dx, rowStrip2, ' ', nil, st)
		}
	}
	p := v.Pixels[0]
	text(s, originX, rowValues, tcell.StyleDefault,
		fmt.Sprintf("R %3d  G %3d  B %3d  W %3d", p.R, p.G, p.B, p.W))

	lv := int32(v.Indicator)
	text(s, originX, rowIndicator, tcell.StyleDefault, "status")
	s.SetContent(originX+8, rowIndicator, '●', nil,
		tcell.StyleDefault.Foreground(tcell.NewRGBColor(lv, lv, lv)))
	text(s, originX+10, rowIndicator, tcell.StyleDefault, fmt.Sprintf("%3d", v.Indicator))

	text(s, originX, rowMode, tcell.StyleDefault,
		fmt.Sprintf("mode   %d %-10s  lamp %s/%s", v.Mode.Mode, v.Mode.Name, v.State.Level, v.State.Status))

	text(s, originX, rowWiper, tcell.StyleDefault, "wiper  "+bar(v.Wiper)+fmt.Sprintf(" %4d", v.Wiper))

	btn := "button " + pressedLabel(v.Pressed)
	if v.Button != nil {
		btn += fmt.Sprintf("  last %s (%d/%d)", v.Button.Outcome, v.Button.Pressed, v.Button.Window)
	}
	text(s, originX, rowButton, tcell.StyleDefault, btn)

	link := string(v.Status.Link)
	if link == "" {
		link = "-"
	}
	stStyle := tcell.StyleDefault
	if v.Status.Link == types.LinkDegraded {
		stStyle = stStyle.Foreground(tcell.ColorYellow)
	}
	if v.Status.Error != "" {
		link += " (" + v.Status.Error + ")"
	}
	text(s, originX, rowStatus, stStyle, "link   "+link)

	st := v.Stats
	text(s, originX, rowStats, tcell.StyleDefault, fmt.Sprintf(
		"tick %d  frames %d  overruns %d  tx_err %d  irq_drops %d  ok %d  rej %d",
		st.Tick, st.Frames, st.Overruns, st.TxErrors, st.IRQDrops, st.Confirmed, st.Rejected))

	text(s, originX, rowHelp, tcell.StyleDefault.Dim(true), helpText)
}

// displayColor folds the white channel into RGB for the terminal.
func displayColor(px types.RGBW) tcell.Color {
	add := func(c, w uint8) int32 {
		v := int32(c) + int32(w)
		if v > 255 {
			v = 255
		}
		return v
	}
	return tcell.NewRGBColor(add(px.R, px.W), add(px.G, px.W), add(px.B, px.W))
}

func bar(raw uint16) string {
	n := int(raw) * barWidth / 1024
	b := make([]rune, barWidth)
	for i := range b {
		if i < n {
			b[i] = '█'
		} else {
			b[i] = '·'
		}
	}
	return string(b)
}

func pressedLabel(p bool) string {
	if p {
		return "down"
	}
	return "up"
}

func text(s tcell.Screen, x, y int, st tcell.Style, str string) {
	for _, r := range str {
		s.SetContent(x, y, r, nil, st)
		x++
	}
}
