package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-lifeweeks/internal/config"
	"github.com/tartampluch/go-lifeweeks/internal/engine"
)

var (
	colorBirth   = color.NRGBA{R: 0x22, G: 0xC5, B: 0x5E, A: 0xFF}
	colorDeath   = color.NRGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	colorLived   = color.NRGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xFF}
	colorFuture  = color.NRGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
	colorCurrent = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
)

// cellColor returns the fill of a week. Birth and death win over the lived state.
func cellColor(rec engine.WeekRecord) color.Color {
	switch {
	case rec.IsBirth:
		return colorBirth
	case rec.IsDeath:
		return colorDeath
	case rec.IsLived:
		return colorLived
	default:
		return colorFuture
	}
}

// weekCell is one square of the grid. It reports hover and tap so the window can show a tooltip.
type weekCell struct {
	widget.BaseWidget

	rect    *canvas.Rectangle
	record  engine.WeekRecord
	hovered bool

	onHover func(rec engine.WeekRecord)
	onLeave func()
}

var (
	_ fyne.Tappable     = (*weekCell)(nil)
	_ desktop.Hoverable = (*weekCell)(nil)
)

func newWeekCell(onHover func(engine.WeekRecord), onLeave func()) *weekCell {
	c := &weekCell{
		rect:    canvas.NewRectangle(colorFuture),
		onHover: onHover,
		onLeave: onLeave,
	}
	c.rect.SetMinSize(fyne.NewSquareSize(config.GridCellSize))
	c.ExtendBaseWidget(c)
	return c
}

func (c *weekCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(c.rect)
}

func (c *weekCell) setRecord(rec engine.WeekRecord) {
	c.record = rec
	c.paint()
}

func (c *weekCell) paint() {
	c.rect.FillColor = cellColor(c.record)
	if c.record.IsCurrentWeek || c.hovered {
		c.rect.StrokeColor = colorCurrent
		c.rect.StrokeWidth = config.GridStrokeWidth
	} else {
		c.rect.StrokeColor = color.Transparent
		c.rect.StrokeWidth = 0
	}
	c.rect.Refresh()
}

// Tapped shows the tooltip on touch devices, where there is no hover.
func (c *weekCell) Tapped(*fyne.PointEvent) {
	if c.onHover != nil {
		c.onHover(c.record)
	}
}

func (c *weekCell) MouseIn(*desktop.MouseEvent) {
	c.hovered = true
	c.paint()
	if c.onHover != nil {
		c.onHover(c.record)
	}
}

func (c *weekCell) MouseMoved(*desktop.MouseEvent) {}

func (c *weekCell) MouseOut() {
	c.hovered = false
	c.paint()
	if c.onLeave != nil {
		c.onLeave()
	}
}

// weekGridLayout places one year label followed by WeeksPerYear cells on each row.
type weekGridLayout struct{}

func (weekGridLayout) pitch() float32 {
	return config.GridCellSize + config.GridCellGap
}

func (l weekGridLayout) Layout(objects []fyne.CanvasObject, _ fyne.Size) {
	perRow := config.WeeksPerYear + 1
	cell := fyne.NewSquareSize(config.GridCellSize)

	for i, o := range objects {
		row, col := i/perRow, i%perRow
		y := float32(row) * l.pitch()
		if col == 0 {
			o.Move(fyne.NewPos(0, y))
			o.Resize(fyne.NewSize(config.YearLabelWidth, config.GridCellSize))
			continue
		}
		x := config.YearLabelWidth + config.GridCellGap + float32(col-1)*l.pitch()
		o.Move(fyne.NewPos(x, y))
		o.Resize(cell)
	}
}

func (l weekGridLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	rows := (len(objects) + config.WeeksPerYear) / (config.WeeksPerYear + 1)
	if rows == 0 {
		return fyne.NewSize(0, 0)
	}
	w := config.YearLabelWidth + config.GridCellGap + config.WeeksPerYear*l.pitch() - config.GridCellGap
	h := float32(rows)*l.pitch() - config.GridCellGap
	return fyne.NewSize(w, h)
}

// weekGrid is the LifeExpectancyYears x WeeksPerYear board. Its objects are built once and recoloured.
type weekGrid struct {
	container *fyne.Container
	years     []*canvas.Text
	cells     [][]*weekCell
}

func newWeekGrid(onHover func(engine.WeekRecord), onLeave func()) *weekGrid {
	g := &weekGrid{
		years: make([]*canvas.Text, config.LifeExpectancyYears),
		cells: make([][]*weekCell, config.LifeExpectancyYears),
	}

	objects := make([]fyne.CanvasObject, 0, config.LifeExpectancyYears*(config.WeeksPerYear+1))
	for y := 0; y < config.LifeExpectancyYears; y++ {
		label := canvas.NewText("", theme.Color(theme.ColorNamePlaceHolder))
		label.TextSize = theme.CaptionTextSize()
		label.Alignment = fyne.TextAlignTrailing
		g.years[y] = label
		objects = append(objects, label)

		g.cells[y] = make([]*weekCell, config.WeeksPerYear)
		for w := 0; w < config.WeeksPerYear; w++ {
			c := newWeekCell(onHover, onLeave)
			g.cells[y][w] = c
			objects = append(objects, c)
		}
	}

	g.container = container.New(weekGridLayout{}, objects...)
	return g
}

// setRows recolours the board from the grouped week records.
func (g *weekGrid) setRows(rows []engine.YearRow) {
	for r, row := range rows {
		if r >= len(g.cells) {
			break
		}
		g.years[r].Text = strconv.Itoa(row.Year)
		g.years[r].Refresh()
		for w, rec := range row.Weeks {
			if w >= len(g.cells[r]) {
				break
			}
			g.cells[r][w].setRecord(rec)
		}
	}
}

// weekTooltip describes one week: birth, end of life expectancy, or its number,
// plus the days lived in it and whether it is the current week.
func (app *LifeWeeksApp) weekTooltip(rec engine.WeekRecord) string {
	var text string
	switch {
	case rec.IsBirth:
		text = app.msgOr(config.TKeyTipBirth, nil, config.FallbackTipBirth)
	case rec.IsDeath:
		text = app.msgOr(config.TKeyTipDeath, nil, config.FallbackTipDeath)
	default:
		text = app.msgOr(config.TKeyTipWeek,
			map[string]any{"Week": rec.WeekNumber},
			fmt.Sprintf(config.FallbackTipWeek, rec.WeekNumber))
	}

	if rec.IsLived {
		text += app.msgOr(config.TKeyTipDaysLived,
			map[string]any{"Count": app.formatCount(rec.DaysLived)},
			fmt.Sprintf(config.FallbackTipDays, rec.DaysLived))
	}
	if rec.IsCurrentWeek {
		text += app.msgOr(config.TKeyTipCurrent, nil, config.FallbackTipCurrent)
	}
	return text
}
