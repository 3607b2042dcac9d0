package main

import (
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/go-gl/mathgl/mgl32"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/prefabs"
	"golang.org/x/image/font/basicfont"
)

const (
	buttonWidth  = 240
	buttonHeight = 56
)

// gameUI holds the loading screen, the main menu play button and the
// in-game overlay. Only the widgets of the current state are visible.
type gameUI struct {
	ui *ebitenui.UI

	face     *ebtext.Face
	fontSize float64

	title  *widget.Text
	status *widget.Text
	play   *widget.Button
	mute   *widget.Button
	help   *widget.Text

	mutedLabel   string
	playingLabel string
	muted        bool
}

func newGameUI(spec prefabs.UISpec, theme prefabs.ThemeSpec, onPlay, onMute func()) *gameUI {
	// the bitmap face is replaced once the font asset has loaded
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	g := &gameUI{
		face:         &face,
		fontSize:     spec.FontSize,
		mutedLabel:   theme.MutedLabel,
		playingLabel: theme.PlayingLabel,
	}

	textColor := nrgba(prefabs.MustColor(spec.TextColor))
	btnImage := &widget.ButtonImage{
		Idle:    imageui.NewNineSliceColor(nrgba(prefabs.MustColor(spec.ButtonColor))),
		Hover:   imageui.NewNineSliceColor(nrgba(prefabs.MustColor(spec.HoverColor))),
		Pressed: imageui.NewNineSliceColor(nrgba(prefabs.MustColor(spec.HoverColor))),
	}
	btnTextColor := &widget.ButtonTextColor{Idle: textColor}

	g.title = widget.NewText(
		widget.TextOpts.Text(spec.Title, g.face, textColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	g.status = widget.NewText(
		widget.TextOpts.Text("", g.face, textColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	g.play = widget.NewButton(
		widget.ButtonOpts.Image(btnImage),
		widget.ButtonOpts.Text(spec.PlayLabel, g.face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}),
			widget.WidgetOpts.MinSize(buttonWidth, buttonHeight),
		),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onPlay != nil {
				onPlay()
			}
		}),
	)

	center := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(20),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	center.AddChild(g.title)
	center.AddChild(g.status)
	center.AddChild(g.play)

	g.mute = widget.NewButton(
		widget.ButtonOpts.Image(btnImage),
		widget.ButtonOpts.Text(theme.PlayingLabel, g.face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
			widget.WidgetOpts.MinSize(buttonWidth, buttonHeight),
		),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onMute != nil {
				onMute()
			}
		}),
	)
	g.help = widget.NewText(
		widget.TextOpts.Text(spec.ControlsHelp, g.face, textColor),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
			HorizontalPosition: widget.AnchorLayoutPositionStart,
			VerticalPosition:   widget.AnchorLayoutPositionEnd,
		})),
	)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(common.BaseWidth, common.BaseHeight)),
	)
	root.AddChild(center)
	root.AddChild(g.mute)
	root.AddChild(g.help)

	g.ui = &ebitenui.UI{Container: root}
	return g
}

// setFont swaps every widget onto the loaded font.
func (g *gameUI) setFont(src *ebtext.GoTextFaceSource) {
	if src == nil {
		return
	}
	size := g.fontSize
	if size <= 0 {
		size = 24
	}
	*g.face = &ebtext.GoTextFace{Source: src, Size: size}
}

func (g *gameUI) showLoading() {
	show(g.title, true)
	show(g.status, true)
	show(g.play, false)
	show(g.mute, false)
	show(g.help, false)
}

func (g *gameUI) setPending(names []string) {
	if t := g.status; t != nil {
		t.Label = ""
		if len(names) > 0 {
			t.Label = "loading " + strings.Join(names, ", ")
		}
	}
}

func (g *gameUI) showMenu() {
	show(g.title, true)
	show(g.status, false)
	show(g.play, true)
	show(g.mute, false)
	show(g.help, false)
}

func (g *gameUI) showRunning() {
	show(g.title, false)
	show(g.status, false)
	show(g.play, false)
	show(g.mute, true)
	show(g.help, true)
}

func (g *gameUI) setMuted(muted bool) {
	if muted == g.muted {
		return
	}
	g.muted = muted
	label := g.playingLabel
	if muted {
		label = g.mutedLabel
	}
	if text := g.mute.Text(); text != nil {
		text.Label = label
	}
}

type widgetHolder interface {
	GetWidget() *widget.Widget
}

func show(w widgetHolder, visible bool) {
	if visible {
		w.GetWidget().Visibility = widget.Visibility_Show
		return
	}
	w.GetWidget().Visibility = widget.Visibility_Hide
}

func nrgba(c mgl32.Vec3) color.NRGBA {
	to8 := func(v float32) uint8 { return uint8(common.Clamp(v, 0, 1)*255 + 0.5) }
	return color.NRGBA{R: to8(c.X()), G: to8(c.Y()), B: to8(c.Z()), A: 0xff}
}
