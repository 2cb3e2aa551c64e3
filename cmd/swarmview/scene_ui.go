package main

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// sceneUI is the scene panel: one row per registry scene with buttons to
// make it current, reset it, or remove it. The rows are rebuilt whenever
// the registry's names or current scene change.
type sceneUI struct {
	ui    *ebitenui.UI
	panel *widget.Container
	title *widget.Text
	list  *widget.Container
	face  ebtext.Face

	shown   []string
	current string
}

var (
	panelColor   = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 180}
	buttonColor  = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
	currentColor = color.NRGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 255}
	textColor    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func newSceneUI() *sceneUI {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	title := widget.NewText(
		widget.TextOpts.Text("Scenes", &face, textColor),
	)
	list := newSceneList()
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(panelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionEnd, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(list)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	return &sceneUI{
		ui:    &ebitenui.UI{Container: root},
		panel: panel,
		title: title,
		list:  list,
		face:  face,
	}
}

func newSceneList() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
		)),
	)
}

func (u *sceneUI) setVisible(visible bool) {
	if visible {
		u.panel.GetWidget().Visibility = widget.Visibility_Show
	} else {
		u.panel.GetWidget().Visibility = widget.Visibility_Hide
	}
}

// sync rebuilds the rows when the registry changed since the last call.
func (u *sceneUI) sync(g *Game) {
	names := g.registry.Names()
	current, _ := g.registry.Current()
	if slices.Equal(names, u.shown) && current == u.current {
		return
	}
	u.shown, u.current = names, current

	u.title.Label = fmt.Sprintf("Scenes (%d)", g.registry.Len())
	u.panel.RemoveChild(u.list)
	u.list = newSceneList()
	u.panel.AddChild(u.list)
	for _, name := range names {
		u.list.AddChild(u.row(g, name, name == current))
	}
}

func (u *sceneUI) row(g *Game, name string, current bool) *widget.Container {
	row := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(4),
		)),
	)
	nameColor := buttonColor
	if current {
		nameColor = currentColor
	}
	row.AddChild(u.button(name, nameColor, func() { g.setScene(name) }))
	row.AddChild(u.button("Reset", buttonColor, func() { g.resetScene(name) }))
	row.AddChild(u.button("Remove", buttonColor, func() { g.removeScene(name) }))
	return row
}

func (u *sceneUI) button(label string, c color.NRGBA, onClick func()) *widget.Button {
	img := imageui.NewNineSliceColor(c)
	return widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: img, Pressed: img}),
		widget.ButtonOpts.Text(label, &u.face, &widget.ButtonTextColor{Idle: textColor}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}
