package panel

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"golos/internal/i18n"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// drawRecording рисует индикатор записи, таймер и волну.
func drawRecording(gtx C, samples []float32, elapsed time.Duration, cfg Config) {
	fillBackground(gtx, cfg.BGColor)

	layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx C) D {
						return drawPulsingDot(gtx, elapsed, cfg.DotColor)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
					layout.Rigid(func(gtx C) D {
						return label(gtx, cfg.TextColor, unit.Sp(14), font.Medium, i18n.T("panel_recording"))
					}),
					layout.Flexed(1, func(gtx C) D { return D{} }),
					layout.Rigid(func(gtx C) D {
						return drawTimer(gtx, elapsed, cfg)
					}),
				)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Flexed(1, func(gtx C) D {
				return drawWave(gtx, samples, cfg)
			}),
		)
	})
}

func fillBackground(gtx C, col color.NRGBA) {
	paint.FillShape(gtx.Ops, col, clip.Rect{Max: gtx.Constraints.Max}.Op())
}

func label(gtx C, col color.NRGBA, size unit.Sp, weight font.Weight, text string) D {
	th := material.NewTheme()
	th.Palette.Fg = col
	lbl := material.Label(th, size, text)
	lbl.Font.Weight = weight
	return lbl.Layout(gtx)
}

// drawPulsingDot рисует пульсирующую точку записи.
func drawPulsingDot(gtx C, elapsed time.Duration, col color.NRGBA) D {
	size := gtx.Dp(unit.Dp(10))

	pulse := float32(math.Sin(float64(elapsed.Milliseconds())/200.0)*0.3 + 0.7)
	col.A = uint8(float32(col.A) * pulse)

	circle := clip.Ellipse{Max: image.Pt(size, size)}
	paint.FillShape(gtx.Ops, col, circle.Op(gtx.Ops))

	return D{Size: image.Pt(size, size)}
}

// drawTimer рисует прошедшее время в закруглённой плашке.
func drawTimer(gtx C, elapsed time.Duration, cfg Config) D {
	seconds := int(elapsed.Seconds())
	text := fmt.Sprintf("%d:%02d", seconds/60, seconds%60)

	macro := op.Record(gtx.Ops)
	dims := layout.Inset{
		Top: unit.Dp(4), Bottom: unit.Dp(4),
		Left: unit.Dp(10), Right: unit.Dp(10),
	}.Layout(gtx, func(gtx C) D {
		return label(gtx, cfg.TextColor, unit.Sp(13), font.Bold, text)
	})
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(6))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	call.Add(gtx.Ops)
	return dims
}

// drawWave рисует осциллограмму последних сэмплов.
func drawWave(gtx C, samples []float32, cfg Config) D {
	rr := gtx.Dp(unit.Dp(8))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: gtx.Constraints.Max},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx C) D {
		width := float32(gtx.Constraints.Max.X)
		height := float32(gtx.Constraints.Max.Y)
		centerY := height / 2

		centerLine := clip.Rect{
			Min: image.Pt(0, int(centerY)),
			Max: image.Pt(int(width), int(centerY)+1),
		}
		paint.FillShape(gtx.Ops, color.NRGBA{R: 60, G: 60, B: 65, A: 255}, centerLine.Op())

		if len(samples) < 2 {
			return D{Size: gtx.Constraints.Max}
		}

		display := samples
		if max := int(width); len(samples) > max {
			display = samples[len(samples)-max:]
		}

		var path clip.Path
		path.Begin(gtx.Ops)
		step := width / float32(len(display))
		for i, s := range display {
			x := float32(i) * step
			y := centerY - s*centerY*0.85
			if i == 0 {
				path.MoveTo(f32.Pt(x, y))
			} else {
				path.LineTo(f32.Pt(x, y))
			}
		}
		paint.FillShape(gtx.Ops, cfg.WaveColor, clip.Stroke{Path: path.End(), Width: 2}.Op())

		return D{Size: gtx.Constraints.Max}
	})
}

// drawBusy рисует спиннер с подписью этапа обработки.
func drawBusy(gtx C, elapsed time.Duration, cfg Config, title string) {
	fillBackground(gtx, cfg.BGColor)

	layout.Center.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				return drawSpinner(gtx, elapsed, cfg.AccentColor)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
			layout.Rigid(func(gtx C) D {
				return label(gtx, cfg.TextColor, unit.Sp(15), font.Medium, title)
			}),
		)
	})
}

// drawSpinner рисует вращающееся кольцо из точек.
func drawSpinner(gtx C, elapsed time.Duration, col color.NRGBA) D {
	size := gtx.Dp(unit.Dp(36))
	thickness := gtx.Dp(unit.Dp(3))

	rotation := float64(elapsed.Milliseconds()) / 800.0 * 2 * math.Pi
	center := image.Pt(size/2, size/2)
	radius := size/2 - thickness

	const numDots = 12
	for i := 0; i < numDots; i++ {
		angle := rotation + float64(i)*2*math.Pi/numDots
		x := center.X + int(float64(radius)*math.Cos(angle))
		y := center.Y + int(float64(radius)*math.Sin(angle))

		alpha := uint8(255 - i*20)
		if alpha < 40 {
			alpha = 40
		}
		dotCol := color.NRGBA{R: col.R, G: col.G, B: col.B, A: alpha}

		r := thickness / 2
		dot := clip.Ellipse{
			Min: image.Pt(x-r, y-r),
			Max: image.Pt(x+r, y+r),
		}
		paint.FillShape(gtx.Ops, dotCol, dot.Op(gtx.Ops))
	}

	return D{Size: image.Pt(size, size)}
}

// drawResult рисует редактируемый результат с кнопками действий.
func drawResult(gtx C, cfg Config, editor *widget.Editor, insertBtn, copyBtn, closeBtn *widget.Clickable) {
	fillBackground(gtx, cfg.BGColor)

	okColor := color.NRGBA{R: 80, G: 200, B: 120, A: 255}

	layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx C) D {
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
					layout.Rigid(func(gtx C) D {
						return drawCheckIcon(gtx, okColor)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(10)}.Layout),
					layout.Rigid(func(gtx C) D {
						return label(gtx, cfg.TextColor, unit.Sp(18), font.Medium, i18n.T("panel_result"))
					}),
					layout.Flexed(1, func(gtx C) D { return D{} }),
					layout.Rigid(func(gtx C) D {
						return drawCloseButton(gtx, closeBtn, cfg.DimColor)
					}),
				)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Flexed(1, func(gtx C) D {
				return drawEditor(gtx, cfg, editor)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
			layout.Rigid(func(gtx C) D {
				return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceEvenly}.Layout(gtx,
					layout.Flexed(1, func(gtx C) D {
						return drawButton(gtx, insertBtn, okColor, i18n.T("panel_insert"))
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(10)}.Layout),
					layout.Flexed(1, func(gtx C) D {
						return drawButton(gtx, copyBtn, cfg.AccentColor, i18n.T("panel_copy"))
					}),
				)
			}),
		)
	})
}

// drawCheckIcon рисует галочку в круге.
func drawCheckIcon(gtx C, col color.NRGBA) D {
	size := gtx.Dp(unit.Dp(20))

	circle := clip.Ellipse{Max: image.Pt(size, size)}
	paint.FillShape(gtx.Ops, col, circle.Op(gtx.Ops))

	var path clip.Path
	path.Begin(gtx.Ops)
	s := float32(size)
	path.MoveTo(f32.Pt(s*0.25, s*0.5))
	path.LineTo(f32.Pt(s*0.4, s*0.7))
	path.LineTo(f32.Pt(s*0.75, s*0.3))

	paint.FillShape(gtx.Ops, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, clip.Stroke{
		Path:  path.End(),
		Width: float32(gtx.Dp(unit.Dp(2))),
	}.Op())

	return D{Size: image.Pt(size, size)}
}

// drawCloseButton рисует крестик.
func drawCloseButton(gtx C, btn *widget.Clickable, col color.NRGBA) D {
	return btn.Layout(gtx, func(gtx C) D {
		size := gtx.Dp(unit.Dp(24))
		if btn.Hovered() {
			col = color.NRGBA{R: 255, G: 100, B: 100, A: 255}
		}

		s := float32(size)
		margin := s * 0.25
		width := float32(gtx.Dp(unit.Dp(2)))

		var line1 clip.Path
		line1.Begin(gtx.Ops)
		line1.MoveTo(f32.Pt(margin, margin))
		line1.LineTo(f32.Pt(s-margin, s-margin))
		paint.FillShape(gtx.Ops, col, clip.Stroke{Path: line1.End(), Width: width}.Op())

		var line2 clip.Path
		line2.Begin(gtx.Ops)
		line2.MoveTo(f32.Pt(s-margin, margin))
		line2.LineTo(f32.Pt(margin, s-margin))
		paint.FillShape(gtx.Ops, col, clip.Stroke{Path: line2.End(), Width: width}.Op())

		return D{Size: image.Pt(size, size)}
	})
}

// drawEditor рисует панель с редактируемым текстом.
func drawEditor(gtx C, cfg Config, editor *widget.Editor) D {
	rr := gtx.Dp(unit.Dp(10))
	rect := clip.RRect{
		Rect: image.Rectangle{Max: gtx.Constraints.Max},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}
	paint.FillShape(gtx.Ops, cfg.PanelColor, rect.Op(gtx.Ops))

	return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx C) D {
		th := material.NewTheme()
		th.Palette.Fg = cfg.TextColor

		ed := material.Editor(th, editor, "")
		ed.TextSize = unit.Sp(16)
		ed.Color = cfg.TextColor
		ed.HintColor = cfg.DimColor
		return ed.Layout(gtx)
	})
}

// drawButton рисует кнопку действия.
func drawButton(gtx C, btn *widget.Clickable, bg color.NRGBA, text string) D {
	return btn.Layout(gtx, func(gtx C) D {
		cur := bg
		if btn.Hovered() {
			cur = color.NRGBA{
				R: uint8(float32(bg.R) * 0.85),
				G: uint8(float32(bg.G) * 0.85),
				B: uint8(float32(bg.B) * 0.85),
				A: bg.A,
			}
		}

		macro := op.Record(gtx.Ops)
		dims := layout.Inset{
			Top: unit.Dp(10), Bottom: unit.Dp(10),
			Left: unit.Dp(12), Right: unit.Dp(12),
		}.Layout(gtx, func(gtx C) D {
			return layout.Center.Layout(gtx, func(gtx C) D {
				return label(gtx, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, unit.Sp(14), font.Medium, text)
			})
		})
		call := macro.Stop()

		rr := gtx.Dp(unit.Dp(8))
		rect := clip.RRect{
			Rect: image.Rectangle{Max: image.Pt(gtx.Constraints.Max.X, dims.Size.Y)},
			NE:   rr, NW: rr, SE: rr, SW: rr,
		}
		paint.FillShape(gtx.Ops, cur, rect.Op(gtx.Ops))

		call.Add(gtx.Ops)
		return D{Size: image.Pt(gtx.Constraints.Max.X, dims.Size.Y)}
	})
}
