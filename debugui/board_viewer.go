package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/loop"
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/render"
)

const viewerCell = 12

// BoardViewer shows a miniature of the board, the active piece state and
// buttons that queue actions or force a spawn.
type BoardViewer struct {
	scheduler *loop.Scheduler
	turns     int32
}

func NewBoardViewer(scheduler *loop.Scheduler) *BoardViewer {
	return &BoardViewer{scheduler: scheduler}
}

func (bv *BoardViewer) Render() {
	g := bv.scheduler.Game()
	b := g.Board()
	active := g.Active()

	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(300, 520), imgui.CondOnce)
	if !imgui.BeginV("Board", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Size: %dx%d  Occupied: %d", b.Width(), b.Height(), b.Occupied()))
	imgui.Text(fmt.Sprintf("Piece: %s (%s)", active.Kind, active.Color))
	imgui.Text(fmt.Sprintf("Origin: (%d, %d)  Rotation: %d", active.X, active.Y, active.Rotation))
	imgui.Text(fmt.Sprintf("Extent: %dx%d", active.Width, active.Height))

	imgui.Separator()
	for i, a := range input.Actions() {
		if i > 0 {
			imgui.SameLine()
		}
		if imgui.Button(a.String()) {
			bv.scheduler.Queue(a)
		}
	}

	imgui.SetNextItemWidth(80)
	imgui.InputInt("turns", &bv.turns)
	for i, kind := range piece.Kinds() {
		if i > 0 {
			imgui.SameLine()
		}
		if imgui.Button(kind.String()) {
			g.SpawnKind(kind, int(bv.turns))
		}
	}

	imgui.Separator()
	drawList := imgui.WindowDrawList()
	origin := imgui.CursorScreenPos()
	for sy, row := range render.Compose(b, active) {
		for x, c := range row {
			lo := imgui.NewVec2(origin.X+float32(x*viewerCell), origin.Y+float32(sy*viewerCell))
			hi := imgui.NewVec2(lo.X+viewerCell-1, lo.Y+viewerCell-1)
			drawList.AddRectFilled(lo, hi, imgui.ColorU32Vec4(cellColor(c)))
		}
	}

	imgui.End()
}

func cellColor(c piece.Color) imgui.Vec4 {
	if c == piece.ColorNone {
		return imgui.NewVec4(0.3, 0.3, 0.3, 1.0)
	}
	rgba := c.RGBA()
	return imgui.NewVec4(float32(rgba.R)/255, float32(rgba.G)/255, float32(rgba.B)/255, 1.0)
}
