package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/piece"
)

// GameStats renders event counters collected by a game.Stats listener.
type GameStats struct {
	stats *game.Stats
}

func NewGameStats(stats *game.Stats) *GameStats {
	return &GameStats{stats: stats}
}

func (gs *GameStats) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(320, 380), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(260, 300), imgui.CondOnce)
	if !imgui.BeginV("Game Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	s := gs.stats
	imgui.Text(fmt.Sprintf("Locks: %d", s.Locks))
	imgui.Text(fmt.Sprintf("Rows cleared: %d", s.Rows))
	imgui.Text(fmt.Sprintf("Resets: %d", s.Resets))
	if imgui.Button("Reset counters") {
		s.Reset()
	}

	total := s.TotalSpawns()
	if imgui.TreeNodeStr("Spawns") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SpawnTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Kind")
			imgui.TableSetupColumn("Count")
			imgui.TableHeadersRow()

			for _, kind := range piece.Kinds() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(kind.String())
				imgui.TableNextColumn()
				n := s.Spawns(kind)
				imgui.Text(fmt.Sprintf("%d", n))
				if total > 0 {
					imgui.SameLine()
					imgui.ProgressBarV(float32(n)/float32(total), imgui.NewVec2(-1, 0), "")
				}
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Clears") {
		for size := 1; size <= 4; size++ {
			imgui.BulletText(fmt.Sprintf("%d row(s): %d", size, s.Clears(size)))
		}
		imgui.TreePop()
	}

	imgui.End()
}
