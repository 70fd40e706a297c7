// Package debugui draws Dear ImGui inspection windows for a running game:
// the board, the active piece, event counters and scheduler timings.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/blockfall/loop"
)

// Item holds a Dear ImGui render function called once per frame.
type Item struct {
	Render func()
}

// InputState tracks whether Dear ImGui is consuming mouse or keyboard input.
// Frontends check it before mapping keys to game actions.
type InputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay is a loop.System that defers every item's render function to the
// end of the frame, after queued game actions have been applied.
type Overlay struct {
	Items []Item
	Input InputState
}

// Add registers a window.
func (o *Overlay) Add(render func()) {
	o.Items = append(o.Items, Item{Render: render})
}

func (o *Overlay) Execute(frame *loop.Frame) {
	io := imgui.CurrentIO()
	o.Input.WantCaptureMouse = io.WantCaptureMouse()
	o.Input.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, item := range o.Items {
		frame.Commands.Defer(item.Render)
	}
}
