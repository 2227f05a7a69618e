package viewer

import (
	"github.com/spaghettifunk/houseview/engine/core"
)

func (v *Viewer) onClick(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	x, y := float32(me.PosX), float32(me.PosY)
	if v.overlay.HandleClick(x, y) {
		return true
	}
	v.Pick(x, y)
	return true
}

func (v *Viewer) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		v.DismissOverlays()
		return true
	}
	return false
}

func (v *Viewer) onButton(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	pressed := context.Type == core.EVENT_CODE_BUTTON_PRESSED
	switch me.Button {
	case core.BUTTON_LEFT:
		v.rotating = pressed
	case core.BUTTON_RIGHT, core.BUTTON_MIDDLE:
		v.panning = pressed
	}
	v.lastX, v.lastY = me.PosX, me.PosY
	return false
}

func (v *Viewer) onMouseMove(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	dx, dy := float32(me.PosX-v.lastX), float32(me.PosY-v.lastY)
	v.lastX, v.lastY = me.PosX, me.PosY
	switch {
	case v.rotating:
		v.controls.Rotate(dx, dy)
	case v.panning:
		v.controls.Pan(dx, dy)
	}
	return false
}

func (v *Viewer) onWheel(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok {
		return false
	}
	v.controls.Dolly(float32(me.Scroll))
	return true
}
