package loop

// System is a behavior run once per frame. Systems may keep state between
// frames in their own fields.
type System interface {
	Execute(frame *Frame)
}
