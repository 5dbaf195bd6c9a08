package voidos

// ActiveLayer tracks input focus and routes host input events into
// per-task messages.
type ActiveLayer struct {
	manager    *LayerManager
	mouseLayer uint32
	active     uint32
	layerTasks map[uint32]uint64
	dragTarget uint32
	dragging   bool
}

// NewActiveLayer creates a router over manager. mouseLayerID identifies the
// layer used to render the mouse cursor, which is always excluded from
// hit-testing against itself.
func NewActiveLayer(manager *LayerManager, mouseLayerID uint32) *ActiveLayer {
	return &ActiveLayer{manager: manager, mouseLayer: mouseLayerID, layerTasks: make(map[uint32]uint64)}
}

// SetLayerTask records which task owns layerID, used to route MouseMove,
// MouseButton, and WindowActive messages.
func (a *ActiveLayer) SetLayerTask(layerID uint32, taskID uint64) {
	a.layerTasks[layerID] = taskID
}

// Activate focuses layerID. If it is already active this is a no-op;
// otherwise the previously active layer is deactivated (its title bar
// redrawn), the new one activated, and — if nonzero — raised to sit
// directly under the mouse cursor layer.
func (a *ActiveLayer) Activate(tasks *TaskManager, layerID uint32) error {
	if layerID == a.active {
		return nil
	}
	if a.active != 0 {
		if l := a.findByID(a.active); l != nil {
			if w, ok := l.Window().(interface{ Deactivate() }); ok {
				w.Deactivate()
			}
			if err := a.manager.DrawLayer(a.active); err != nil {
				return err
			}
		}
		if taskID, ok := a.layerTasks[a.active]; ok && tasks != nil {
			tasks.SendMessage(taskID, Message{Kind: MessageWindowActive, Active: false})
		}
	}

	a.active = layerID
	if layerID == 0 {
		return nil
	}

	l := a.findByID(layerID)
	if l == nil {
		return ErrNoSuchTask
	}
	if w, ok := l.Window().(interface{ Activate() }); ok {
		w.Activate()
	}
	a.manager.UpDown(layerID, a.manager.GetHeight(a.mouseLayer)-1)
	if err := a.manager.DrawLayer(layerID); err != nil {
		return err
	}
	if taskID, ok := a.layerTasks[layerID]; ok && tasks != nil {
		return tasks.SendMessage(taskID, Message{Kind: MessageWindowActive, Active: true})
	}
	return nil
}

func (a *ActiveLayer) findByID(id uint32) *Layer {
	for _, l := range a.manager.layers {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

// MouseMove updates the mouse cursor layer's position and, when no drag is
// in progress, routes a MouseMove message to the task owning the active
// layer.
func (a *ActiveLayer) MouseMove(tasks *TaskManager, pos, delta Vec2, buttons byte) error {
	if err := a.manager.Move(a.mouseLayer, pos); err != nil {
		return err
	}
	if a.dragging {
		return a.manager.MoveRelative(a.dragTarget, delta)
	}
	if taskID, ok := a.layerTasks[a.active]; ok && tasks != nil {
		return tasks.SendMessage(taskID, Message{
			Kind: MessageMouseMove, X: pos.X, Y: pos.Y, DX: delta.X, DY: delta.Y, Buttons: buttons,
		})
	}
	return nil
}

// MouseButton handles a left-button transition at pos. On press, it
// hit-tests via FindLayerByPosition (excluding the cursor layer); a
// draggable hit starts a drag and takes focus, any other press clears
// focus (Activate(0)). On release, any in-progress drag ends.
func (a *ActiveLayer) MouseButton(tasks *TaskManager, pos Vec2, pressed bool) error {
	if !pressed {
		a.dragging = false
		return nil
	}
	hit := a.manager.FindLayerByPosition(pos, a.mouseLayer)
	if hit != nil && hit.Draggable() {
		a.dragging = true
		a.dragTarget = hit.ID()
		return a.Activate(tasks, hit.ID())
	}
	return a.Activate(tasks, 0)
}

// Active returns the currently focused layer id, or 0 if none.
func (a *ActiveLayer) Active() uint32 { return a.active }
