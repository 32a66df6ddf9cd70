package ws

import (
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/domain/registry"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/shared/types"
)

// RemoteRegion is a region whose bounds are reported by the remote host.
// Visual changes are sent back as messages. Only the session loop touches it.
type RemoteRegion struct {
	id       string
	group    string
	priority int
	bounds   types.Rect
	detached bool
	session  *Session
}

// Bounds returns the last reported bounds
func (r *RemoteRegion) Bounds() (types.Rect, error) {
	if r.detached {
		return types.Rect{}, registry.ErrStaleRegion
	}
	return r.bounds, nil
}

// SetFocused tells the host to show or hide the focus ring
func (r *RemoteRegion) SetFocused(focused bool) {
	r.session.send(Message{Type: TypeFocus, ID: r.id, Active: boolPtr(focused)})
}

// SetActivated tells the host to show or hide the activation pulse
func (r *RemoteRegion) SetActivated(active bool) {
	r.session.send(Message{Type: TypeActivated, ID: r.id, Active: boolPtr(active)})
}

// Activate asks the host to run the region's action
func (r *RemoteRegion) Activate() {
	r.session.send(Message{Type: TypeActivate, ID: r.id})
}

func (r *RemoteRegion) focusable() registry.Focusable {
	return registry.Focusable{
		ID:       r.id,
		Group:    r.group,
		Priority: r.priority,
		Region:   r,
	}
}
