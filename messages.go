package pagebind

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Host message types. The host drives the component with a synchronous
// request/response exchange; the transport carrying the messages is an
// external collaborator (see Bridge for the websocket one).
const (
	MessageToggleEditing = "TOGGLE_EDITING_MODE"
	MessageGetChanges    = "GET_CHANGES"
)

// Request is one host message.
type Request struct {
	Type    string `json:"type" validate:"required,oneof=TOGGLE_EDITING_MODE GET_CHANGES"`
	Enabled bool   `json:"enabled"`
}

// Response is the synchronous reply to a Request.
type Response struct {
	Success bool       `json:"success"`
	Error   string     `json:"error,omitempty"`
	Changes *ChangeSet `json:"changes,omitempty"`
}

var validateRequests = validator.New()

// HandleMessage dispatches one host request. Handling is synchronous;
// overlapping requests are processed independently.
func (c *Component) HandleMessage(req Request) Response {
	if err := validateRequests.Struct(req); err != nil {
		return Response{Error: fmt.Sprintf("invalid request: %v", err)}
	}

	switch req.Type {
	case MessageToggleEditing:
		var err error
		if req.Enabled {
			err = c.EnableEditing()
		} else {
			err = c.DisableEditing()
		}
		if err != nil {
			return Response{Error: err.Error()}
		}
		return Response{Success: true}

	case MessageGetChanges:
		changes, err := c.GetChanges()
		if err != nil {
			return Response{Error: err.Error()}
		}
		return Response{Success: true, Changes: &changes}

	default:
		return Response{Error: fmt.Sprintf("unknown message type %q", req.Type)}
	}
}
