package hub

import "encoding/json"

// Wire frames for the hub websocket protocol. Every command carries a
// client-chosen id; the hub answers with a result frame echoing that id.
// Subscription events reuse the id of the subscribe command.

type commandFrame struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	// AreaID is raw so a clear can serialize as an explicit null; omitting
	// the field means "leave the assignment alone" on the hub side.
	EntityID    string          `json:"entity_id,omitempty"`
	AreaID      json.RawMessage `json:"area_id,omitempty"`
	EventType   string          `json:"event_type,omitempty"`
	Domain      string          `json:"domain,omitempty"`
	Service     string          `json:"service,omitempty"`
	ServiceData json.RawMessage `json:"service_data,omitempty"`
}

type serverFrame struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *serverError    `json:"error"`
	Event   json.RawMessage `json:"event"`
}

type serverError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type authFrame struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token,omitempty"`
}

const (
	frameAuthRequired = "auth_required"
	frameAuthOK       = "auth_ok"
	frameAuthInvalid  = "auth_invalid"
	frameResult       = "result"
	frameEvent        = "event"
)

// Registry payloads returned by the hub list commands.

type stateRow struct {
	EntityID   string `json:"entity_id"`
	State      string `json:"state"`
	Attributes struct {
		FriendlyName string `json:"friendly_name"`
	} `json:"attributes"`
}

type entityRow struct {
	EntityID string   `json:"entity_id"`
	Name     string   `json:"name"`
	AreaID   string   `json:"area_id"`
	Labels   []string `json:"labels"`
}

type areaRow struct {
	AreaID string `json:"area_id"`
	Name   string `json:"name"`
}

type labelRow struct {
	LabelID string `json:"label_id"`
	Name    string `json:"name"`
}
