package hass

import "encoding/json"

// Message types used by the Home Assistant WebSocket API.
const (
	msgTypeAuthRequired = "auth_required"
	msgTypeAuth         = "auth"
	msgTypeAuthOK       = "auth_ok"
	msgTypeAuthInvalid  = "auth_invalid"
	msgTypeResult       = "result"
	msgTypeEvent        = "event"

	cmdGetStates          = "get_states"
	cmdEntityRegistryList = "config/entity_registry/list"
	cmdDeviceRegistryList = "config/device_registry/list"
	cmdAreaRegistryList   = "config/area_registry/list"
	cmdSubscribeEvents    = "subscribe_events"
)

// Event types the bridge subscribes to. State changes feed the live
// cache; registry updates force a full resync.
const (
	eventStateChanged          = "state_changed"
	eventEntityRegistryUpdated = "entity_registry_updated"
	eventDeviceRegistryUpdated = "device_registry_updated"
	eventAreaRegistryUpdated   = "area_registry_updated"
)

// serverMessage is the envelope for everything the server sends.
// Result and Event stay raw until the type is known.
type serverMessage struct {
	ID      int64           `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success bool            `json:"success,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Event   json.RawMessage `json:"event,omitempty"`
	Error   *serverError    `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// serverError carries a failed command result.
type serverError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// authMessage is the client half of the authentication handshake.
type authMessage struct {
	Type        string `json:"type"`
	AccessToken string `json:"access_token"`
}

// commandMessage is a client request. EventType is only set for
// subscribe_events commands.
type commandMessage struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	EventType string `json:"event_type,omitempty"`
}

// stateObject is one entry in a get_states result, and the new_state of
// a state_changed event.
type stateObject struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// entityRegistryEntry is one entry in a config/entity_registry/list result.
type entityRegistryEntry struct {
	EntityID   string `json:"entity_id"`
	DeviceID   string `json:"device_id"`
	Platform   string `json:"platform"`
	DisabledBy string `json:"disabled_by"`
}

// deviceRegistryEntry is one entry in a config/device_registry/list result.
type deviceRegistryEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NameByUser string `json:"name_by_user"`
	AreaID     string `json:"area_id"`
}

// areaRegistryEntry is one entry in a config/area_registry/list result.
type areaRegistryEntry struct {
	AreaID string `json:"area_id"`
	Name   string `json:"name"`
}

// eventEnvelope is the inner payload of an event message.
type eventEnvelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// stateChangedData is the data of a state_changed event. NewState is
// nil when an entity is removed.
type stateChangedData struct {
	EntityID string       `json:"entity_id"`
	NewState *stateObject `json:"new_state"`
}

// DisplayName returns the user-assigned device name, falling back to
// the integration-provided one.
func (d deviceRegistryEntry) DisplayName() string {
	if d.NameByUser != "" {
		return d.NameByUser
	}
	return d.Name
}
