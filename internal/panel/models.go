package panel

// DragNamespace is the shared drag-and-drop group name stamped on every
// container so tiles can move between any two containers of the same panel.
const DragNamespace = "shared"

// Tile is one draggable entity entry. EntityID doubles as the drag payload.
type Tile struct {
	EntityID string `json:"entity_id"`
	Name     string `json:"name"`
}

// Container is one drop target, keyed by its group id. The key is stable
// across rebuilds so the front end can re-attach drag handling without
// tearing down an in-flight interaction when the group list is unchanged.
// Accepts is false for source-only containers (the synthetic bucket on the
// tags panel).
type Container struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Accepts bool   `json:"accepts"`
	Tiles   []Tile `json:"tiles"`
}

// Surface is the full render model for one panel: every container in
// declaration order (synthetic last) with the tiles matching the selected
// domain, plus the domain filter state. It is replaced wholesale on every
// snapshot push.
type Surface struct {
	Panel          string      `json:"panel"`
	DragNamespace  string      `json:"drag_namespace"`
	Domains        []string    `json:"domains"`
	SelectedDomain string      `json:"selected_domain"`
	Containers     []Container `json:"containers"`
}

// DropEvent is a drag release reported by the front end: the dragged entity
// and the container it landed in.
type DropEvent struct {
	EntityID    string `json:"entity_id"`
	ContainerID string `json:"container_id"`
}

// MutationKind distinguishes the two membership mutations the hub accepts.
type MutationKind string

const (
	// MutationSetZone moves an entity to exactly one zone, clearing any
	// prior assignment. An empty GroupID clears the assignment.
	MutationSetZone MutationKind = "set_zone"
	// MutationAddTag attaches one tag, leaving existing tags untouched.
	MutationAddTag MutationKind = "add_tag"
)

// Mutation is one membership change request bound for the hub.
type Mutation struct {
	ID        string
	Kind      MutationKind
	Panel     string
	EntityID  string
	GroupID   string
	RequestID string
}
