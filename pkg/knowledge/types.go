package knowledge

import "time"

// EntityType classifies the nodes extracted from a trajectory.
type EntityType string

const (
	EntityTask               EntityType = "task"
	EntityWebsite            EntityType = "website"
	EntityInteractionElement EntityType = "interaction_element"
	EntityActionSequence     EntityType = "action_sequence"
	EntityOutcome            EntityType = "outcome"
)

// validEntityTypes gates what the oracle is allowed to emit.
var validEntityTypes = map[EntityType]bool{
	EntityTask:               true,
	EntityWebsite:            true,
	EntityInteractionElement: true,
	EntityActionSequence:     true,
	EntityOutcome:            true,
}

// Entity is one typed node in the knowledge store.
type Entity struct {
	ID        string     `json:"id"`
	Type      EntityType `json:"type"`
	Name      string     `json:"name"`
	Summary   string     `json:"summary"`
	RunID     string     `json:"run_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// Relation is a directed edge between two entities, identified by the
// entity names the oracle emitted within one extraction.
type Relation struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	TargetID    string    `json:"target_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
}
