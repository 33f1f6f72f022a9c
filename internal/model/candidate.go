package model

// AttributeKind selects the comparison semantics used when scoring one
// attribute of a guess against the target.
type AttributeKind string

const (
	KindNumber    AttributeKind = "number"     // numeric rank comparison
	KindOrdered   AttributeKind = "ordered"    // rank within a declared order list
	KindMultiple  AttributeKind = "multiple"   // multi-valued set comparison
	KindTextGroup AttributeKind = "text-group" // grouped equivalence classes
	KindText      AttributeKind = "text"       // free text
)

// Attribute describes one guessable column of a game's candidate pool,
// including the kind-specific metadata the feedback engine needs.
type Attribute struct {
	Key   string        `json:"key"`
	Label string        `json:"label,omitempty"`
	Kind  AttributeKind `json:"type"`

	// Order ranks values for ordered attributes, lowest first. A text
	// attribute carrying an order gives no partial credit.
	Order []string `json:"order,omitempty"`

	// Groups lists equivalence classes for text-group attributes; two
	// distinct values in the same group score close.
	Groups [][]string `json:"groups,omitempty"`

	// Hints is a closed vocabulary for text attributes; its presence
	// suppresses substring credit.
	Hints []string `json:"hints,omitempty"`
}

// Candidate is a guessable entity from a game's pool.
type Candidate struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Attrs map[string]any `json:"attrs"`
}

// Attr returns the candidate's value for an attribute key, or nil.
func (c Candidate) Attr(key string) any {
	if c.Attrs == nil {
		return nil
	}
	return c.Attrs[key]
}

// GameData is the pool-and-rules payload a player brings into matchmaking
// or a private room. On a private join the host's payload wins.
type GameData struct {
	GameID      string      `json:"gameId"`
	Category    string      `json:"category"`
	Candidates  []Candidate `json:"candidates"`
	Attributes  []Attribute `json:"attributes"`
	MaxAttempts int         `json:"maxAttempts,omitempty"`
}
