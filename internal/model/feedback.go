package model

// FeedbackKind classifies a guessed attribute value against the target's.
type FeedbackKind string

const (
	FeedbackCorrect FeedbackKind = "correct"
	FeedbackWrong   FeedbackKind = "wrong"
	FeedbackHigher  FeedbackKind = "higher"
	FeedbackLower   FeedbackKind = "lower"
	FeedbackClose   FeedbackKind = "close"
)

// Direction refines a close result on number-like attributes.
type Direction string

const (
	DirectionHigher Direction = "higher"
	DirectionLower  Direction = "lower"
)

// FeedbackResult is the classification of one attribute of one guess.
// Identical inputs always produce identical results; the engine is invoked
// separately for each recipient of the same attempt.
type FeedbackResult struct {
	Kind      FeedbackKind `json:"type"`
	Direction Direction    `json:"direction,omitempty"`
	Label     string       `json:"label"`
}

// Feedback maps attribute keys to their classification for one attempt.
type Feedback map[string]FeedbackResult
