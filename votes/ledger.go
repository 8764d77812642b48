// Package votes keeps one standing vote per user and post, and the post's
// denormalized tally consistent with those votes.
package votes

import (
	"fmt"

	"mindful-backend/models"
)

// None is the state of a user who has no vote on a post.
const None models.VoteType = ""

type Action int

const (
	ActionInsert Action = iota + 1
	ActionDelete
	ActionFlip
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionDelete:
		return "delete"
	case ActionFlip:
		return "flip"
	default:
		return "unknown"
	}
}

// Transition is what casting a vote does to the stored vote and to the tally.
type Transition struct {
	Action Action
	Next   models.VoteType
	Delta  int
}

type transitionKey struct {
	existing  models.VoteType
	requested models.VoteType
}

// transitions covers every (existing, requested) pair. Delta is not stored here;
// it is derived from the weights of the two states.
var transitions = map[transitionKey]Transition{
	{None, models.VoteUp}:              {Action: ActionInsert, Next: models.VoteUp},
	{None, models.VoteDown}:            {Action: ActionInsert, Next: models.VoteDown},
	{models.VoteUp, models.VoteUp}:     {Action: ActionDelete, Next: None},
	{models.VoteDown, models.VoteDown}: {Action: ActionDelete, Next: None},
	{models.VoteUp, models.VoteDown}:   {Action: ActionFlip, Next: models.VoteDown},
	{models.VoteDown, models.VoteUp}:   {Action: ActionFlip, Next: models.VoteUp},
}

var weights = map[models.VoteType]int{
	None:            0,
	models.VoteUp:   1,
	models.VoteDown: -1,
}

// Weight is the contribution of a vote state to the post tally.
func Weight(v models.VoteType) int {
	return weights[v]
}

// Resolve returns the transition for a user holding existing who casts requested.
func Resolve(existing, requested models.VoteType) (Transition, error) {
	if !requested.Valid() {
		return Transition{}, fmt.Errorf("%w: %q", ErrInvalidVoteType, requested)
	}

	t, ok := transitions[transitionKey{existing: existing, requested: requested}]
	if !ok {
		return Transition{}, fmt.Errorf("%w: stored vote %q", ErrInvalidVoteType, existing)
	}

	t.Delta = Weight(t.Next) - Weight(existing)
	return t, nil
}
