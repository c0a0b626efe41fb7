// Package statemachine encodes the order lifecycle: which status changes are
// legal and which actor may trigger each of them.
package statemachine

import (
	"fmt"

	"food-ordering/internal/models"
)

// Actor identifies who is requesting a transition.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorAdmin    Actor = "admin"
	ActorDelivery Actor = "delivery"
)

// Transition defines a valid state change and who can perform it.
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// validTransitions is the authoritative state machine definition.
// Creation (nothing -> pending) happens outside the table, in the store.
var validTransitions = []Transition{
	// Admin dispatches a pending order; assignment implies this transition.
	{From: models.StatusPending, To: models.StatusOutForDelivery, Actor: ActorAdmin},
	// An already-assigned delivery person may self-advance a pending order.
	{From: models.StatusPending, To: models.StatusOutForDelivery, Actor: ActorDelivery},
	// Delivery person completes the handoff; token verification gates this
	// upstream in the order service.
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorDelivery},
	// Admin cancels an order that has not been dispatched.
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// updatableStatuses is the closed set accepted by the status-update command.
// models.StatusConfirmed is deliberately absent: it exists in the persisted
// enum but is unreachable.
var updatableStatuses = map[models.OrderStatus]bool{
	models.StatusPending:        true,
	models.StatusOutForDelivery: true,
	models.StatusDelivered:      true,
	models.StatusCancelled:      true,
}

// ParseStatus validates a raw status string against the closed update set.
func ParseStatus(raw string) (models.OrderStatus, error) {
	s := models.OrderStatus(raw)
	if !updatableStatuses[s] {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidStatus, raw)
	}
	return s, nil
}

// IsTerminal reports whether no transition may originate from the status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether the actor may move an order between the two
// states. Terminal origins yield models.ErrOrderAlreadyFinal; everything
// else off the table yields models.ErrInvalidTransition.
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if IsTerminal(from) {
		return fmt.Errorf("%w: %s", models.ErrOrderAlreadyFinal, from)
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s to %s by %s", models.ErrInvalidTransition, from, to, actor)
}
