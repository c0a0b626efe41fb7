package statemachine

import (
	"errors"
	"testing"

	"food-ordering/internal/models"
)

func TestParseStatus_AcceptsClosedSet(t *testing.T) {
	for _, raw := range []string{"pending", "out_for_delivery", "delivered", "cancelled"} {
		if _, err := ParseStatus(raw); err != nil {
			t.Fatalf("ParseStatus(%q): unexpected error %v", raw, err)
		}
	}
}

func TestParseStatus_RejectsEverythingElse(t *testing.T) {
	// "confirmed" is in the persisted enum but must not be accepted by the
	// update command.
	for _, raw := range []string{"shipped", "confirmed", "PENDING", "", "delivered "} {
		if _, err := ParseStatus(raw); !errors.Is(err, models.ErrInvalidStatus) {
			t.Fatalf("ParseStatus(%q): want ErrInvalidStatus, got %v", raw, err)
		}
	}
}

func TestCanTransition_ValidEdges(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		actor    Actor
	}{
		{models.StatusPending, models.StatusOutForDelivery, ActorAdmin},
		{models.StatusPending, models.StatusOutForDelivery, ActorDelivery},
		{models.StatusOutForDelivery, models.StatusDelivered, ActorDelivery},
		{models.StatusPending, models.StatusCancelled, ActorAdmin},
	}
	for _, c := range cases {
		if err := CanTransition(c.from, c.to, c.actor); err != nil {
			t.Fatalf("CanTransition(%s, %s, %s): unexpected error %v", c.from, c.to, c.actor, err)
		}
	}
}

func TestCanTransition_RejectsOffTableEdges(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		actor    Actor
	}{
		{models.StatusPending, models.StatusDelivered, ActorDelivery},
		{models.StatusPending, models.StatusCancelled, ActorCustomer},
		{models.StatusPending, models.StatusCancelled, ActorDelivery},
		{models.StatusOutForDelivery, models.StatusDelivered, ActorAdmin},
		{models.StatusOutForDelivery, models.StatusPending, ActorAdmin},
		{models.StatusPending, models.StatusConfirmed, ActorAdmin},
	}
	for _, c := range cases {
		err := CanTransition(c.from, c.to, c.actor)
		if !errors.Is(err, models.ErrInvalidTransition) {
			t.Fatalf("CanTransition(%s, %s, %s): want ErrInvalidTransition, got %v", c.from, c.to, c.actor, err)
		}
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []models.OrderStatus{models.StatusDelivered, models.StatusCancelled} {
		for _, to := range []models.OrderStatus{models.StatusPending, models.StatusOutForDelivery, models.StatusDelivered, models.StatusCancelled} {
			err := CanTransition(from, to, ActorAdmin)
			if !errors.Is(err, models.ErrOrderAlreadyFinal) {
				t.Fatalf("CanTransition(%s, %s): want ErrOrderAlreadyFinal, got %v", from, to, err)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(models.StatusDelivered) || !IsTerminal(models.StatusCancelled) {
		t.Fatal("delivered and cancelled must be terminal")
	}
	if IsTerminal(models.StatusPending) || IsTerminal(models.StatusOutForDelivery) {
		t.Fatal("pending and out_for_delivery must not be terminal")
	}
}

func TestValidTransitionsFrom(t *testing.T) {
	nexts := ValidTransitionsFrom(models.StatusPending)
	want := map[models.OrderStatus]bool{models.StatusOutForDelivery: true, models.StatusCancelled: true}
	if len(nexts) != len(want) {
		t.Fatalf("ValidTransitionsFrom(pending) = %v, want 2 states", nexts)
	}
	for _, s := range nexts {
		if !want[s] {
			t.Fatalf("unexpected next state %s from pending", s)
		}
	}
	if got := ValidTransitionsFrom(models.StatusDelivered); len(got) != 0 {
		t.Fatalf("ValidTransitionsFrom(delivered) = %v, want none", got)
	}
}
