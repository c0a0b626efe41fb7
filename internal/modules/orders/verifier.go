package orders

import (
	"context"
	"errors"
	"fmt"

	"food-ordering/internal/models"
)

// Verifier confirms that a token presented at handoff belongs to the order
// being marked delivered. A miss or mismatch is a normal "reject the claim"
// outcome, not a failure.
type Verifier struct {
	repo RepositoryInterface
}

// NewVerifier creates a token verifier backed by the order store.
func NewVerifier(repo RepositoryInterface) *Verifier {
	return &Verifier{repo: repo}
}

// Verify returns true iff the presented token resolves to exactly the
// expected order. The lookup is case-sensitive; tokens are opaque.
func (v *Verifier) Verify(ctx context.Context, presentedToken string, expectedOrderID int) (bool, error) {
	if presentedToken == "" {
		return false, nil
	}
	order, err := v.repo.FindByToken(ctx, presentedToken)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("verifier.Verify: %w", err)
	}
	return order.ID == expectedOrderID, nil
}
