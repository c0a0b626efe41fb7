package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-ordering/internal/models"
	"food-ordering/pkg/logger"
)

type mockMenuRepo struct {
	nextID int
	items  map[int]*models.MenuItem
}

func newMockMenuRepo() *mockMenuRepo {
	return &mockMenuRepo{nextID: 1, items: map[int]*models.MenuItem{}}
}

func (m *mockMenuRepo) List(ctx context.Context, includeUnavailable bool) ([]*models.MenuItem, error) {
	var out []*models.MenuItem
	for _, item := range m.items {
		if !includeUnavailable && !item.Available {
			continue
		}
		cp := *item
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockMenuRepo) FindByID(ctx context.Context, itemID int) (*models.MenuItem, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *mockMenuRepo) Create(ctx context.Context, req models.CreateMenuItemRequest) (*models.MenuItem, error) {
	item := &models.MenuItem{
		ID: m.nextID, Name: req.Name, Description: req.Description,
		Price: req.Price, ImageURL: req.ImageURL, Available: true,
	}
	m.items[item.ID] = item
	m.nextID++
	cp := *item
	return &cp, nil
}

func (m *mockMenuRepo) Update(ctx context.Context, itemID int, req models.UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	cp := *item
	return &cp, nil
}

func (m *mockMenuRepo) Delete(ctx context.Context, itemID int) error {
	if _, ok := m.items[itemID]; !ok {
		return models.ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func newTestMenuService() (*Service, *mockMenuRepo) {
	repo := newMockMenuRepo()
	return NewService(repo, time.Second, logger.New("error")), repo
}

func TestListAvailable_HidesUnavailableItems(t *testing.T) {
	svc, _ := newTestMenuService()
	ctx := context.Background()

	burger, _ := svc.CreateItem(ctx, models.CreateMenuItemRequest{Name: "Burger", Price: 9.5})
	pizza, _ := svc.CreateItem(ctx, models.CreateMenuItemRequest{Name: "Pizza", Price: 12})

	off := false
	if _, err := svc.UpdateItem(ctx, pizza.ID, models.UpdateMenuItemRequest{Available: &off}); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	available, err := svc.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable: %v", err)
	}
	if len(available) != 1 || available[0].ID != burger.ID {
		t.Fatalf("want only the burger, got %+v", available)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin listing must include unavailable items, got %d", len(all))
	}
}

func TestZeroTimeoutDisablesDeadline(t *testing.T) {
	repo := newMockMenuRepo()
	svc := NewService(repo, 0, logger.New("error"))

	item, err := svc.CreateItem(context.Background(), models.CreateMenuItemRequest{Name: "Burger", Price: 9.5})
	if err != nil {
		t.Fatalf("CreateItem with zero timeout: %v", err)
	}
	if _, err := svc.GetItem(context.Background(), item.ID); err != nil {
		t.Fatalf("GetItem with zero timeout: %v", err)
	}

	ctx, cancel := svc.opCtx(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero timeout must not attach a deadline")
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	svc, _ := newTestMenuService()

	name := "Ghost"
	_, err := svc.UpdateItem(context.Background(), 42, models.UpdateMenuItemRequest{Name: &name})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	svc, _ := newTestMenuService()
	ctx := context.Background()

	item, _ := svc.CreateItem(ctx, models.CreateMenuItemRequest{Name: "Fries", Price: 3.5})
	if err := svc.DeleteItem(ctx, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := svc.GetItem(ctx, item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("deleted item still found: %v", err)
	}
	if err := svc.DeleteItem(ctx, item.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("double delete: want ErrNotFound, got %v", err)
	}
}
