package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/appetiteclub/storefront/pkg/enums/category"
	"github.com/appetiteclub/storefront/pkg/enums/orderstatus"
	"github.com/appetiteclub/storefront/pkg/enums/paymentmethod"
	"github.com/appetiteclub/storefront/pkg/enums/reservationstatus"
	"github.com/appetiteclub/storefront/pkg/event"
	"github.com/appetiteclub/storefront/services/storefront/internal/kvstore"
)

func TestGetMenuSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})

	menu, err := repo.GetMenu(ctx)
	if err != nil {
		t.Fatalf("GetMenu() error = %v", err)
	}

	if len(menu) != 8 {
		t.Fatalf("len(menu) = %d, want 8", len(menu))
	}
	for i, item := range menu {
		want := "m" + string(rune('1'+i))
		if item.ID != want {
			t.Errorf("menu[%d].ID = %q, want %q", i, item.ID, want)
		}
	}
	if store.SetCalls != 1 {
		t.Errorf("SetCalls = %d, want 1", store.SetCalls)
	}

	stored := kvstore.ReadCollection[[]MenuItem](ctx, store, MenuKey)
	if !stored.OK() || len(stored.Value) != 8 {
		t.Fatalf("seed was not persisted: %+v", stored.Status)
	}

	again, err := repo.GetMenu(ctx)
	if err != nil {
		t.Fatalf("second GetMenu() error = %v", err)
	}
	if !reflect.DeepEqual(again, menu) {
		t.Error("second GetMenu() returned a different menu")
	}
	if store.SetCalls != 1 {
		t.Errorf("second GetMenu() wrote again, SetCalls = %d", store.SetCalls)
	}
}

func TestGetMenuReseeds(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{name: "emptyList", stored: `[]`},
		{name: "storedNull", stored: `null`},
		{name: "corrupted", stored: `{"not":"a list"`},
		{name: "wrongShape", stored: `"menu"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, store := newTestRepo(RepoOptions{})
			store.put(MenuKey, tt.stored)

			menu, err := repo.GetMenu(context.Background())
			if err != nil {
				t.Fatalf("GetMenu() error = %v", err)
			}
			if len(menu) != 8 {
				t.Errorf("len(menu) = %d, want 8", len(menu))
			}
			if !strings.Contains(store.raw(MenuKey), `"id":"m8"`) {
				t.Error("seed was not persisted")
			}
		})
	}
}

func TestGetMenuCustomCatalog(t *testing.T) {
	catalog := []MenuItem{{ID: "x1", Name: "Chai", Price: 40, Category: category.Drinks, InStock: true}}
	repo, _ := newTestRepo(RepoOptions{Catalog: catalog})

	menu, err := repo.GetMenu(context.Background())
	if err != nil {
		t.Fatalf("GetMenu() error = %v", err)
	}
	if len(menu) != 1 || menu[0].ID != "x1" {
		t.Errorf("menu = %+v, want custom catalog", menu)
	}
}

func TestGetMenuReturnsCopies(t *testing.T) {
	repo, _ := newTestRepo(RepoOptions{})
	ctx := context.Background()

	menu, _ := repo.GetMenu(ctx)
	menu[0].Allergens[0] = "changed"

	again, _ := repo.GetMenu(ctx)
	if again[0].Allergens[0] != "Nutmeg" {
		t.Errorf("catalog mutated through returned slice: %v", again[0].Allergens)
	}
	if SeedCatalog()[0].Allergens[0] != "Nutmeg" {
		t.Error("seed catalog mutated")
	}
}

func TestUpdateMenuItem(t *testing.T) {
	calories := 150
	tests := []struct {
		name    string
		item    MenuItem
		wantLen int
	}{
		{
			name:    "replacesExisting",
			item:    MenuItem{ID: "m2", Name: "Paneer Tikka", Price: 340, Category: category.Starters, IsVegetarian: true, InStock: true},
			wantLen: 8,
		},
		{
			name:    "appendsNew",
			item:    MenuItem{ID: "m9", Name: "Masala Chaas", Price: 90, Category: category.Drinks, InStock: true, Calories: &calories},
			wantLen: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, _ := newTestRepo(RepoOptions{})
			if _, err := repo.GetMenu(ctx); err != nil {
				t.Fatal(err)
			}

			if err := repo.UpdateMenuItem(ctx, tt.item); err != nil {
				t.Fatalf("UpdateMenuItem() error = %v", err)
			}

			menu, _ := repo.GetMenu(ctx)
			if len(menu) != tt.wantLen {
				t.Errorf("len(menu) = %d, want %d", len(menu), tt.wantLen)
			}

			var matches []MenuItem
			for _, item := range menu {
				if item.ID == tt.item.ID {
					matches = append(matches, item)
				}
			}
			if len(matches) != 1 {
				t.Fatalf("found %d entries with id %s, want 1", len(matches), tt.item.ID)
			}
			if !reflect.DeepEqual(matches[0], tt.item) {
				t.Errorf("stored item = %+v, want %+v", matches[0], tt.item)
			}
		})
	}
}

func TestUpdateMenuItemKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(RepoOptions{})
	menu, _ := repo.GetMenu(ctx)

	edited := menu[3]
	edited.Price = 999
	if err := repo.UpdateMenuItem(ctx, edited); err != nil {
		t.Fatal(err)
	}

	after, _ := repo.GetMenu(ctx)
	if after[3].ID != edited.ID || after[3].Price != 999 {
		t.Errorf("after[3] = %+v, want edited %s in place", after[3], edited.ID)
	}
}

func TestUpdateMenuItemOnEmptyStoreStartsFromCatalog(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})

	item := MenuItem{ID: "m-new", Name: "Kulfi", Price: 150, Category: category.Desserts, InStock: true}
	if err := repo.UpdateMenuItem(ctx, item); err != nil {
		t.Fatalf("UpdateMenuItem() error = %v", err)
	}

	stored := kvstore.ReadCollection[[]MenuItem](ctx, store, MenuKey)
	if len(stored.Value) != 9 {
		t.Errorf("len(stored) = %d, want catalog plus new item", len(stored.Value))
	}
}

func TestDeleteMenuItem(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})
	if _, err := repo.GetMenu(ctx); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteMenuItem(ctx, "m3"); err != nil {
		t.Fatalf("DeleteMenuItem() error = %v", err)
	}
	first := store.raw(MenuKey)

	if err := repo.DeleteMenuItem(ctx, "m3"); err != nil {
		t.Fatalf("second DeleteMenuItem() error = %v", err)
	}
	second := store.raw(MenuKey)

	if first != second {
		t.Error("deleting twice changed the collection")
	}

	menu, _ := repo.GetMenu(ctx)
	if len(menu) != 7 {
		t.Errorf("len(menu) = %d, want 7", len(menu))
	}
	for _, item := range menu {
		if item.ID == "m3" {
			t.Error("m3 still present after delete")
		}
	}
}

func TestDeleteMenuItemUnknownID(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(RepoOptions{})
	if _, err := repo.GetMenu(ctx); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteMenuItem(ctx, "nope"); err != nil {
		t.Fatalf("DeleteMenuItem() error = %v", err)
	}

	menu, _ := repo.GetMenu(ctx)
	if len(menu) != 8 {
		t.Errorf("len(menu) = %d, want 8", len(menu))
	}
}

func TestGetMenuItem(t *testing.T) {
	repo, _ := newTestRepo(RepoOptions{})

	item, err := repo.GetMenuItem(context.Background(), "m5")
	if err != nil {
		t.Fatalf("GetMenuItem() error = %v", err)
	}
	if item.Name != "Shahi Tukda" || item.InStock {
		t.Errorf("item = %+v", item)
	}

	_, err = repo.GetMenuItem(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMenuItem(missing) error = %v, want ErrNotFound", err)
	}
}

func TestToggleStock(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(RepoOptions{})

	item, err := repo.ToggleStock(ctx, "m5")
	if err != nil {
		t.Fatalf("ToggleStock() error = %v", err)
	}
	if !item.InStock {
		t.Error("m5 should be back in stock")
	}

	item, _ = repo.ToggleStock(ctx, "m5")
	if item.InStock {
		t.Error("second toggle should mark m5 out of stock")
	}

	if _, err := repo.ToggleStock(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleStock(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	repo := NewRepo(store, RepoOptions{}, nil)

	items := []CartItem{
		{MenuItem: MenuItem{ID: "m1", Name: "Sufiyana Special Galouti Kebab", Price: 450}, Quantity: 2},
	}

	before := time.Now().UnixMilli()
	order, err := repo.CreateOrder(ctx, OrderDraft{Items: items, Total: 990})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.Status != orderstatus.New {
		t.Errorf("Status = %q, want New", order.Status)
	}
	if !strings.HasPrefix(order.ID, "ord-") {
		t.Errorf("ID = %q, want ord- prefix", order.ID)
	}
	if order.CreatedAt < before {
		t.Errorf("CreatedAt = %d, earlier than call time %d", order.CreatedAt, before)
	}
	if order.Total != 990 {
		t.Errorf("Total = %v, want 990", order.Total)
	}

	orders := kvstore.ReadCollection[[]Order](ctx, store, OrdersKey)
	if len(orders.Value) != 1 {
		t.Fatalf("stored orders = %d, want 1", len(orders.Value))
	}

	second, err := repo.CreateOrder(ctx, OrderDraft{Items: items, Total: 990})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID == order.ID {
		t.Error("order ids are not unique")
	}

	orders = kvstore.ReadCollection[[]Order](ctx, store, OrdersKey)
	if len(orders.Value) != 2 {
		t.Errorf("stored orders = %d, want 2", len(orders.Value))
	}
}

func TestCreateOrderDefaults(t *testing.T) {
	repo, store := newTestRepo(RepoOptions{})

	order, err := repo.CreateOrder(context.Background(), OrderDraft{})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if order.CustomerName != "Guest" {
		t.Errorf("CustomerName = %q, want Guest", order.CustomerName)
	}
	if order.Items == nil || len(order.Items) != 0 {
		t.Errorf("Items = %#v, want empty list", order.Items)
	}
	if order.Total != 0 {
		t.Errorf("Total = %v, want 0", order.Total)
	}
	if order.PaymentMethod != paymentmethod.COD {
		t.Errorf("PaymentMethod = %q, want cod", order.PaymentMethod)
	}
	if !strings.Contains(store.raw(OrdersKey), `"items":[]`) {
		t.Errorf("items should persist as an empty list: %s", store.raw(OrdersKey))
	}
}

func TestCreateOrderSnapshotsItems(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(RepoOptions{})

	items := []CartItem{{MenuItem: MenuItem{ID: "m1", Name: "Kebab", Price: 450, Allergens: []string{"Nutmeg"}}, Quantity: 1}}
	order, err := repo.CreateOrder(ctx, OrderDraft{Items: items, Total: 450})
	if err != nil {
		t.Fatal(err)
	}

	items[0].Name = "Renamed"
	items[0].Allergens[0] = "None"

	if order.Items[0].Name != "Kebab" || order.Items[0].Allergens[0] != "Nutmeg" {
		t.Errorf("order shares memory with the draft: %+v", order.Items[0])
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name       string
		path       []orderstatus.Status
		next       orderstatus.Status
		permissive bool
		wantErr    error
		wantStatus orderstatus.Status
	}{
		{name: "newToPreparing", next: orderstatus.Preparing, wantStatus: orderstatus.Preparing},
		{name: "newToCancelled", next: orderstatus.Cancelled, wantStatus: orderstatus.Cancelled},
		{name: "readyToCompleted", path: []orderstatus.Status{orderstatus.Preparing, orderstatus.Ready}, next: orderstatus.Completed, wantStatus: orderstatus.Completed},
		{name: "newToCompletedRejected", next: orderstatus.Completed, wantErr: ErrInvalidTransition, wantStatus: orderstatus.New},
		{name: "backwardsRejected", path: []orderstatus.Status{orderstatus.Preparing}, next: orderstatus.New, wantErr: ErrInvalidTransition, wantStatus: orderstatus.Preparing},
		{name: "terminalRejected", path: []orderstatus.Status{orderstatus.Cancelled}, next: orderstatus.Preparing, wantErr: ErrInvalidTransition, wantStatus: orderstatus.Cancelled},
		{name: "sameStatusRejected", next: orderstatus.New, wantErr: ErrInvalidTransition, wantStatus: orderstatus.New},
		{name: "permissiveAllowsJump", next: orderstatus.Completed, permissive: true, wantStatus: orderstatus.Completed},
		{name: "unknownStatus", next: orderstatus.Status("Lost"), wantErr: ErrInvalidStatus, wantStatus: orderstatus.New},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, store := newTestRepo(RepoOptions{PermissiveStatus: tt.permissive})

			order, err := repo.CreateOrder(ctx, OrderDraft{CustomerName: "Asha"})
			if err != nil {
				t.Fatal(err)
			}
			for _, s := range tt.path {
				if err := repo.UpdateOrderStatus(ctx, order.ID, s); err != nil {
					t.Fatalf("setup transition to %s: %v", s, err)
				}
			}

			err = repo.UpdateOrderStatus(ctx, order.ID, tt.next)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpdateOrderStatus() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("UpdateOrderStatus() error = %v", err)
			}

			orders := kvstore.ReadCollection[[]Order](ctx, store, OrdersKey)
			if got := orders.Value[0].Status; got != tt.wantStatus {
				t.Errorf("stored status = %q, want %q", got, tt.wantStatus)
			}
		})
	}
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})
	if _, err := repo.CreateOrder(ctx, OrderDraft{}); err != nil {
		t.Fatal(err)
	}
	before := store.raw(OrdersKey)
	writes := store.SetCalls

	if err := repo.UpdateOrderStatus(ctx, "ord-missing", orderstatus.Preparing); err != nil {
		t.Fatalf("UpdateOrderStatus() error = %v", err)
	}

	if store.raw(OrdersKey) != before {
		t.Error("orders changed for unknown id")
	}
	if store.SetCalls != writes {
		t.Error("orders rewritten for unknown id")
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(RepoOptions{})

	var ids []string
	for _, name := range []string{"first", "second", "third"} {
		order, err := repo.CreateOrder(ctx, OrderDraft{CustomerName: name})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, order.ID)
	}

	orders, err := repo.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}

	want := []string{ids[2], ids[1], ids[0]}
	for i, order := range orders {
		if order.ID != want[i] {
			t.Errorf("orders[%d] = %s, want %s", i, order.ID, want[i])
		}
	}
}

func TestListOrdersCorrupted(t *testing.T) {
	repo, store := newTestRepo(RepoOptions{})
	store.put(OrdersKey, `{{`)

	orders, err := repo.ListOrders(context.Background())
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("len(orders) = %d, want 0", len(orders))
	}
}

func TestCreateReservation(t *testing.T) {
	tests := []struct {
		name       string
		draft      ReservationDraft
		wantGuests int
	}{
		{name: "keepsGuests", draft: ReservationDraft{Name: "Zoya", Guests: 6, Date: "2025-12-20", Time: "20:00"}, wantGuests: 6},
		{name: "defaultsGuests", draft: ReservationDraft{Name: "Zoya"}, wantGuests: 2},
		{name: "negativeGuests", draft: ReservationDraft{Name: "Zoya", Guests: -3}, wantGuests: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, store := newTestRepo(RepoOptions{})

			res, err := repo.CreateReservation(context.Background(), tt.draft)
			if err != nil {
				t.Fatalf("CreateReservation() error = %v", err)
			}

			if res.Status != reservationstatus.Pending {
				t.Errorf("Status = %q, want pending", res.Status)
			}
			if res.Guests != tt.wantGuests {
				t.Errorf("Guests = %d, want %d", res.Guests, tt.wantGuests)
			}
			if !strings.HasPrefix(res.ID, "res-") {
				t.Errorf("ID = %q, want res- prefix", res.ID)
			}
			if res.CreatedAt == 0 {
				t.Error("CreatedAt not set")
			}
			if !strings.Contains(store.raw(ReservationsKey), res.ID) {
				t.Error("reservation not persisted")
			}
		})
	}
}

func TestUpdateReservationStatus(t *testing.T) {
	tests := []struct {
		name       string
		first      reservationstatus.Status
		next       reservationstatus.Status
		permissive bool
		wantErr    error
		wantStatus reservationstatus.Status
	}{
		{name: "confirm", next: reservationstatus.Confirmed, wantStatus: reservationstatus.Confirmed},
		{name: "decline", next: reservationstatus.Declined, wantStatus: reservationstatus.Declined},
		{name: "decidedIsTerminal", first: reservationstatus.Confirmed, next: reservationstatus.Declined, wantErr: ErrInvalidTransition, wantStatus: reservationstatus.Confirmed},
		{name: "backToPendingRejected", first: reservationstatus.Declined, next: reservationstatus.Pending, wantErr: ErrInvalidTransition, wantStatus: reservationstatus.Declined},
		{name: "permissiveRedecide", first: reservationstatus.Confirmed, next: reservationstatus.Declined, permissive: true, wantStatus: reservationstatus.Declined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, store := newTestRepo(RepoOptions{PermissiveStatus: tt.permissive})

			res, err := repo.CreateReservation(ctx, ReservationDraft{Name: "Kabir"})
			if err != nil {
				t.Fatal(err)
			}
			if tt.first != "" {
				if err := repo.UpdateReservationStatus(ctx, res.ID, tt.first); err != nil {
					t.Fatal(err)
				}
			}

			err = repo.UpdateReservationStatus(ctx, res.ID, tt.next)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("UpdateReservationStatus() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("UpdateReservationStatus() error = %v", err)
			}

			stored := kvstore.ReadCollection[[]Reservation](ctx, store, ReservationsKey)
			if got := stored.Value[0].Status; got != tt.wantStatus {
				t.Errorf("stored status = %q, want %q", got, tt.wantStatus)
			}
		})
	}
}

func TestUpdateReservationStatusNotFound(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})
	if _, err := repo.CreateReservation(ctx, ReservationDraft{Name: "Meera"}); err != nil {
		t.Fatal(err)
	}
	before := store.raw(ReservationsKey)

	if err := repo.UpdateReservationStatus(ctx, "res-missing", reservationstatus.Confirmed); err != nil {
		t.Fatalf("UpdateReservationStatus() error = %v", err)
	}

	if store.raw(ReservationsKey) != before {
		t.Error("reservations changed for unknown id")
	}
}

func TestWriteFailures(t *testing.T) {
	boom := errors.New("quota exceeded")

	t.Run("swallowedByDefault", func(t *testing.T) {
		repo, store := newTestRepo(RepoOptions{})
		store.SetFunc = func(ctx context.Context, key string, value []byte) error { return boom }

		order, err := repo.CreateOrder(context.Background(), OrderDraft{CustomerName: "Ira"})
		if err != nil {
			t.Fatalf("CreateOrder() error = %v, want nil", err)
		}
		if order.ID == "" {
			t.Error("order should still be returned")
		}

		menu, err := repo.GetMenu(context.Background())
		if err != nil || len(menu) != 8 {
			t.Errorf("GetMenu() = %d items, %v", len(menu), err)
		}
	})

	t.Run("returnedWhenStrict", func(t *testing.T) {
		repo, store := newTestRepo(RepoOptions{StrictWrites: true})
		store.SetFunc = func(ctx context.Context, key string, value []byte) error { return boom }

		_, err := repo.CreateOrder(context.Background(), OrderDraft{CustomerName: "Ira"})
		if !errors.Is(err, boom) {
			t.Errorf("CreateOrder() error = %v, want %v", err, boom)
		}
	})
}

func TestReadFailureFallsBack(t *testing.T) {
	repo, store := newTestRepo(RepoOptions{})
	store.GetFunc = func(ctx context.Context, key string) ([]byte, bool, error) {
		return nil, false, errors.New("connection reset")
	}

	stats, err := repo.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalOrders != 0 {
		t.Errorf("TotalOrders = %d, want 0", stats.TotalOrders)
	}
}

func TestUnavailableStoreLeavesCollectionsIntact(t *testing.T) {
	unavailable := errors.New("connection reset")

	tests := []struct {
		name string
		run  func(ctx context.Context, repo *Repo) error
	}{
		{name: "getMenu", run: func(ctx context.Context, repo *Repo) error {
			_, err := repo.GetMenu(ctx)
			return err
		}},
		{name: "updateMenuItem", run: func(ctx context.Context, repo *Repo) error {
			return repo.UpdateMenuItem(ctx, MenuItem{ID: "m9", Name: "Lassi", Price: 80, Category: category.Drinks})
		}},
		{name: "deleteMenuItem", run: func(ctx context.Context, repo *Repo) error {
			return repo.DeleteMenuItem(ctx, "m2")
		}},
		{name: "toggleStock", run: func(ctx context.Context, repo *Repo) error {
			_, err := repo.ToggleStock(ctx, "m2")
			return err
		}},
		{name: "createOrder", run: func(ctx context.Context, repo *Repo) error {
			_, err := repo.CreateOrder(ctx, OrderDraft{CustomerName: "Ira"})
			return err
		}},
		{name: "updateOrderStatus", run: func(ctx context.Context, repo *Repo) error {
			return repo.UpdateOrderStatus(ctx, "ord-any", orderstatus.Preparing)
		}},
		{name: "createReservation", run: func(ctx context.Context, repo *Repo) error {
			_, err := repo.CreateReservation(ctx, ReservationDraft{Name: "Sana"})
			return err
		}},
		{name: "updateReservationStatus", run: func(ctx context.Context, repo *Repo) error {
			return repo.UpdateReservationStatus(ctx, "res-any", reservationstatus.Confirmed)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, store := newTestRepo(RepoOptions{})

			if err := repo.DeleteMenuItem(ctx, "m1"); err != nil {
				t.Fatal(err)
			}
			if err := repo.UpdateMenuItem(ctx, MenuItem{ID: "m-new", Name: "Kulfi", Price: 150, Category: category.Desserts}); err != nil {
				t.Fatal(err)
			}
			for _, name := range []string{"Aarav", "Mira", "Omar"} {
				if _, err := repo.CreateOrder(ctx, OrderDraft{CustomerName: name}); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := repo.CreateReservation(ctx, ReservationDraft{Name: "Mira"}); err != nil {
				t.Fatal(err)
			}

			before := map[string]string{}
			for _, key := range Keys {
				before[key] = store.raw(key)
			}
			writes := store.SetCalls

			failures := 1
			store.GetFunc = func(ctx context.Context, key string) ([]byte, bool, error) {
				if failures > 0 {
					failures--
					return nil, false, unavailable
				}
				return store.Memory.Get(ctx, key)
			}

			err := tt.run(ctx, repo)
			if !errors.Is(err, ErrStoreUnavailable) || !errors.Is(err, unavailable) {
				t.Fatalf("error = %v, want %v wrapping %v", err, ErrStoreUnavailable, unavailable)
			}
			if store.SetCalls != writes {
				t.Errorf("SetCalls = %d, want %d: nothing may be written after a failed read", store.SetCalls, writes)
			}
			for _, key := range Keys {
				if got := store.raw(key); got != before[key] {
					t.Errorf("%s changed after failed read:\n got %s\nwant %s", key, got, before[key])
				}
			}

			orders, _ := repo.ListOrders(ctx)
			if len(orders) != 3 {
				t.Errorf("orders = %d, want 3", len(orders))
			}
			menu, err := repo.GetMenu(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if menu[0].ID == "m1" || menu[len(menu)-1].ID != "m-new" {
				t.Errorf("menu edits lost: first %s, last %s", menu[0].ID, menu[len(menu)-1].ID)
			}
		})
	}
}

func TestCorruptedCollectionStillAcceptsWrites(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})
	store.put(OrdersKey, `{"not":"a list"`)

	order, err := repo.CreateOrder(ctx, OrderDraft{CustomerName: "Ira"})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	orders, _ := repo.ListOrders(ctx)
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Errorf("orders = %+v, want only the new order", orders)
	}
}

func TestLatencyHonorsCancellation(t *testing.T) {
	repo, store := newTestRepo(RepoOptions{Latency: Latency{OpCreateOrder: time.Hour}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.CreateOrder(ctx, OrderDraft{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("CreateOrder() error = %v, want context.Canceled", err)
	}
	if store.SetCalls != 0 {
		t.Error("cancelled operation should not write")
	}
}

func TestLatencyDelays(t *testing.T) {
	repo, _ := newTestRepo(RepoOptions{Latency: Latency{OpCreateReservation: 20 * time.Millisecond}})

	start := time.Now()
	if _, err := repo.CreateReservation(context.Background(), ReservationDraft{Name: "Sana"}); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 20ms", elapsed)
	}
}

func TestEventsPublished(t *testing.T) {
	ctx := context.Background()
	publisher := NewMockPublisher()
	repo, _ := newTestRepo(RepoOptions{Publisher: publisher})

	order, _ := repo.CreateOrder(ctx, OrderDraft{CustomerName: "Omar", Total: 120})
	_ = repo.UpdateOrderStatus(ctx, order.ID, orderstatus.Preparing)
	res, _ := repo.CreateReservation(ctx, ReservationDraft{Name: "Omar"})
	_ = repo.UpdateReservationStatus(ctx, res.ID, reservationstatus.Confirmed)
	_ = repo.UpdateMenuItem(ctx, MenuItem{ID: "m9", Name: "Lassi", Price: 80, Category: category.Drinks})
	_ = repo.DeleteMenuItem(ctx, "m9")
	_ = repo.DeleteMenuItem(ctx, "m9")

	want := []string{
		event.OrderCreatedTopic,
		event.OrderStatusTopic,
		event.ReservationCreatedTopic,
		event.ReservationStatusTopic,
		event.MenuItemSavedTopic,
		event.MenuItemDeletedTopic,
	}
	if got := publisher.Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}

	var statusEvent event.OrderEvent
	if err := json.Unmarshal(publisher.PublishedEvents[1].Data, &statusEvent); err != nil {
		t.Fatal(err)
	}
	if statusEvent.Status != "Preparing" || statusEvent.PreviousStatus != "New" || statusEvent.OrderID != order.ID {
		t.Errorf("status event = %+v", statusEvent)
	}
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	publisher := NewMockPublisher()
	publisher.PublishFunc = func(ctx context.Context, topic string, data []byte) error {
		return errors.New("broker down")
	}
	repo, store := newTestRepo(RepoOptions{Publisher: publisher})

	if _, err := repo.CreateOrder(context.Background(), OrderDraft{}); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if !strings.Contains(store.raw(OrdersKey), "ord-") {
		t.Error("order not persisted")
	}
}

func TestConcurrentWritersKeepEveryOrder(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.CreateOrder(ctx, OrderDraft{Total: 10}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	orders := kvstore.ReadCollection[[]Order](ctx, store, OrdersKey)
	if len(orders.Value) != writers {
		t.Errorf("stored orders = %d, want %d", len(orders.Value), writers)
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(RepoOptions{})
	_, _ = repo.GetMenu(ctx)
	_, _ = repo.CreateOrder(ctx, OrderDraft{})
	_, _ = repo.CreateReservation(ctx, ReservationDraft{})

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if store.Keys() != 0 {
		t.Errorf("Keys() = %d, want 0", store.Keys())
	}
}
