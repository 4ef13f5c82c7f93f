package product

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"staff-portal/internal/adapter/api"
	domain "staff-portal/internal/domain/product"
	"staff-portal/internal/prompt"
	"staff-portal/internal/testutil/productmock"
	"staff-portal/internal/usecase"
	"staff-portal/internal/validation"
	"staff-portal/internal/viewstate"
)

func catalogue() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "KUR Mikro", Amount: decimal.NewFromInt(10_000_000), Tenor: 12, InterestRate: decimal.RequireFromString("1.5")},
		{ID: 2, Name: "Modal Usaha", Amount: decimal.NewFromInt(25_000_000), Tenor: 24, InterestRate: decimal.RequireFromString("2.25")},
	}
}

func newFacade(gw domain.Gateway, confirm prompt.Confirmer) *Facade {
	return New(gw, usecase.Deps{
		Read:      viewstate.ReadPolicy(0, api.Retryable),
		Write:     viewstate.WritePolicy(0, api.Retryable),
		NotFound:  api.IsNotFound,
		Confirm:   confirm,
		Validator: validation.New(),
		Log:       zerolog.Nop(),
	})
}

func TestLoad_IdempotentReload(t *testing.T) {
	ctx := context.Background()
	f := newFacade(&productmock.Gateway{ListFn: func(context.Context) ([]domain.Product, error) { return catalogue(), nil }}, nil)

	f.Load(ctx)
	first := f.Snapshot()
	f.Load(ctx)
	second := f.Snapshot()

	if len(first.Items) != 2 || len(second.Items) != 2 || first.Loading || second.Loading {
		t.Fatalf("snapshots: %+v / %+v", first, second)
	}
	for i := range first.Items {
		if first.Items[i].ID != second.Items[i].ID || !first.Items[i].Amount.Equal(second.Items[i].Amount) {
			t.Fatalf("reload changed item %d", i)
		}
	}
}

func TestLoad_FailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	fail := false
	calls := 0
	f := newFacade(&productmock.Gateway{ListFn: func(context.Context) ([]domain.Product, error) {
		calls++
		if fail {
			return nil, &api.Error{Status: http.StatusBadGateway}
		}
		return catalogue(), nil
	}}, nil)

	f.Load(ctx)
	fail = true
	calls = 0
	if f.Load(ctx) {
		t.Fatal("Load must fail")
	}
	if calls != 3 {
		t.Fatalf("read attempts = %d, want 3", calls)
	}
	s := f.Snapshot()
	if s.Error != "Failed to load products" || len(s.Items) != 2 || s.Loading {
		t.Fatalf("snapshot = %+v", s)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	f := newFacade(&productmock.Gateway{ListFn: func(context.Context) ([]domain.Product, error) { return catalogue(), nil }}, nil)
	f.Load(ctx)

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2}},
		{"   ", []int64{1, 2}},
		{"kur", []int64{1}},
		{"24", []int64{2}},
		{"2.25", []int64{2}},
		{"10000000", []int64{1}},
		{"nothing", nil},
	}
	for _, tt := range tests {
		f.UpdateQuery(tt.query)
		got := f.Filtered()
		if len(got) != len(tt.want) {
			t.Fatalf("query %q: got %d items, want %v", tt.query, len(got), tt.want)
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Fatalf("query %q: got id %d at %d", tt.query, got[i].ID, i)
			}
		}
	}
}

func TestCreate_ServerValidationMessage(t *testing.T) {
	ctx := context.Background()
	calls := 0
	f := newFacade(&productmock.Gateway{CreateFn: func(context.Context, domain.Request) (*domain.Product, error) {
		calls++
		return nil, &api.Error{
			Status:  http.StatusBadRequest,
			Message: "Validation failed",
			Details: []api.FieldError{{Field: "name", DefaultMessage: "name already exists"}, {Field: "tenor", DefaultMessage: "tenor not offered"}},
		}
	}}, nil)

	_, ok := f.Create(ctx, domain.Request{Name: "KUR", Amount: decimal.NewFromInt(1_000_000), Tenor: 12})
	if ok {
		t.Fatal("Create must fail")
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, calls = %d", calls)
	}
	if got := f.Snapshot().Error; got != "Validation failed: name already exists, tenor not offered" {
		t.Fatalf("error = %q", got)
	}
}

func TestCreate_RejectsNonPositiveAmount(t *testing.T) {
	f := newFacade(&productmock.Gateway{}, nil)
	if _, ok := f.Create(context.Background(), domain.Request{Name: "X", Amount: decimal.Zero, Tenor: 6}); ok {
		t.Fatal("zero amount must be rejected client side")
	}
	if got := f.Snapshot().Error; got != "Validation failed: amount must be greater than 0" {
		t.Fatalf("error = %q", got)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	deletes := 0
	gw := &productmock.Gateway{
		ListFn: func(context.Context) ([]domain.Product, error) { return catalogue(), nil },
		DeleteFn: func(_ context.Context, id int64) error {
			deletes++
			if id == 2 {
				return &api.Error{Status: http.StatusConflict, Message: "Product is used by loans"}
			}
			return nil
		},
	}

	t.Run("declined", func(t *testing.T) {
		deletes = 0
		f := newFacade(gw, &prompt.Static{Answer: false})
		f.Load(ctx)
		if f.Delete(ctx, catalogue()[0]) {
			t.Fatal("declined delete must return false")
		}
		if deletes != 0 || len(f.Filtered()) != 2 {
			t.Fatalf("deletes=%d items=%d", deletes, len(f.Filtered()))
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		deletes = 0
		confirm := &prompt.Static{Answer: true}
		f := newFacade(gw, confirm)
		f.Load(ctx)
		if !f.Delete(ctx, catalogue()[0]) {
			t.Fatal("Delete failed")
		}
		if got := f.Filtered(); len(got) != 1 || got[0].ID != 2 {
			t.Fatalf("items = %+v", got)
		}
		if confirm.Asked[0].Type != prompt.KindDanger || confirm.Asked[0].ConfirmText != "Delete" {
			t.Fatalf("asked = %+v", confirm.Asked[0])
		}
	})

	t.Run("failure alerts", func(t *testing.T) {
		confirm := &prompt.Static{Answer: true}
		f := newFacade(gw, confirm)
		f.Load(ctx)
		if f.Delete(ctx, catalogue()[1]) {
			t.Fatal("Delete must fail")
		}
		if len(confirm.Alerts) != 1 || confirm.Alerts[0].Message != "Product is used by loans" {
			t.Fatalf("alerts = %+v", confirm.Alerts)
		}
		if f.Snapshot().Error != "" || len(f.Filtered()) != 2 {
			t.Fatal("row-level failure must not touch the list error or cache")
		}
	})
}

func TestVanishedTarget(t *testing.T) {
	ctx := context.Background()
	gone := &api.Error{Status: http.StatusNotFound, Message: "Product not found"}
	gw := &productmock.Gateway{
		ListFn: func(context.Context) ([]domain.Product, error) { return catalogue(), nil },
		UpdateFn: func(context.Context, int64, domain.Request) (*domain.Product, error) {
			return nil, gone
		},
		DeleteFn: func(context.Context, int64) error { return gone },
	}
	confirm := &prompt.Static{Answer: true}
	f := newFacade(gw, confirm)
	f.Load(ctx)

	p := catalogue()[0]
	req := domain.Request{Name: p.Name, Amount: p.Amount, Tenor: p.Tenor, InterestRate: p.InterestRate}
	if _, ok := f.Update(ctx, p.ID, req); ok {
		t.Fatal("Update of a vanished product must report false")
	}
	s := f.Snapshot()
	if s.Error != "" || len(s.Items) != 1 || s.Items[0].ID != 2 {
		t.Fatalf("after update: %+v", s)
	}

	if !f.Delete(ctx, catalogue()[1]) {
		t.Fatal("delete of a vanished product counts as done")
	}
	s = f.Snapshot()
	if s.Error != "" || len(s.Items) != 0 || len(confirm.Alerts) != 0 {
		t.Fatalf("after delete: %+v alerts=%+v", s, confirm.Alerts)
	}
}
