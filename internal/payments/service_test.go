package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/PabloPavan/sellerdesk/internal/accounts"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/identity"
)

type storeStub struct {
	getFn        func(ctx context.Context, id string) (*accounts.Account, error)
	setCountryFn func(ctx context.Context, id, country string) error
}

func (s *storeStub) GetByID(ctx context.Context, id string) (*accounts.Account, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return &accounts.Account{ID: id}, nil
}

func (s *storeStub) SetCountry(ctx context.Context, id, country string) error {
	if s.setCountryFn != nil {
		return s.setCountryFn(ctx, id, country)
	}
	return nil
}

func sellerCtx() context.Context {
	return identity.WithSeller(context.Background(), "sel_1", "seller")
}

func TestSetCountry(t *testing.T) {
	var got string
	svc := &Service{Store: &storeStub{setCountryFn: func(ctx context.Context, id, country string) error {
		got = country
		return nil
	}}}

	if err := svc.SetCountry(sellerCtx(), " gb "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "GB" {
		t.Fatalf("expected GB, got %q", got)
	}
}

func TestSetCountryRejectsUnsupported(t *testing.T) {
	svc := &Service{Store: &storeStub{setCountryFn: func(ctx context.Context, id, country string) error {
		t.Fatal("store must not be called")
		return nil
	}}}

	for _, code := range []string{"BR", "XX", ""} {
		err := svc.SetCountry(sellerCtx(), code)
		assertKind(t, err, apperrors.KindInvalidInput)
	}
}

func TestSetCountryConflictWhenAlreadySet(t *testing.T) {
	svc := &Service{Store: &storeStub{setCountryFn: func(ctx context.Context, id, country string) error {
		return accounts.ErrCountrySet
	}}}

	err := svc.SetCountry(sellerCtx(), "US")
	assertKind(t, err, apperrors.KindConflict)
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Message != CountryLockedMessage {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSetCountryRequiresSeller(t *testing.T) {
	svc := &Service{Store: &storeStub{}}
	assertKind(t, svc.SetCountry(context.Background(), "US"), apperrors.KindUnauthorized)

	support := identity.WithSeller(context.Background(), "sel_1", "support")
	assertKind(t, svc.SetCountry(support, "US"), apperrors.KindForbidden)
}

func TestCountryPage(t *testing.T) {
	us := "US"
	svc := &Service{
		Store: &storeStub{getFn: func(ctx context.Context, id string) (*accounts.Account, error) {
			return &accounts.Account{ID: id, Country: &us}, nil
		}},
		Countries: map[string]string{"US": "United States"},
	}

	page, err := svc.Country(sellerCtx())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Country == nil || *page.Country != "US" || len(page.Countries) != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestSupported(t *testing.T) {
	if !Supported(Countries, "US") {
		t.Fatal("US should be supported")
	}
	if Supported(Countries, "BR") {
		t.Fatal("BR is marked not supported")
	}
	if Supported(Countries, "ZZ") {
		t.Fatal("unknown code must not be supported")
	}
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperrors.KindOf(err); got != kind {
		t.Fatalf("expected %s, got %s (%v)", kind, got, err)
	}
}
