package service

import (
	"context"
	"errors"
	"testing"

	"github.com/radstooling/backoffice-system/internal/repository"
)

func validAddress() AddressInput {
	return AddressInput{
		Nickname:     "Home",
		FullName:     "Juan Dela Cruz",
		Phone:        "09123456789",
		Province:     "Laguna",
		ProvinceCode: "043400000",
		City:         "Calamba",
		CityCode:     "043405000",
		Barangay:     "Real",
		BarangayCode: "043405031",
		Street:       "123 National Hwy",
		PostalCode:   "4027",
	}
}

func TestCreateAddress_FirstBecomesDefault(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	a, err := svc.CreateAddress(ctx, 1, validAddress())
	if err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	if !a.IsDefault {
		t.Fatalf("first address must become the default")
	}
	if a.Phone != "+639123456789" {
		t.Fatalf("phone = %q, want normalized +639123456789", a.Phone)
	}
}

func TestCreateAddress_DefaultRequestUnsetsOthers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.CreateAddress(ctx, 1, validAddress())
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	in := validAddress()
	in.Nickname = "Office"
	in.IsDefault = true
	second, err := svc.CreateAddress(ctx, 1, in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !second.IsDefault {
		t.Fatalf("second address must be the default")
	}

	refreshed, err := svc.GetAddress(ctx, 1, first.ID)
	if err != nil {
		t.Fatalf("GetAddress: %v", err)
	}
	if refreshed.IsDefault {
		t.Fatalf("first address must have lost the default flag")
	}
}

func TestCreateAddress_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	tests := []struct {
		name   string
		mutate func(*AddressInput)
		field  string
	}{
		{"missing name", func(a *AddressInput) { a.FullName = " " }, "full_name"},
		{"bad phone", func(a *AddressInput) { a.Phone = "12345" }, "phone"},
		{"missing province", func(a *AddressInput) { a.Province = "" }, "province"},
		{"missing city code", func(a *AddressInput) { a.CityCode = "" }, "city"},
		{"missing barangay", func(a *AddressInput) { a.Barangay = "" }, "barangay"},
		{"missing street", func(a *AddressInput) { a.Street = "" }, "street"},
		{"bad postal", func(a *AddressInput) { a.PostalCode = "123" }, "postal_code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validAddress()
			tt.mutate(&in)

			_, err := svc.CreateAddress(ctx, 1, in)
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.field {
				t.Fatalf("err = %v, want %s ValidationError", err, tt.field)
			}
		})
	}
}

func TestDeleteAddress_PromotesNewest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.CreateAddress(ctx, 1, validAddress())
	if err != nil {
		t.Fatalf("first: %v", err)
	}

	in := validAddress()
	in.Nickname = "Office"
	second, err := svc.CreateAddress(ctx, 1, in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if err := svc.DeleteAddress(ctx, 1, first.ID); err != nil {
		t.Fatalf("delete default: %v", err)
	}

	promoted, err := svc.GetAddress(ctx, 1, second.ID)
	if err != nil {
		t.Fatalf("GetAddress: %v", err)
	}
	if !promoted.IsDefault {
		t.Fatalf("remaining address must have been promoted to default")
	}
}

func TestAddress_ScopedToCustomer(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	a, err := svc.CreateAddress(ctx, 1, validAddress())
	if err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}

	if _, err := svc.GetAddress(ctx, 2, a.ID); !errors.Is(err, repository.ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound for another customer", err)
	}
	if err := svc.DeleteAddress(ctx, 2, a.ID); !errors.Is(err, repository.ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound for another customer", err)
	}
}

func TestSetDefaultAddress(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.CreateAddress(ctx, 1, validAddress())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	in := validAddress()
	in.Nickname = "Office"
	second, err := svc.CreateAddress(ctx, 1, in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if err := svc.SetDefaultAddress(ctx, 1, second.ID); err != nil {
		t.Fatalf("SetDefaultAddress: %v", err)
	}

	addrs, err := svc.ListAddresses(ctx, 1)
	if err != nil {
		t.Fatalf("ListAddresses: %v", err)
	}
	for _, a := range addrs {
		wantDefault := a.ID == second.ID
		if a.IsDefault != wantDefault {
			t.Fatalf("address %d default = %v, want %v", a.ID, a.IsDefault, wantDefault)
		}
	}
	if len(addrs) != 2 || addrs[0].ID != second.ID || addrs[1].ID != first.ID {
		t.Fatalf("addresses not ordered default first: %+v", addrs)
	}
}
