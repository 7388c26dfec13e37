package service

import (
	"context"
	"strings"

	"github.com/radstooling/backoffice-system/internal/model"
	"github.com/radstooling/backoffice-system/internal/validation"
)

// AddressInput is the payload for creating or updating a saved address.
type AddressInput struct {
	Nickname     string
	FullName     string
	Phone        string
	Email        string
	Province     string
	ProvinceCode string
	City         string
	CityCode     string
	Barangay     string
	BarangayCode string
	Street       string
	PostalCode   string
	IsDefault    bool
}

func validateAddressInput(in *AddressInput) error {
	if strings.TrimSpace(in.FullName) == "" {
		return &ValidationError{Field: "full_name", Message: "full name is required"}
	}

	phone, ok := validation.NormalizePHPhone(in.Phone)
	if !ok {
		return &ValidationError{Field: "phone", Message: "mobile number must be a PH number (+639XXXXXXXXX)"}
	}
	in.Phone = phone

	if in.Province == "" || in.ProvinceCode == "" {
		return &ValidationError{Field: "province", Message: "province is required"}
	}
	if in.City == "" || in.CityCode == "" {
		return &ValidationError{Field: "city", Message: "city or municipality is required"}
	}
	if in.Barangay == "" || in.BarangayCode == "" {
		return &ValidationError{Field: "barangay", Message: "barangay is required"}
	}
	if strings.TrimSpace(in.Street) == "" {
		return &ValidationError{Field: "street", Message: "street address is required"}
	}
	if !validation.IsValidPostalCode(in.PostalCode) {
		return &ValidationError{Field: "postal_code", Message: "postal code must be 4-5 digits"}
	}
	return nil
}

// CreateAddress validates and saves a new address. The customer's first
// address becomes the default regardless of the flag.
func (s *Service) CreateAddress(ctx context.Context, customerID int64, in AddressInput) (*model.Address, error) {
	if err := validateAddressInput(&in); err != nil {
		return nil, err
	}

	a := addressFromInput(customerID, in)
	id, err := s.repo.CreateAddress(ctx, a)
	if err != nil {
		return nil, err
	}
	return s.repo.GetAddress(ctx, customerID, id)
}

// UpdateAddress validates and overwrites an existing address. The default
// flag is not changed here; use SetDefaultAddress.
func (s *Service) UpdateAddress(ctx context.Context, customerID, addressID int64, in AddressInput) (*model.Address, error) {
	if err := validateAddressInput(&in); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetAddress(ctx, customerID, addressID); err != nil {
		return nil, err
	}

	a := addressFromInput(customerID, in)
	a.ID = addressID
	if err := s.repo.UpdateAddress(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetAddress(ctx, customerID, addressID)
}

func addressFromInput(customerID int64, in AddressInput) *model.Address {
	return &model.Address{
		CustomerID:   customerID,
		Nickname:     strings.TrimSpace(in.Nickname),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        in.Phone,
		Email:        strings.TrimSpace(strings.ToLower(in.Email)),
		Province:     in.Province,
		ProvinceCode: in.ProvinceCode,
		City:         in.City,
		CityCode:     in.CityCode,
		Barangay:     in.Barangay,
		BarangayCode: in.BarangayCode,
		Street:       strings.TrimSpace(in.Street),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		IsDefault:    in.IsDefault,
	}
}

// ListAddresses returns the customer's saved addresses, default first.
func (s *Service) ListAddresses(ctx context.Context, customerID int64) ([]model.Address, error) {
	return s.repo.ListAddresses(ctx, customerID)
}

// GetAddress returns one of the customer's addresses.
func (s *Service) GetAddress(ctx context.Context, customerID, addressID int64) (*model.Address, error) {
	return s.repo.GetAddress(ctx, customerID, addressID)
}

// DeleteAddress removes an address. When the default is deleted the most
// recently created remaining address becomes the new default.
func (s *Service) DeleteAddress(ctx context.Context, customerID, addressID int64) error {
	return s.repo.DeleteAddress(ctx, customerID, addressID)
}

// SetDefaultAddress makes one address the default and unsets the rest.
func (s *Service) SetDefaultAddress(ctx context.Context, customerID, addressID int64) error {
	return s.repo.SetDefaultAddress(ctx, customerID, addressID)
}
