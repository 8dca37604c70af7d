package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// addressService implements the AddressService interface.
type addressService struct {
	addressRepo db.AddressRepository
}

// NewAddressService creates a new AddressService instance.
func NewAddressService(ar db.AddressRepository) AddressService {
	return &addressService{addressRepo: ar}
}

// List returns every address of the user.
func (s *addressService) List(ctx context.Context, userID string) ([]*models.Address, error) {
	addresses, err := s.addressRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for user '%s': %w", userID, err)
	}
	return addresses, nil
}

// Get returns one address.
func (s *addressService) Get(ctx context.Context, userID, addressID string) (*models.Address, error) {
	address, err := s.addressRepo.GetByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrAddressNotFound, addressID)
		}
		return nil, fmt.Errorf("failed to get address '%s': %w", addressID, err)
	}
	return address, nil
}

// Create stores a new shipping address.
func (s *addressService) Create(ctx context.Context, userID string, req models.CreateAddressRequest) (*models.Address, error) {
	address := &models.Address{
		Name:         req.Name,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	}
	id, err := s.addressRepo.Create(ctx, userID, address)
	if err != nil {
		return nil, fmt.Errorf("failed to create address for user '%s': %w", userID, err)
	}
	address.ID = id
	return address, nil
}

// Update applies the provided fields. Past orders are unaffected because they
// carry a snapshot of the address, not a reference.
func (s *addressService) Update(ctx context.Context, userID, addressID string, req models.UpdateAddressRequest) (*models.Address, error) {
	address, err := s.Get(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		address.Name = *req.Name
	}
	if req.Phone != nil {
		address.Phone = *req.Phone
	}
	if req.AddressLine1 != nil {
		address.AddressLine1 = *req.AddressLine1
	}
	if req.AddressLine2 != nil {
		address.AddressLine2 = *req.AddressLine2
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.State != nil {
		address.State = *req.State
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	if req.Country != nil {
		address.Country = *req.Country
	}

	if err := s.addressRepo.Update(ctx, userID, address); err != nil {
		return nil, fmt.Errorf("failed to update address '%s': %w", addressID, err)
	}
	return address, nil
}

// Delete removes an address. Existing orders keep their snapshot.
func (s *addressService) Delete(ctx context.Context, userID, addressID string) error {
	if _, err := s.Get(ctx, userID, addressID); err != nil {
		return err
	}
	if err := s.addressRepo.Delete(ctx, userID, addressID); err != nil {
		return fmt.Errorf("failed to delete address '%s': %w", addressID, err)
	}
	return nil
}
