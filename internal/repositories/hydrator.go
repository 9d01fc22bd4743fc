package repositories

import (
	"fmt"

	"github.com/desertthunder/carvy/internal/models"
)

// LeasingHydrator attaches the referenced car and client to a leasing read from a store.
type LeasingHydrator struct {
	cars    models.Reader[models.Car]
	clients models.Reader[models.Client]
}

// NewLeasingHydrator creates a hydrator reading through cars and clients.
func NewLeasingHydrator(cars models.Reader[models.Car], clients models.Reader[models.Client]) *LeasingHydrator {
	return &LeasingHydrator{cars: cars, clients: clients}
}

// Hydrate resolves CarID and ClientID one level deep. A zero id is skipped and an id
// with no stored entity leaves the reference nil; read failures are returned.
func (h *LeasingHydrator) Hydrate(l *models.Leasing) error {
	if l.CarID != 0 {
		car, err := h.cars.Read(l.CarID)
		if err != nil {
			return fmt.Errorf("failed to read car %d: %w", l.CarID, err)
		}
		l.Car = car
	}

	if l.ClientID != 0 {
		client, err := h.clients.Read(l.ClientID)
		if err != nil {
			return fmt.Errorf("failed to read client %d: %w", l.ClientID, err)
		}
		l.Client = client
	}
	return nil
}
