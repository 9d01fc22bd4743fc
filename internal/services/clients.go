package services

import (
	"fmt"
	"strings"

	"github.com/desertthunder/carvy/internal/models"
)

// ClientService manages client records. Purchased and leased cars are derived from
// the stored transactions and leasings whenever a single client is looked up.
type ClientService struct {
	clients      models.Repository[models.Client]
	cars         models.Reader[models.Car]
	leasings     models.Repository[models.Leasing]
	transactions models.Repository[models.Transaction]
}

func NewClientService(clients models.Repository[models.Client], cars models.Reader[models.Car], leasings models.Repository[models.Leasing], transactions models.Repository[models.Transaction]) *ClientService {
	return &ClientService{clients: clients, cars: cars, leasings: leasings, transactions: transactions}
}

func (s *ClientService) Add(client *models.Client) error {
	if err := models.Validate(client); err != nil {
		return err
	}
	if err := s.clients.Create(client); err != nil {
		return fmt.Errorf("failed to add client: %w", err)
	}
	return nil
}

// Find returns the client with id, its purchased cars and leasing contracts attached.
func (s *ClientService) Find(id int64) (*models.Client, error) {
	client, err := find(s.clients, "client", id)
	if err != nil {
		return nil, err
	}

	sales, err := purchasesOf(s.transactions, id)
	if err != nil {
		return nil, err
	}
	for _, sale := range sales {
		car, err := s.cars.Read(sale.CarID)
		if err != nil {
			return nil, fmt.Errorf("failed to read car %d: %w", sale.CarID, err)
		}
		if car != nil {
			client.PurchasedCars = append(client.PurchasedCars, *car)
		}
	}

	leasings, err := s.leasings.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read leasings: %w", err)
	}
	for _, l := range leasings {
		if l.ClientID == id {
			l.Client = nil
			client.LeasedCars = append(client.LeasedCars, *l)
		}
	}
	return client, nil
}

// FindByName matches name case-insensitively against first, last and full name.
func (s *ClientService) FindByName(name string) ([]*models.Client, error) {
	all, err := s.clients.ReadAll()
	if err != nil {
		return nil, err
	}

	name = strings.ToLower(strings.TrimSpace(name))
	return filter(all, func(c *models.Client) bool {
		return strings.Contains(strings.ToLower(c.FullName()), name)
	}), nil
}

func (s *ClientService) List() ([]*models.Client, error) {
	return s.clients.ReadAll()
}

func (s *ClientService) Delete(id int64) error {
	if _, err := find(s.clients, "client", id); err != nil {
		return err
	}
	return s.clients.Delete(id)
}
