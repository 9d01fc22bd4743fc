package services

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
)

// CarService manages the car stock.
type CarService struct {
	cars         models.Repository[models.Car]
	clients      models.Reader[models.Client]
	transactions models.Repository[models.Transaction]
	logger       *log.Logger
}

func NewCarService(cars models.Repository[models.Car], clients models.Reader[models.Client], transactions models.Repository[models.Transaction], logger *log.Logger) *CarService {
	return &CarService{cars: cars, clients: clients, transactions: transactions, logger: logger}
}

// CarFilter narrows a car listing. Zero values disable a criterion.
type CarFilter struct {
	Status   models.CarStatus
	MaxPrice float32
	MinYear  int
}

// Add validates and stores a new car. A car without status is AVAILABLE.
func (s *CarService) Add(car *models.Car) error {
	if car.Status == "" {
		car.Status = models.CarAvailable
	}
	if err := models.Validate(car); err != nil {
		return err
	}
	if err := s.cars.Create(car); err != nil {
		return fmt.Errorf("failed to add car: %w", err)
	}
	s.logger.Info("car added", "id", car.CarID, "brand", car.Brand, "model", car.Model)
	return nil
}

// Find returns the car with id or an error wrapping [shared.ErrNotFound].
func (s *CarService) Find(id int64) (*models.Car, error) {
	return find(s.cars, "car", id)
}

func (s *CarService) List() ([]*models.Car, error) {
	return s.cars.ReadAll()
}

func (s *CarService) Delete(id int64) error {
	if err := s.cars.Delete(id); err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	return nil
}

// Available lists the cars that can still be sold or leased.
func (s *CarService) Available() ([]*models.Car, error) {
	return s.Filter(CarFilter{Status: models.CarAvailable})
}

// MarkSold moves an available car to SOLD.
func (s *CarService) MarkSold(id int64) (*models.Car, error) {
	return s.transition(id, models.CarSold)
}

// MarkLeased moves an available car to LEASED.
func (s *CarService) MarkLeased(id int64) (*models.Car, error) {
	return s.transition(id, models.CarLeased)
}

func (s *CarService) transition(id int64, to models.CarStatus) (*models.Car, error) {
	car, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	if !car.IsAvailable() {
		return nil, fmt.Errorf("car %d is %s: %w", id, car.Status, shared.ErrCarUnavailable)
	}

	car.Status = to
	if err := s.cars.Update(car); err != nil {
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	s.logger.Info("car status changed", "id", id, "status", to)
	return car, nil
}

// Sell marks the car sold to clientID and records the sale transaction.
func (s *CarService) Sell(carID, clientID int64) (*models.Transaction, error) {
	if _, err := find(s.clients, "client", clientID); err != nil {
		return nil, err
	}
	if _, err := s.MarkSold(carID); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		CarID:           carID,
		ClientID:        clientID,
		TransactionType: models.TransactionSold,
		TransactionDate: clock(),
	}
	if err := s.transactions.Create(tx); err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}
	return tx, nil
}

// Search matches term case-insensitively against brand and model.
func (s *CarService) Search(term string) ([]*models.Car, error) {
	all, err := s.cars.ReadAll()
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	return filter(all, func(c *models.Car) bool {
		return strings.Contains(strings.ToLower(c.Brand), term) || strings.Contains(strings.ToLower(c.Model), term)
	}), nil
}

// Filter lists the cars matching every set criterion of f.
func (s *CarService) Filter(f CarFilter) ([]*models.Car, error) {
	all, err := s.cars.ReadAll()
	if err != nil {
		return nil, err
	}

	return filter(all, func(c *models.Car) bool {
		switch {
		case f.Status != "" && c.Status != f.Status:
			return false
		case f.MaxPrice > 0 && c.Price > f.MaxPrice:
			return false
		case f.MinYear > 0 && c.Year < f.MinYear:
			return false
		}
		return true
	}), nil
}

// Sorted lists every car ordered by field: price, year, mileage or brand.
func (s *CarService) Sorted(field string, descending bool) ([]*models.Car, error) {
	var compare func(a, b *models.Car) int
	switch strings.ToLower(field) {
	case "price":
		compare = func(a, b *models.Car) int { return cmp.Compare(a.Price, b.Price) }
	case "year":
		compare = func(a, b *models.Car) int { return cmp.Compare(a.Year, b.Year) }
	case "mileage":
		compare = func(a, b *models.Car) int { return cmp.Compare(a.Mileage, b.Mileage) }
	case "brand":
		compare = func(a, b *models.Car) int {
			return cmp.Or(strings.Compare(a.Brand, b.Brand), strings.Compare(a.Model, b.Model))
		}
	default:
		return nil, fmt.Errorf("%w: cannot sort by %q", shared.ErrInvalidArgument, field)
	}

	all, err := s.cars.ReadAll()
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(all, func(a, b *models.Car) int {
		if descending {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return all, nil
}
