package services

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
)

// LeasingService prices, records and looks up leasing contracts.
type LeasingService struct {
	leasings     models.Repository[models.Leasing]
	cars         models.Repository[models.Car]
	clients      models.Reader[models.Client]
	transactions models.Repository[models.Transaction]
	calc         Calculator
	logger       *log.Logger
}

func NewLeasingService(
	leasings models.Repository[models.Leasing],
	cars models.Repository[models.Car],
	clients models.Reader[models.Client],
	transactions models.Repository[models.Transaction],
	calc Calculator,
	logger *log.Logger,
) *LeasingService {
	return &LeasingService{
		leasings:     leasings,
		cars:         cars,
		clients:      clients,
		transactions: transactions,
		calc:         calc,
		logger:       logger,
	}
}

// LeaseRequest carries the terms a client asks for.
type LeaseRequest struct {
	CarID          int64
	ClientID       int64
	DurationMonths int
	InterestRate   float32
	DownPayment    float32
}

// Estimate prices req without recording anything.
func (s *LeasingService) Estimate(req LeaseRequest) (Quote, error) {
	car, client, err := s.parties(req)
	if err != nil {
		return Quote{}, err
	}
	return s.quote(req, car, client)
}

// Add prices req, stores the contract, marks the car LEASED and records a LEASED
// transaction. Only available cars can be leased.
func (s *LeasingService) Add(req LeaseRequest) (*models.Leasing, error) {
	car, client, err := s.parties(req)
	if err != nil {
		return nil, err
	}
	if !car.IsAvailable() {
		return nil, fmt.Errorf("car %d is %s: %w", car.CarID, car.Status, shared.ErrCarUnavailable)
	}

	q, err := s.quote(req, car, client)
	if err != nil {
		return nil, err
	}

	leasing := &models.Leasing{
		CarID:          car.CarID,
		ClientID:       client.ClientID,
		DurationMonths: req.DurationMonths,
		InterestRate:   req.InterestRate,
		MonthlyRate:    float32(q.MonthlyRate),
		TotalAmount:    float32(q.TotalAmount),
	}
	if err := models.Validate(leasing); err != nil {
		return nil, err
	}
	if err := s.leasings.Create(leasing); err != nil {
		return nil, fmt.Errorf("failed to add leasing: %w", err)
	}

	car.Status = models.CarLeased
	if err := s.cars.Update(car); err != nil {
		return nil, fmt.Errorf("failed to mark car leased: %w", err)
	}

	tx := &models.Transaction{
		CarID:           car.CarID,
		ClientID:        client.ClientID,
		TransactionType: models.TransactionLeased,
		TransactionDate: clock(),
	}
	if err := s.transactions.Create(tx); err != nil {
		return nil, fmt.Errorf("failed to record lease: %w", err)
	}

	leasing.Car, leasing.Client = car, client
	s.logger.Info("leasing added", "id", leasing.LeasingID, "car", car.CarID, "client", client.ClientID,
		"monthly", q.MonthlyRate, "loyalty", q.LoyaltyApplied)
	return leasing, nil
}

// AdjustRate applies the loyalty discount of clientID to baseRate.
func (s *LeasingService) AdjustRate(clientID int64, baseRate float32) (float32, error) {
	sales, err := purchasesOf(s.transactions, clientID)
	if err != nil {
		return 0, err
	}
	adjusted, _ := s.calc.AdjustRate(len(sales), float64(baseRate))
	return float32(adjusted), nil
}

func (s *LeasingService) Find(id int64) (*models.Leasing, error) {
	return find(s.leasings, "leasing", id)
}

func (s *LeasingService) List() ([]*models.Leasing, error) {
	return s.leasings.ReadAll()
}

// ByClient lists the contracts of clientID.
func (s *LeasingService) ByClient(clientID int64) ([]*models.Leasing, error) {
	all, err := s.leasings.ReadAll()
	if err != nil {
		return nil, err
	}
	return filter(all, func(l *models.Leasing) bool { return l.ClientID == clientID }), nil
}

// Delete removes a contract. The leased car keeps its status.
func (s *LeasingService) Delete(id int64) error {
	if _, err := s.Find(id); err != nil {
		return err
	}
	return s.leasings.Delete(id)
}

func (s *LeasingService) parties(req LeaseRequest) (*models.Car, *models.Client, error) {
	car, err := find(s.cars, "car", req.CarID)
	if err != nil {
		return nil, nil, err
	}
	client, err := find(s.clients, "client", req.ClientID)
	if err != nil {
		return nil, nil, err
	}
	return car, client, nil
}

func (s *LeasingService) quote(req LeaseRequest, car *models.Car, client *models.Client) (Quote, error) {
	sales, err := purchasesOf(s.transactions, client.ClientID)
	if err != nil {
		return Quote{}, err
	}
	return s.calc.Quote(float64(car.Price), float64(req.DownPayment), float64(req.InterestRate), req.DurationMonths, len(sales))
}
