package models

import (
	"fmt"
	"strings"
	"time"
)

// HasID is implemented by every persisted entity. Ids are positive and assigned by the store.
type HasID interface {
	GetID() int64
	SetID(id int64)
}

// Reader is the read-only half of a [Repository].
// Read returns (nil, nil) when no entity has the given id.
type Reader[T any] interface {
	Read(id int64) (*T, error)
}

// Repository defines the data access operations for one entity kind.
type Repository[T any] interface {
	Reader[T]
	Create(entity *T) error // Create inserts the entity; a zero id is assigned by the store
	ReadAll() ([]*T, error) // ReadAll returns every stored entity in store order
	Update(entity *T) error // Update overwrites the entity with the same id
	Delete(id int64) error  // Delete removes the entity with the given id
}

// CarStatus is the stock state of a [Car].
type CarStatus string

const (
	CarAvailable CarStatus = "AVAILABLE"
	CarLeased    CarStatus = "LEASED"
	CarSold      CarStatus = "SOLD"
)

// CarStatuses lists every [CarStatus] in declaration order.
func CarStatuses() []CarStatus {
	return []CarStatus{CarAvailable, CarLeased, CarSold}
}

// ParseCarStatus matches s case-insensitively against [CarStatuses].
func ParseCarStatus(s string) (CarStatus, error) {
	for _, v := range CarStatuses() {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown car status %q", s)
}

// TransactionType distinguishes sales from leases.
type TransactionType string

const (
	TransactionSold   TransactionType = "SOLD"
	TransactionLeased TransactionType = "LEASED"
)

// TransactionTypes lists every [TransactionType] in declaration order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TransactionSold, TransactionLeased}
}

// ParseTransactionType matches s case-insensitively against [TransactionTypes].
func ParseTransactionType(s string) (TransactionType, error) {
	for _, v := range TransactionTypes() {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

type Car struct {
	CarID   int64     `json:"car_id"`
	Brand   string    `json:"brand" validate:"required"`
	Model   string    `json:"model" validate:"required"`
	Year    int       `json:"year" validate:"gte=1886,lte=2100"`
	Price   float32   `json:"price" validate:"gte=0"`
	Mileage int       `json:"mileage" validate:"gte=0"`
	Status  CarStatus `json:"status" validate:"oneof=AVAILABLE LEASED SOLD"`
}

func (c *Car) GetID() int64   { return c.CarID }
func (c *Car) SetID(id int64) { c.CarID = id }

// IsAvailable reports whether the car can still be sold or leased.
func (c *Car) IsAvailable() bool { return c.Status == CarAvailable }

// Person holds the identity fields shared by clients and employees.
type Person struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Client struct {
	ClientID int64 `json:"client_id"`
	Person
	PurchasedCars []Car     `json:"purchased_cars,omitempty"`
	LeasedCars    []Leasing `json:"leased_cars,omitempty"`
}

func (c *Client) GetID() int64   { return c.ClientID }
func (c *Client) SetID(id int64) { c.ClientID = id }

type Employee struct {
	EmployeeID int64 `json:"employee_id"`
	Person
	Role        string `json:"role" validate:"required"`
	ManagedCars []Car  `json:"managed_cars,omitempty"`
}

func (e *Employee) GetID() int64   { return e.EmployeeID }
func (e *Employee) SetID(id int64) { e.EmployeeID = id }

// Leasing is a leasing contract between a client and the dealership for one car.
// Car and Client are only populated when read back from a store.
type Leasing struct {
	LeasingID      int64   `json:"leasing_id"`
	CarID          int64   `json:"car_id" validate:"gt=0"`
	ClientID       int64   `json:"client_id" validate:"gt=0"`
	DurationMonths int     `json:"duration_months" validate:"gt=0"`
	InterestRate   float32 `json:"interest_rate" validate:"gte=0"`
	MonthlyRate    float32 `json:"monthly_rate" validate:"gte=0"`
	TotalAmount    float32 `json:"total_amount" validate:"gte=0"`
	Car            *Car    `json:"car,omitempty" validate:"-"`
	Client         *Client `json:"client,omitempty" validate:"-"`
}

func (l *Leasing) GetID() int64   { return l.LeasingID }
func (l *Leasing) SetID(id int64) { l.LeasingID = id }

type Transaction struct {
	TransactionID   int64           `json:"transaction_id"`
	CarID           int64           `json:"car_id" validate:"gt=0"`
	ClientID        int64           `json:"client_id" validate:"gt=0"`
	TransactionType TransactionType `json:"transaction_type" validate:"oneof=SOLD LEASED"`
	TransactionDate time.Time       `json:"transaction_date"`
}

func (t *Transaction) GetID() int64   { return t.TransactionID }
func (t *Transaction) SetID(id int64) { t.TransactionID = id }
