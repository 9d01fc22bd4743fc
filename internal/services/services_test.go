package services

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
	tu "github.com/desertthunder/carvy/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	cars         *tu.MemoryRepository[models.Car, *models.Car]
	clients      *tu.MemoryRepository[models.Client, *models.Client]
	employees    *tu.MemoryRepository[models.Employee, *models.Employee]
	leasings     *tu.MemoryRepository[models.Leasing, *models.Leasing]
	transactions *tu.MemoryRepository[models.Transaction, *models.Transaction]
	svc          *Services
}

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	previous := clock
	clock = func() time.Time { return fixedNow }
	t.Cleanup(func() { clock = previous })

	f := &fixture{
		cars:         tu.NewMemoryRepository[models.Car](),
		clients:      tu.NewMemoryRepository[models.Client](),
		employees:    tu.NewMemoryRepository[models.Employee](),
		leasings:     tu.NewMemoryRepository[models.Leasing](),
		transactions: tu.NewMemoryRepository[models.Transaction](),
	}
	logger := log.New(io.Discard)
	terms := shared.LeasingConfig{AdminFee: 250, TaxRate: 19, LoyaltyThreshold: 2, LoyaltyDiscount: 10}
	f.svc = &Services{
		Cars:         NewCarService(f.cars, f.clients, f.transactions, logger),
		Clients:      NewClientService(f.clients, f.cars, f.leasings, f.transactions),
		Employees:    NewEmployeeService(f.employees, f.cars, logger),
		Leasings:     NewLeasingService(f.leasings, f.cars, f.clients, f.transactions, NewCalculator(terms), logger),
		Transactions: NewTransactionService(f.transactions),
	}
	return f
}

func (f *fixture) addCar(t *testing.T, brand, model string, year int, price float32) *models.Car {
	t.Helper()
	car := &models.Car{Brand: brand, Model: model, Year: year, Price: price}
	require.NoError(t, f.svc.Cars.Add(car))
	return car
}

func (f *fixture) addClient(t *testing.T, first, last string) *models.Client {
	t.Helper()
	client := &models.Client{Person: models.Person{FirstName: first, LastName: last, NationalID: first + last}}
	require.NoError(t, f.svc.Clients.Add(client))
	return client
}

func TestCarService(t *testing.T) {
	t.Run("AddDefaultsToAvailable", func(t *testing.T) {
		f := newFixture(t)
		car := f.addCar(t, "Dacia", "Logan", 2020, 9000)
		assert.Equal(t, models.CarAvailable, car.Status)
		assert.Equal(t, int64(1), car.CarID)
	})

	t.Run("AddRejectsInvalid", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Cars.Add(&models.Car{Brand: "Dacia", Year: 1500})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Zero(t, f.cars.Len())
	})

	t.Run("FindMissing", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Cars.Find(9)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("MarkSoldOnlyFromAvailable", func(t *testing.T) {
		f := newFixture(t)
		car := f.addCar(t, "Ford", "Focus", 2018, 11000)

		sold, err := f.svc.Cars.MarkSold(car.CarID)
		require.NoError(t, err)
		assert.Equal(t, models.CarSold, sold.Status)

		_, err = f.svc.Cars.MarkLeased(car.CarID)
		assert.ErrorIs(t, err, shared.ErrCarUnavailable)

		stored, err := f.cars.Read(car.CarID)
		require.NoError(t, err)
		assert.Equal(t, models.CarSold, stored.Status)
	})

	t.Run("Sell", func(t *testing.T) {
		f := newFixture(t)
		car := f.addCar(t, "Audi", "A3", 2019, 18000)
		client := f.addClient(t, "Ana", "Pop")

		tx, err := f.svc.Cars.Sell(car.CarID, client.ClientID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionSold, tx.TransactionType)
		assert.Equal(t, fixedNow, tx.TransactionDate)
		assert.Equal(t, 1, f.transactions.Len())

		_, err = f.svc.Cars.Sell(car.CarID, 404)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("SearchFilterSort", func(t *testing.T) {
		f := newFixture(t)
		f.addCar(t, "Dacia", "Duster", 2021, 16000)
		f.addCar(t, "Renault", "Clio", 2017, 7000)
		bmw := f.addCar(t, "BMW", "X3", 2022, 42000)
		_, err := f.svc.Cars.MarkLeased(bmw.CarID)
		require.NoError(t, err)

		found, err := f.svc.Cars.Search("  dUST ")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Duster", found[0].Model)

		available, err := f.svc.Cars.Available()
		require.NoError(t, err)
		assert.Len(t, available, 2)

		cheap, err := f.svc.Cars.Filter(CarFilter{MaxPrice: 20000, MinYear: 2018})
		require.NoError(t, err)
		require.Len(t, cheap, 1)
		assert.Equal(t, "Dacia", cheap[0].Brand)

		byPrice, err := f.svc.Cars.Sorted("price", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"BMW", "Dacia", "Renault"}, brands(byPrice))

		byYear, err := f.svc.Cars.Sorted("YEAR", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"Renault", "Dacia", "BMW"}, brands(byYear))

		_, err = f.svc.Cars.Sorted("color", false)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		svc := NewCarService(tu.FailingRepository[models.Car]{}, nil, nil, log.New(io.Discard))
		_, err := svc.List()
		assert.ErrorIs(t, err, tu.ErrStoreOffline)
		_, err = svc.Find(1)
		assert.ErrorIs(t, err, tu.ErrStoreOffline)
	})
}

func brands(cars []*models.Car) []string {
	out := make([]string, len(cars))
	for i, c := range cars {
		out[i] = c.Brand
	}
	return out
}

func TestClientService(t *testing.T) {
	f := newFixture(t)
	ana := f.addClient(t, "Ana", "Ionescu")
	f.addClient(t, "Ion", "Popa")

	car := f.addCar(t, "Skoda", "Kamiq", 2023, 23000)
	_, err := f.svc.Cars.Sell(car.CarID, ana.ClientID)
	require.NoError(t, err)

	other := f.addCar(t, "Kia", "Ceed", 2022, 20000)
	_, err = f.svc.Leasings.Add(LeaseRequest{CarID: other.CarID, ClientID: ana.ClientID, DurationMonths: 24, InterestRate: 5})
	require.NoError(t, err)

	got, err := f.svc.Clients.Find(ana.ClientID)
	require.NoError(t, err)
	require.Len(t, got.PurchasedCars, 1)
	assert.Equal(t, "Skoda", got.PurchasedCars[0].Brand)
	require.Len(t, got.LeasedCars, 1)
	assert.Equal(t, other.CarID, got.LeasedCars[0].CarID)

	matches, err := f.svc.Clients.FindByName("popa")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Ion", matches[0].FirstName)

	err = f.svc.Clients.Add(&models.Client{Person: models.Person{FirstName: "NoID"}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	require.NoError(t, f.svc.Clients.Delete(ana.ClientID))
	assert.ErrorIs(t, f.svc.Clients.Delete(ana.ClientID), shared.ErrNotFound)
}

func TestEmployeeService(t *testing.T) {
	f := newFixture(t)
	car := f.addCar(t, "Toyota", "Corolla", 2020, 17000)

	employee := &models.Employee{Person: models.Person{FirstName: "Dan", LastName: "Stan", NationalID: "1"}, Role: "Sales"}
	require.NoError(t, f.svc.Employees.Add(employee))

	assigned, err := f.svc.Employees.AssignCar(employee.EmployeeID, car.CarID)
	require.NoError(t, err)
	require.Len(t, assigned.ManagedCars, 1)
	assert.Equal(t, "Toyota", assigned.ManagedCars[0].Brand)

	again, err := f.svc.Employees.AssignCar(employee.EmployeeID, car.CarID)
	require.NoError(t, err)
	assert.Len(t, again.ManagedCars, 1, "managed cars are not persisted between calls")

	_, err = f.svc.Employees.AssignCar(employee.EmployeeID, 77)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = f.svc.Employees.AssignCar(99, car.CarID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	all, err := f.svc.Employees.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.svc.Employees.Delete(employee.EmployeeID))
	_, err = f.svc.Employees.Find(employee.EmployeeID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLeasingService(t *testing.T) {
	t.Run("Add", func(t *testing.T) {
		f := newFixture(t)
		car := f.addCar(t, "VW", "Golf", 2021, 12000)
		client := f.addClient(t, "Maria", "Dinu")

		leasing, err := f.svc.Leasings.Add(LeaseRequest{CarID: car.CarID, ClientID: client.ClientID, DurationMonths: 12})
		require.NoError(t, err)

		assert.Equal(t, float32(1000), leasing.MonthlyRate)
		assert.Equal(t, float32(14577.5), leasing.TotalAmount)
		require.NotNil(t, leasing.Car)
		assert.Equal(t, models.CarLeased, leasing.Car.Status)

		stored, err := f.cars.Read(car.CarID)
		require.NoError(t, err)
		assert.Equal(t, models.CarLeased, stored.Status)

		leased, err := f.svc.Transactions.ByType(models.TransactionLeased)
		require.NoError(t, err)
		assert.Len(t, leased, 1)

		_, err = f.svc.Leasings.Add(LeaseRequest{CarID: car.CarID, ClientID: client.ClientID, DurationMonths: 12})
		assert.ErrorIs(t, err, shared.ErrCarUnavailable)

		byClient, err := f.svc.Leasings.ByClient(client.ClientID)
		require.NoError(t, err)
		assert.Len(t, byClient, 1)
	})

	t.Run("InvalidTerms", func(t *testing.T) {
		f := newFixture(t)
		car := f.addCar(t, "VW", "Polo", 2021, 10000)
		client := f.addClient(t, "Maria", "Dinu")

		_, err := f.svc.Leasings.Add(LeaseRequest{CarID: car.CarID, ClientID: client.ClientID, DurationMonths: 0})
		assert.ErrorIs(t, err, shared.ErrInvalidLeasing)

		_, err = f.svc.Leasings.Add(LeaseRequest{CarID: car.CarID, ClientID: client.ClientID, DurationMonths: 12, DownPayment: 10000})
		assert.ErrorIs(t, err, shared.ErrInvalidLeasing)

		assert.Zero(t, f.leasings.Len())
		stored, err := f.cars.Read(car.CarID)
		require.NoError(t, err)
		assert.Equal(t, models.CarAvailable, stored.Status)
	})

	t.Run("LoyaltyDiscount", func(t *testing.T) {
		f := newFixture(t)
		client := f.addClient(t, "Loyal", "Buyer")
		for i := 0; i < 3; i++ {
			car := f.addCar(t, "Dacia", "Sandero", 2020, 8000)
			_, err := f.svc.Cars.Sell(car.CarID, client.ClientID)
			require.NoError(t, err)
		}
		car := f.addCar(t, "Dacia", "Jogger", 2023, 12000)

		quote, err := f.svc.Leasings.Estimate(LeaseRequest{CarID: car.CarID, ClientID: client.ClientID, DurationMonths: 12})
		require.NoError(t, err)
		assert.True(t, quote.LoyaltyApplied)
		assert.Equal(t, 900.0, quote.MonthlyRate)

		rate, err := f.svc.Leasings.AdjustRate(client.ClientID, 100)
		require.NoError(t, err)
		assert.Equal(t, float32(90), rate)

		assert.Zero(t, f.leasings.Len(), "estimates are not recorded")
	})

	t.Run("MissingParties", func(t *testing.T) {
		f := newFixture(t)
		car := f.addCar(t, "VW", "Golf", 2021, 12000)

		_, err := f.svc.Leasings.Add(LeaseRequest{CarID: 42, ClientID: 1, DurationMonths: 12})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = f.svc.Leasings.Add(LeaseRequest{CarID: car.CarID, ClientID: 42, DurationMonths: 12})
		assert.ErrorIs(t, err, shared.ErrNotFound)

		assert.ErrorIs(t, f.svc.Leasings.Delete(5), shared.ErrNotFound)
	})
}

func TestTransactionService(t *testing.T) {
	f := newFixture(t)

	tx := &models.Transaction{CarID: 1, ClientID: 2, TransactionType: models.TransactionSold}
	require.NoError(t, f.svc.Transactions.Add(tx))
	assert.Equal(t, fixedNow, tx.TransactionDate)

	err := f.svc.Transactions.Add(&models.Transaction{CarID: 1, TransactionType: "GIFTED"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	require.NoError(t, f.svc.Transactions.Add(&models.Transaction{CarID: 3, ClientID: 4, TransactionType: models.TransactionLeased}))

	sold, err := f.svc.Transactions.ByType(models.TransactionSold)
	require.NoError(t, err)
	assert.Len(t, sold, 1)

	forClient, err := f.svc.Transactions.ByClient(4)
	require.NoError(t, err)
	require.Len(t, forClient, 1)
	assert.Equal(t, models.TransactionLeased, forClient[0].TransactionType)

	_, err = f.svc.Transactions.Find(99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
