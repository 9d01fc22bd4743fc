package repositories

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
	tu "github.com/desertthunder/carvy/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCarFile(t *testing.T) (*FileRepository[models.Car, *models.Car], string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cars.csv")
	repo, err := NewFileRepository[models.Car](path, CarCodec{}, nil)
	require.NoError(t, err)
	return repo, path
}

func TestFileRepository(t *testing.T) {
	t.Run("CreatesHeader", func(t *testing.T) {
		_, path := newCarFile(t)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "car_id,brand,model,year,price,mileage,status\n", string(data))
	})

	t.Run("AssignsSequentialIDs", func(t *testing.T) {
		repo, _ := newCarFile(t)

		first := &models.Car{Brand: "Dacia", Model: "Logan", Year: 2020, Price: 9000.25, Status: models.CarAvailable}
		second := &models.Car{CarID: 10, Brand: "Ford", Model: "Puma", Year: 2022, Status: models.CarSold}
		third := &models.Car{Brand: "Kia", Model: "Ceed", Year: 2021, Status: models.CarLeased}
		require.NoError(t, repo.Create(first))
		require.NoError(t, repo.Create(second))
		require.NoError(t, repo.Create(third))

		assert.Equal(t, int64(1), first.CarID)
		assert.Equal(t, int64(10), second.CarID)
		assert.Equal(t, int64(11), third.CarID)

		got, err := repo.Read(1)
		require.NoError(t, err)
		assert.Equal(t, *first, *got)

		all, err := repo.ReadAll()
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		repo, _ := newCarFile(t)

		require.NoError(t, repo.Create(&models.Car{CarID: 3, Brand: "A", Model: "B", Status: models.CarAvailable}))
		err := repo.Create(&models.Car{CarID: 3, Brand: "C", Model: "D", Status: models.CarAvailable})
		assert.True(t, errors.Is(err, shared.ErrDuplicateID))
	})

	t.Run("ReadAbsent", func(t *testing.T) {
		repo, _ := newCarFile(t)

		got, err := repo.Read(5)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("UpdateAndDelete", func(t *testing.T) {
		repo, _ := newCarFile(t)

		car := &models.Car{Brand: "Skoda", Model: "Superb, Combi", Year: 2018, Status: models.CarAvailable}
		require.NoError(t, repo.Create(car))

		car.Status = models.CarSold
		require.NoError(t, repo.Update(car))

		got, err := repo.Read(car.CarID)
		require.NoError(t, err)
		assert.Equal(t, models.CarSold, got.Status)
		assert.Equal(t, "Superb, Combi", got.Model)

		require.NoError(t, repo.Delete(car.CarID))
		got, err = repo.Read(car.CarID)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.True(t, errors.Is(repo.Delete(car.CarID), shared.ErrNotFound))
		assert.True(t, errors.Is(repo.Update(car), shared.ErrNotFound))
	})

	t.Run("CorruptRecord", func(t *testing.T) {
		repo, path := newCarFile(t)

		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
		require.NoError(t, err)
		_, err = f.WriteString("x,Dacia,Logan,2020,1,1,AVAILABLE\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		_, err = repo.ReadAll()
		assert.True(t, errors.Is(err, shared.ErrCorruptStore))
	})
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	car := &models.Car{Brand: "Tesla", Model: "3", Year: 2023, Price: 41000, Status: models.CarLeased}
	require.NoError(t, store.Cars.Create(car))
	client := &models.Client{Person: models.Person{FirstName: "Elena", LastName: "Radu", NationalID: "2"}}
	require.NoError(t, store.Clients.Create(client))

	leasing := &models.Leasing{CarID: car.CarID, ClientID: client.ClientID, DurationMonths: 48, InterestRate: 3.9}
	require.NoError(t, store.Leasings.Create(leasing))

	got, err := store.Leasings.Read(leasing.LeasingID)
	require.NoError(t, err)
	require.NotNil(t, got.Car)
	require.NotNil(t, got.Client)
	assert.Equal(t, "Tesla", got.Car.Brand)
	assert.Equal(t, "Elena", got.Client.FirstName)

	date := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tx := &models.Transaction{CarID: car.CarID, ClientID: client.ClientID, TransactionType: models.TransactionLeased, TransactionDate: date}
	require.NoError(t, store.Transactions.Create(tx))

	gotTx, err := store.Transactions.Read(tx.TransactionID)
	require.NoError(t, err)
	assert.True(t, gotTx.TransactionDate.Equal(date))
	assert.Equal(t, models.TransactionLeased, gotTx.TransactionType)

	employee := &models.Employee{Person: models.Person{FirstName: "Dan", LastName: "Stan", NationalID: "3"}, Role: "Sales"}
	require.NoError(t, store.Employees.Create(employee))
	employees, err := store.Employees.ReadAll()
	require.NoError(t, err)
	assert.Len(t, employees, 1)

	assert.NoError(t, store.Close())
}

func TestLeasingHydrator(t *testing.T) {
	cars := &tu.StubReader[models.Car]{Entities: map[int64]*models.Car{7: {CarID: 7, Brand: "BMW"}}}
	clients := &tu.StubReader[models.Client]{Entities: map[int64]*models.Client{}}
	h := NewLeasingHydrator(cars, clients)

	t.Run("ResolvesKnownIDs", func(t *testing.T) {
		l := &models.Leasing{CarID: 7, ClientID: 6}
		require.NoError(t, h.Hydrate(l))
		require.NotNil(t, l.Car)
		assert.Equal(t, "BMW", l.Car.Brand)
		assert.Nil(t, l.Client, "unknown client leaves the reference nil")
	})

	t.Run("SkipsZeroIDs", func(t *testing.T) {
		cars.Calls, clients.Calls = 0, 0
		require.NoError(t, h.Hydrate(&models.Leasing{}))
		assert.Zero(t, cars.Calls)
		assert.Zero(t, clients.Calls)
	})

	t.Run("PropagatesReadErrors", func(t *testing.T) {
		failing := NewLeasingHydrator(&tu.StubReader[models.Car]{Err: tu.ErrStoreOffline}, clients)
		err := failing.Hydrate(&models.Leasing{CarID: 1})
		assert.ErrorIs(t, err, tu.ErrStoreOffline)
		assert.ErrorContains(t, err, "failed to read car 1")
	})
}
