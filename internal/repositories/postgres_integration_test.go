//go:build integration

package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/desertthunder/carvy/internal/mapper"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresStore starts a PostgreSQL container and opens a migrated store on it.
func setupPostgresStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("carvy"),
		postgres.WithUsername("carvy"),
		postgres.WithPassword("carvy"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := shared.NewDatabase(shared.DatabaseConfig{Driver: "postgres", URL: url})
	require.NoError(t, err)
	require.NoError(t, shared.RunMigrations(db, "postgres"))

	store, err := NewDBStore(db, mapper.Postgres, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPostgresStore(t *testing.T) {
	store := setupPostgresStore(t)

	t.Run("Car Round Trip", func(t *testing.T) {
		car := &models.Car{Brand: "Dacia", Model: "Spring", Year: 2023, Price: 17999.99, Mileage: 120, Status: models.CarLeased}
		require.NoError(t, store.Cars.Create(car))
		assert.Positive(t, car.CarID)

		got, err := store.Cars.Read(car.CarID)
		require.NoError(t, err)
		assert.Equal(t, *car, *got)

		car.Status = models.CarSold
		require.NoError(t, store.Cars.Update(car))
		got, err = store.Cars.Read(car.CarID)
		require.NoError(t, err)
		assert.Equal(t, models.CarSold, got.Status)
	})

	t.Run("Leasing Hydration", func(t *testing.T) {
		car := &models.Car{Brand: "Renault", Model: "Clio", Year: 2022, Price: 15000, Status: models.CarAvailable}
		client := &models.Client{Person: models.Person{FirstName: "Ana", LastName: "Pop", NationalID: "2900101"}}
		require.NoError(t, store.Cars.Create(car))
		require.NoError(t, store.Clients.Create(client))

		leasing := &models.Leasing{CarID: car.CarID, ClientID: client.ClientID, DurationMonths: 24, InterestRate: 4.5, MonthlyRate: 655.25, TotalAmount: 15976}
		require.NoError(t, store.Leasings.Create(leasing))

		got, err := store.Leasings.Read(leasing.LeasingID)
		require.NoError(t, err)
		require.NotNil(t, got.Car)
		require.NotNil(t, got.Client)
		assert.Equal(t, "Clio", got.Car.Model)
		assert.Equal(t, "Ana Pop", got.Client.FullName())
		assert.InDelta(t, 655.25, got.MonthlyRate, 0.001)
	})

	t.Run("Transaction Timestamp", func(t *testing.T) {
		at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		tx := &models.Transaction{CarID: 1, ClientID: 1, TransactionType: models.TransactionSold, TransactionDate: at}
		require.NoError(t, store.Transactions.Create(tx))

		got, err := store.Transactions.Read(tx.TransactionID)
		require.NoError(t, err)
		assert.True(t, at.Equal(got.TransactionDate), "expected %v, got %v", at, got.TransactionDate)
		assert.Equal(t, models.TransactionSold, got.TransactionType)
	})

	t.Run("Explicit ID Advances Sequence", func(t *testing.T) {
		first := &models.Car{CarID: 500, Brand: "Skoda", Model: "Fabia", Year: 2018, Status: models.CarAvailable}
		require.NoError(t, store.Cars.Create(first))

		next := &models.Car{Brand: "Skoda", Model: "Scala", Year: 2020, Status: models.CarAvailable}
		require.NoError(t, store.Cars.Create(next))
		assert.Greater(t, next.CarID, first.CarID)
	})

	t.Run("Missing Entity", func(t *testing.T) {
		got, err := store.Employees.Read(404)
		require.NoError(t, err)
		assert.Nil(t, got)

		all, err := store.Employees.ReadAll()
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
