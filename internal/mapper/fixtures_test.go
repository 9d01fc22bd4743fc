package mapper

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

type vehicleStatus string

const (
	statusAvailable vehicleStatus = "AVAILABLE"
	statusLeased    vehicleStatus = "LEASED"
	statusSold      vehicleStatus = "SOLD"
)

type vehicle struct {
	ID      int64
	Brand   string
	Model   string
	Year    int
	Price   float32
	Mileage int
	Status  vehicleStatus
	Owners  []string
}

func (v *vehicle) GetID() int64 { return v.ID }

func vehicleFields() []Field[vehicle] {
	return []Field[vehicle]{
		Int64Field("carId", func(v *vehicle) *int64 { return &v.ID }),
		StringField("brand", func(v *vehicle) *string { return &v.Brand }),
		StringField("model", func(v *vehicle) *string { return &v.Model }),
		IntField("year", func(v *vehicle) *int { return &v.Year }),
		Float32Field("price", func(v *vehicle) *float32 { return &v.Price }),
		IntField("mileage", func(v *vehicle) *int { return &v.Mileage }),
		EnumField("status", func(v *vehicle) *vehicleStatus { return &v.Status },
			[]vehicleStatus{statusAvailable, statusLeased, statusSold}),
		CollectionField[vehicle]("owners"),
	}
}

type party struct {
	ID   int64
	Name string
}

func (p *party) GetID() int64 { return p.ID }

type contract struct {
	ID       int64
	CarID    int64
	ClientID int64
	Months   int
	Rate     float32
	SignedAt time.Time
	Car      *vehicle
	Client   *party
	Broker   *party
}

func contractFields() []Field[contract] {
	return []Field[contract]{
		Int64Field("leasingId", func(c *contract) *int64 { return &c.ID }),
		Int64Field("carId", func(c *contract) *int64 { return &c.CarID }),
		Int64Field("clientId", func(c *contract) *int64 { return &c.ClientID }),
		IntField("durationMonths", func(c *contract) *int { return &c.Months }),
		Float32Field("interestRate", func(c *contract) *float32 { return &c.Rate }),
		TimeField("signedAt", func(c *contract) *time.Time { return &c.SignedAt }),
		ReferenceField("car", func(c *contract) **vehicle { return &c.Car }),
		ReferenceField("client", func(c *contract) **party { return &c.Client }),
		ReferenceField("brokerId", func(c *contract) **party { return &c.Broker }),
	}
}

const vehicleDDL = `CREATE TABLE cars (
	car_id INTEGER PRIMARY KEY AUTOINCREMENT,
	brand TEXT NOT NULL,
	model TEXT NOT NULL,
	year INTEGER NOT NULL,
	price REAL NOT NULL,
	mileage INTEGER NOT NULL,
	status TEXT
)`

const contractDDL = `CREATE TABLE leasings (
	leasing_id INTEGER PRIMARY KEY AUTOINCREMENT,
	car_id INTEGER,
	client_id INTEGER,
	duration_months INTEGER,
	interest_rate REAL,
	signed_at TIMESTAMP,
	broker_id INTEGER
)`

// setupTestDB opens an in-memory database pinned to a single connection so every
// checkout sees the same tables.
func setupTestDB(t *testing.T, ddl ...string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range ddl {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func newVehicleRepo(t *testing.T, db *sql.DB, opts ...Option[vehicle]) *DBRepository[vehicle] {
	t.Helper()

	schema, err := NewSchema(KindCar, Tables, vehicleFields()...)
	require.NoError(t, err)
	return NewDBRepository(db, SQLite, schema, opts...)
}

func newContractRepo(t *testing.T, db *sql.DB, opts ...Option[contract]) *DBRepository[contract] {
	t.Helper()

	schema, err := NewSchema(KindLeasing, Tables, contractFields()...)
	require.NoError(t, err)
	return NewDBRepository(db, SQLite, schema, opts...)
}
