package repositories

import (
	"database/sql"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/mapper"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
)

// CarFields lists the stored fields of [models.Car] in declaration order.
func CarFields() []mapper.Field[models.Car] {
	return []mapper.Field[models.Car]{
		mapper.Int64Field("carId", func(c *models.Car) *int64 { return &c.CarID }),
		mapper.StringField("brand", func(c *models.Car) *string { return &c.Brand }),
		mapper.StringField("model", func(c *models.Car) *string { return &c.Model }),
		mapper.IntField("year", func(c *models.Car) *int { return &c.Year }),
		mapper.Float32Field("price", func(c *models.Car) *float32 { return &c.Price }),
		mapper.IntField("mileage", func(c *models.Car) *int { return &c.Mileage }),
		mapper.EnumField("status", func(c *models.Car) *models.CarStatus { return &c.Status }, models.CarStatuses()),
	}
}

// personFields flattens the embedded [models.Person] of T.
func personFields[T any](person func(*T) *models.Person) []mapper.Field[T] {
	return []mapper.Field[T]{
		mapper.StringField("firstName", func(e *T) *string { return &person(e).FirstName }),
		mapper.StringField("lastName", func(e *T) *string { return &person(e).LastName }),
		mapper.StringField("nationalId", func(e *T) *string { return &person(e).NationalID }),
	}
}

// ClientFields lists the fields of [models.Client], person fields included.
func ClientFields() []mapper.Field[models.Client] {
	fields := []mapper.Field[models.Client]{
		mapper.Int64Field("clientId", func(c *models.Client) *int64 { return &c.ClientID }),
	}
	fields = append(fields, personFields(func(c *models.Client) *models.Person { return &c.Person })...)
	return append(fields,
		mapper.CollectionField[models.Client]("purchasedCars"),
		mapper.CollectionField[models.Client]("leasedCars"),
	)
}

// EmployeeFields lists the fields of [models.Employee], person fields included.
func EmployeeFields() []mapper.Field[models.Employee] {
	fields := []mapper.Field[models.Employee]{
		mapper.Int64Field("employeeId", func(e *models.Employee) *int64 { return &e.EmployeeID }),
	}
	fields = append(fields, personFields(func(e *models.Employee) *models.Person { return &e.Person })...)
	return append(fields,
		mapper.StringField("role", func(e *models.Employee) *string { return &e.Role }),
		mapper.CollectionField[models.Employee]("managedCars"),
	)
}

// LeasingFields lists the fields of [models.Leasing]. The car and client references
// are carried by carId and clientId.
func LeasingFields() []mapper.Field[models.Leasing] {
	return []mapper.Field[models.Leasing]{
		mapper.Int64Field("leasingId", func(l *models.Leasing) *int64 { return &l.LeasingID }),
		mapper.Int64Field("carId", func(l *models.Leasing) *int64 { return &l.CarID }),
		mapper.Int64Field("clientId", func(l *models.Leasing) *int64 { return &l.ClientID }),
		mapper.IntField("durationMonths", func(l *models.Leasing) *int { return &l.DurationMonths }),
		mapper.Float32Field("interestRate", func(l *models.Leasing) *float32 { return &l.InterestRate }),
		mapper.Float32Field("monthlyRate", func(l *models.Leasing) *float32 { return &l.MonthlyRate }),
		mapper.Float32Field("totalAmount", func(l *models.Leasing) *float32 { return &l.TotalAmount }),
		mapper.ReferenceField("car", func(l *models.Leasing) **models.Car { return &l.Car }),
		mapper.ReferenceField("client", func(l *models.Leasing) **models.Client { return &l.Client }),
	}
}

// TransactionFields lists the stored fields of [models.Transaction].
func TransactionFields() []mapper.Field[models.Transaction] {
	return []mapper.Field[models.Transaction]{
		mapper.Int64Field("transactionId", func(t *models.Transaction) *int64 { return &t.TransactionID }),
		mapper.Int64Field("carId", func(t *models.Transaction) *int64 { return &t.CarID }),
		mapper.Int64Field("clientId", func(t *models.Transaction) *int64 { return &t.ClientID }),
		mapper.EnumField("transactionType", func(t *models.Transaction) *models.TransactionType { return &t.TransactionType },
			models.TransactionTypes()),
		mapper.TimeField("transactionDate", func(t *models.Transaction) *time.Time { return &t.TransactionDate }),
	}
}

func newRepository[T any](db *sql.DB, d mapper.Dialect, kind mapper.Kind, fields []mapper.Field[T], logger *log.Logger, opts ...mapper.Option[T]) (*mapper.DBRepository[T], error) {
	schema, err := mapper.NewSchema(kind, mapper.Tables, fields...)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		opts = append(opts, mapper.WithLogger[T](shared.WithLogger(logger, "kind", kind.String())))
	}
	return mapper.NewDBRepository(db, d, schema, opts...), nil
}

// NewCarRepository creates the relational car repository.
func NewCarRepository(db *sql.DB, d mapper.Dialect, logger *log.Logger) (*mapper.DBRepository[models.Car], error) {
	return newRepository(db, d, mapper.KindCar, CarFields(), logger)
}

// NewClientRepository creates the relational client repository.
func NewClientRepository(db *sql.DB, d mapper.Dialect, logger *log.Logger) (*mapper.DBRepository[models.Client], error) {
	return newRepository(db, d, mapper.KindClient, ClientFields(), logger)
}

// NewEmployeeRepository creates the relational employee repository.
func NewEmployeeRepository(db *sql.DB, d mapper.Dialect, logger *log.Logger) (*mapper.DBRepository[models.Employee], error) {
	return newRepository(db, d, mapper.KindEmployee, EmployeeFields(), logger)
}

// NewLeasingRepository creates the relational leasing repository. When hydrator is not
// nil every leasing read back gets its Car and Client attached.
func NewLeasingRepository(db *sql.DB, d mapper.Dialect, hydrator *LeasingHydrator, logger *log.Logger) (*mapper.DBRepository[models.Leasing], error) {
	var opts []mapper.Option[models.Leasing]
	if hydrator != nil {
		opts = append(opts, mapper.WithHydrator(hydrator.Hydrate))
	}
	return newRepository(db, d, mapper.KindLeasing, LeasingFields(), logger, opts...)
}

// NewTransactionRepository creates the relational transaction repository.
func NewTransactionRepository(db *sql.DB, d mapper.Dialect, logger *log.Logger) (*mapper.DBRepository[models.Transaction], error) {
	return newRepository(db, d, mapper.KindTransaction, TransactionFields(), logger)
}
