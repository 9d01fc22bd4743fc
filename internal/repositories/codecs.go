package repositories

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/carvy/internal/models"
)

// CarCodec stores cars as car_id,brand,model,year,price,mileage,status.
type CarCodec struct{}

func (CarCodec) Header() []string {
	return []string{"car_id", "brand", "model", "year", "price", "mileage", "status"}
}

func (CarCodec) Encode(c *models.Car) []string {
	return []string{
		formatID(c.CarID), c.Brand, c.Model, strconv.Itoa(c.Year),
		formatFloat(c.Price), strconv.Itoa(c.Mileage), string(c.Status),
	}
}

func (CarCodec) Decode(record []string) (*models.Car, error) {
	r := recordReader{record: record}
	c := &models.Car{
		CarID:   r.id(0),
		Brand:   record[1],
		Model:   record[2],
		Year:    r.integer(3),
		Price:   r.decimal(4),
		Mileage: r.integer(5),
	}
	if record[6] != "" {
		status, err := models.ParseCarStatus(record[6])
		r.fail(err)
		c.Status = status
	}
	return c, r.err
}

// ClientCodec stores clients as client_id,first_name,last_name,national_id.
type ClientCodec struct{}

func (ClientCodec) Header() []string {
	return []string{"client_id", "first_name", "last_name", "national_id"}
}

func (ClientCodec) Encode(c *models.Client) []string {
	return []string{formatID(c.ClientID), c.FirstName, c.LastName, c.NationalID}
}

func (ClientCodec) Decode(record []string) (*models.Client, error) {
	r := recordReader{record: record}
	c := &models.Client{
		ClientID: r.id(0),
		Person:   models.Person{FirstName: record[1], LastName: record[2], NationalID: record[3]},
	}
	return c, r.err
}

// EmployeeCodec stores employees as employee_id,first_name,last_name,national_id,role.
type EmployeeCodec struct{}

func (EmployeeCodec) Header() []string {
	return []string{"employee_id", "first_name", "last_name", "national_id", "role"}
}

func (EmployeeCodec) Encode(e *models.Employee) []string {
	return []string{formatID(e.EmployeeID), e.FirstName, e.LastName, e.NationalID, e.Role}
}

func (EmployeeCodec) Decode(record []string) (*models.Employee, error) {
	r := recordReader{record: record}
	e := &models.Employee{
		EmployeeID: r.id(0),
		Person:     models.Person{FirstName: record[1], LastName: record[2], NationalID: record[3]},
		Role:       record[4],
	}
	return e, r.err
}

// LeasingCodec stores leasings by car and client id; the references are hydrated on load.
type LeasingCodec struct{}

func (LeasingCodec) Header() []string {
	return []string{"leasing_id", "car_id", "client_id", "duration_months", "interest_rate", "monthly_rate", "total_amount"}
}

func (LeasingCodec) Encode(l *models.Leasing) []string {
	return []string{
		formatID(l.LeasingID), formatID(l.CarID), formatID(l.ClientID), strconv.Itoa(l.DurationMonths),
		formatFloat(l.InterestRate), formatFloat(l.MonthlyRate), formatFloat(l.TotalAmount),
	}
}

func (LeasingCodec) Decode(record []string) (*models.Leasing, error) {
	r := recordReader{record: record}
	l := &models.Leasing{
		LeasingID:      r.id(0),
		CarID:          r.id(1),
		ClientID:       r.id(2),
		DurationMonths: r.integer(3),
		InterestRate:   r.decimal(4),
		MonthlyRate:    r.decimal(5),
		TotalAmount:    r.decimal(6),
	}
	return l, r.err
}

// TransactionCodec stores transactions with an RFC 3339 date; an empty date is the zero time.
type TransactionCodec struct{}

func (TransactionCodec) Header() []string {
	return []string{"transaction_id", "car_id", "client_id", "transaction_type", "transaction_date"}
}

func (TransactionCodec) Encode(t *models.Transaction) []string {
	date := ""
	if !t.TransactionDate.IsZero() {
		date = t.TransactionDate.UTC().Format(time.RFC3339Nano)
	}
	return []string{formatID(t.TransactionID), formatID(t.CarID), formatID(t.ClientID), string(t.TransactionType), date}
}

func (TransactionCodec) Decode(record []string) (*models.Transaction, error) {
	r := recordReader{record: record}
	t := &models.Transaction{
		TransactionID: r.id(0),
		CarID:         r.id(1),
		ClientID:      r.id(2),
	}

	if record[3] != "" {
		kind, err := models.ParseTransactionType(record[3])
		r.fail(err)
		t.TransactionType = kind
	}

	if record[4] != "" {
		date, err := time.Parse(time.RFC3339Nano, record[4])
		r.fail(err)
		t.TransactionDate = date
	}
	return t, r.err
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// recordReader parses numeric columns of a record, keeping every failure.
type recordReader struct {
	record []string
	err    error
}

func (r *recordReader) fail(err error) {
	if err != nil {
		r.err = errors.Join(r.err, err)
	}
}

func (r *recordReader) id(i int) int64 {
	v, err := strconv.ParseInt(r.record[i], 10, 64)
	if err != nil {
		r.fail(fmt.Errorf("column %d: %w", i+1, err))
	}
	return v
}

func (r *recordReader) integer(i int) int {
	return int(r.id(i))
}

func (r *recordReader) decimal(i int) float32 {
	v, err := strconv.ParseFloat(r.record[i], 32)
	if err != nil {
		r.fail(fmt.Errorf("column %d: %w", i+1, err))
	}
	return float32(v)
}
