package mapper

import "fmt"

// Kind enumerates the persisted entity kinds.
type Kind int

const (
	KindCar Kind = iota + 1
	KindClient
	KindEmployee
	KindLeasing
	KindTransaction
)

func (k Kind) String() string {
	switch k {
	case KindCar:
		return "car"
	case KindClient:
		return "client"
	case KindEmployee:
		return "employee"
	case KindLeasing:
		return "leasing"
	case KindTransaction:
		return "transaction"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TableBinding names the table and primary key column an entity kind is stored in.
type TableBinding struct {
	Table    string
	IDColumn string
}

// TableMap maps entity kinds to their table bindings.
type TableMap map[Kind]TableBinding

// Tables is the table lookup used by the dealership stores.
var Tables = TableMap{
	KindCar:         {Table: "cars", IDColumn: "car_id"},
	KindClient:      {Table: "clients", IDColumn: "client_id"},
	KindEmployee:    {Table: "employees", IDColumn: "employee_id"},
	KindLeasing:     {Table: "leasings", IDColumn: "leasing_id"},
	KindTransaction: {Table: "transactions", IDColumn: "transaction_id"},
}

// Lookup returns the binding for k or a [*SchemaError] when k is not mapped.
func (m TableMap) Lookup(k Kind) (TableBinding, error) {
	b, ok := m[k]
	if !ok || b.Table == "" || b.IDColumn == "" {
		return TableBinding{}, &SchemaError{Kind: k, Reason: "no table binding"}
	}
	return b, nil
}
