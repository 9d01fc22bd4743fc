// package formatter renders dealership listings as terminal tables, CSV, Markdown, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/carvy/internal/models"
	"github.com/desertthunder/carvy/internal/shared"
	"github.com/goccy/go-json"
)

// Format selects how a [Listing] is written.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat accepts a format name or its common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// Listing is a titled grid of cells, one row per entity.
type Listing struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (l Listing) Len() int { return len(l.Rows) }

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// Cars lists cars with their stock status.
func Cars(cars []*models.Car) Listing {
	l := Listing{Title: "Cars", Headers: []string{"ID", "Brand", "Model", "Year", "Price", "Mileage", "Status"}}
	for _, c := range cars {
		l.Rows = append(l.Rows, []string{
			id(c.CarID), c.Brand, c.Model, strconv.Itoa(c.Year), money(c.Price), strconv.Itoa(c.Mileage), string(c.Status),
		})
	}
	return l
}

func Clients(clients []*models.Client) Listing {
	l := Listing{Title: "Clients", Headers: []string{"ID", "Name", "National ID", "Purchased", "Leased"}}
	for _, c := range clients {
		l.Rows = append(l.Rows, []string{
			id(c.ClientID), c.FullName(), c.NationalID, strconv.Itoa(len(c.PurchasedCars)), strconv.Itoa(len(c.LeasedCars)),
		})
	}
	return l
}

func Employees(employees []*models.Employee) Listing {
	l := Listing{Title: "Employees", Headers: []string{"ID", "Name", "National ID", "Role", "Managed cars"}}
	for _, e := range employees {
		l.Rows = append(l.Rows, []string{
			id(e.EmployeeID), e.FullName(), e.NationalID, e.Role, strconv.Itoa(len(e.ManagedCars)),
		})
	}
	return l
}

// Leasings lists contracts, naming the car and client when they were hydrated.
func Leasings(leasings []*models.Leasing) Listing {
	l := Listing{Title: "Leasings", Headers: []string{"ID", "Car", "Client", "Months", "Interest", "Monthly", "Total"}}
	for _, ls := range leasings {
		car := id(ls.CarID)
		if ls.Car != nil {
			car = fmt.Sprintf("%s %s (#%d)", ls.Car.Brand, ls.Car.Model, ls.CarID)
		}
		client := id(ls.ClientID)
		if ls.Client != nil {
			client = fmt.Sprintf("%s (#%d)", ls.Client.FullName(), ls.ClientID)
		}
		l.Rows = append(l.Rows, []string{
			id(ls.LeasingID), car, client, strconv.Itoa(ls.DurationMonths),
			strconv.FormatFloat(float64(ls.InterestRate), 'f', 2, 32) + "%", money(ls.MonthlyRate), money(ls.TotalAmount),
		})
	}
	return l
}

func Transactions(transactions []*models.Transaction) Listing {
	l := Listing{Title: "Transactions", Headers: []string{"ID", "Car", "Client", "Type", "Date"}}
	for _, t := range transactions {
		date := ""
		if !t.TransactionDate.IsZero() {
			date = t.TransactionDate.Format(time.DateTime)
		}
		l.Rows = append(l.Rows, []string{
			id(t.TransactionID), id(t.CarID), id(t.ClientID), string(t.TransactionType), date,
		})
	}
	return l
}

func id(v int64) string { return strconv.FormatInt(v, 10) }

func money(v float32) string { return strconv.FormatFloat(float64(v), 'f', 2, 32) }

// ToTable renders l as a bordered lipgloss table.
func ToTable(l Listing) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(l.Headers...).
		Rows(l.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// ToCSV converts l to CSV with a header row.
func ToCSV(l Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(l.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	if err := writer.WriteAll(l.Rows); err != nil {
		return nil, fmt.Errorf("failed to write CSV records: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown converts l to a Markdown document with a pipe table.
func ToMarkdown(l Listing) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", l.Title)
	fmt.Fprintf(&buf, "**Total**: %d\n\n", l.Len())
	if l.Len() == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| " + strings.Join(l.Headers, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(l.Headers)) + "\n")
	for _, row := range l.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return buf.Bytes()
}

// ToText converts l to plain text, one numbered line per row.
func ToText(l Listing) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s: %d\n\n", l.Title, l.Len())
	for i, row := range l.Rows {
		parts := make([]string, 0, len(row))
		for j, c := range row {
			if c == "" || j >= len(l.Headers) {
				continue
			}
			parts = append(parts, l.Headers[j]+": "+c)
		}
		fmt.Fprintf(&buf, "%d. %s\n", i+1, strings.Join(parts, ", "))
	}
	return buf.Bytes()
}

// ToJSON marshals v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// Render writes l to w in format f.
func Render(w io.Writer, l Listing, f Format) error {
	var data []byte
	switch f {
	case FormatTable, "":
		if l.Len() == 0 {
			data = []byte(fmt.Sprintf("No %s found.\n", strings.ToLower(l.Title)))
		} else {
			data = []byte(ToTable(l) + "\n")
		}
	case FormatCSV:
		var err error
		if data, err = ToCSV(l); err != nil {
			return err
		}
	case FormatMarkdown:
		data = ToMarkdown(l)
	case FormatText:
		data = ToText(l)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteExport writes l to path in format f. An empty path defaults to the listing
// title with the format's extension in the working directory.
func WriteExport(l Listing, f Format, path string) (string, error) {
	if path == "" {
		path = strings.ToLower(l.Title) + Extension(f)
	}

	var buf bytes.Buffer
	if err := Render(&buf, l, f); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Extension returns the file extension used for exports in format f.
func Extension(f Format) string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}
