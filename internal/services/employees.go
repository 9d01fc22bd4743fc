package services

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/carvy/internal/models"
)

// EmployeeService manages staff records and their car assignments.
type EmployeeService struct {
	employees models.Repository[models.Employee]
	cars      models.Reader[models.Car]
	logger    *log.Logger
}

func NewEmployeeService(employees models.Repository[models.Employee], cars models.Reader[models.Car], logger *log.Logger) *EmployeeService {
	return &EmployeeService{employees: employees, cars: cars, logger: logger}
}

func (s *EmployeeService) Add(employee *models.Employee) error {
	if err := models.Validate(employee); err != nil {
		return err
	}
	if err := s.employees.Create(employee); err != nil {
		return fmt.Errorf("failed to add employee: %w", err)
	}
	return nil
}

func (s *EmployeeService) Find(id int64) (*models.Employee, error) {
	return find(s.employees, "employee", id)
}

func (s *EmployeeService) List() ([]*models.Employee, error) {
	return s.employees.ReadAll()
}

func (s *EmployeeService) Delete(id int64) error {
	if _, err := s.Find(id); err != nil {
		return err
	}
	return s.employees.Delete(id)
}

// AssignCar attaches the car to the employee's managed cars.
//
// Managed cars are a collection and are not kept by the stores, so nothing is written
// and the assignment is only visible on the returned employee.
func (s *EmployeeService) AssignCar(employeeID, carID int64) (*models.Employee, error) {
	employee, err := s.Find(employeeID)
	if err != nil {
		return nil, err
	}
	car, err := find(s.cars, "car", carID)
	if err != nil {
		return nil, err
	}

	employee.ManagedCars = append(employee.ManagedCars, *car)
	s.logger.Info("car assigned", "employee", employeeID, "car", carID)
	return employee, nil
}
