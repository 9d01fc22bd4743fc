// Package models defines the dealership entities and the persistence contracts shared by every store.
//
// Entities:
//   - [Car] : a vehicle in stock with its [CarStatus]
//   - [Person] : name and national id, embedded by [Client] and [Employee]
//   - [Client] : a buyer or lessee
//   - [Employee] : staff member managing cars
//   - [Leasing] : a leasing contract; Car and Client are hydrated on read
//   - [Transaction] : a recorded sale or lease of a car
//
// Every entity implements [HasID]. The [Repository] interface is satisfied by both the
// relational mapper and the CSV file store, so callers never know which one is active.
package models
