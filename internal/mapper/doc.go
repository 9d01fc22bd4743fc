// Package mapper persists plain Go structs into relational tables without runtime reflection.
//
// Each entity kind describes itself once with a table of [Field] descriptors. From that
// table a [Schema] derives the column list (snake_case of the field names, collections and
// the car/client reference roles excluded), a [Statements] value synthesizes the five
// CRUD statements for a [Dialect], and [DBRepository] binds and materializes values with
// the coercions named by each descriptor:
//
//   - [Enum] values are written capitalized ("Available") and matched case-insensitively on read
//   - [Timestamp] values are written in UTC and parsed with the dialect's layouts
//   - [Reference] values are written as the referenced entity's id
//   - [Float32] values are narrowed from whatever width the driver returns
//   - [Collection] fields never reach the store
//
// Table names and id columns come from the static [Tables] lookup keyed by [Kind].
package mapper
