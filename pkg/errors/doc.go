// Package errors provides custom error types for the query engine.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌───────────────────────────┬────────┬─────────────────────────────────────┐
//	│ Error Type                │ HTTP   │ Description                         │
//	├───────────────────────────┼────────┼─────────────────────────────────────┤
//	│ InvalidSortFieldError     │ 400    │ Sort field is not a table column    │
//	│ InvalidSortDirectionError │ 400    │ Direction is not "asc" or "desc"    │
//	│ UnknownFieldError         │ 400    │ Lookup field is not a table column  │
//	│ ResourceNotFoundError     │ 404    │ Row or table doesn't exist          │
//	│ InvalidRelationError      │ 500    │ Relation graph is misconfigured     │
//	└───────────────────────────┴────────┴─────────────────────────────────────┘
//
// Errors returned by the store itself are passed through untouched and map
// to 500.
//
// # Client input errors
//
// InvalidSortFieldError, InvalidSortDirectionError and UnknownFieldError
// implement ClientInputError. They are raised before any query is sent to
// the store. Unknown filter fields, unknown search fields, unknown relation
// paths and malformed filter clauses are not errors: they are dropped.
//
// Usage:
//
//	if errors.IsClientInputError(err) {
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	}
//
// # ResourceNotFoundError
//
// Returned by single row lookups that match nothing. It is an outcome, not
// a failure: "no row" stays distinguishable from "query failed".
//
// Constructors:
//   - NewResourceNotFoundError(kind, id string)
//   - NewTableNotFoundError(name string) - Table is not part of the catalog
//
// # InvalidRelationError
//
// Returned when a relation descriptor references a column missing from its
// table, or a many-to-many relation does not declare exactly one one-to-one
// hop. It indicates a programming error in the catalog.
//
// # Handler Error Mapping
//
//	switch {
//	case errors.IsClientInputError(err):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
//	case errors.IsResourceNotFoundError(err):
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
//	}
package errors
