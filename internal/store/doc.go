// Package store runs the relational query and hydration engine against
// DuckDB.
//
// RecordStore exposes three operations:
//
//   - FetchPage parses the filter, compiles filter and search predicates,
//     validates the sort, then runs one page query and one count query and
//     hydrates the requested relations onto the page.
//   - LookupOne fetches a single row by an arbitrary column.
//   - HydrateRelations attaches relations to rows the caller already holds.
//
// # Hydration
//
// Relations are described by a relation.Graph. At every level one-to-one
// relations are left-joined into the level's query and attached as nested
// objects. Every requested one-to-many, many-to-many and latest-inserted
// relation then costs exactly one batch query filtered by the distinct
// parent keys of the level, whatever the number of parent rows. The batch
// query is itself a level, so nested relations recurse the same way.
//
// # Consistency
//
// Operations issue several sequential queries without a shared transaction:
//
//   - the page query and the count query may observe different snapshots
//     under concurrent writes, so total and totalPage are approximate;
//   - each hydration level reads after its parent level, so a child row
//     inserted or deleted in between may be missed or included.
//
// This weak consistency is part of the contract. Store errors are returned
// as-is, nothing is retried and a failing batch query fails the whole
// operation.
package store
