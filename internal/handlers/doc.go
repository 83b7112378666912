// Package handlers implements the HTTP API layer of the query engine.
//
// Handlers bind and convert query parameters, delegate to the records
// service and map its errors to HTTP status codes. They hold no query logic.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Query parameter binding                                      │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│               RecordService → Catalog → RecordStore             │
//	└─────────────────────────────────────────────────────────────────┘
//
// Routes are registered under /api/v1 with:
//
//	handlers.RegisterHandlers(router, handlers.New(recordSrv))
//
// # API Endpoints
//
//	┌────────┬─────────────────────────┬──────────────────────────────────────┐
//	│ Method │ Endpoint                │ Description                          │
//	├────────┼─────────────────────────┼──────────────────────────────────────┤
//	│ GET    │ /tables                 │ List the tables that can be queried  │
//	│ GET    │ /records/{table}        │ Paginated, filtered, hydrated list   │
//	│ GET    │ /records/{table}/{value}│ Single record lookup                 │
//	└────────┴─────────────────────────┴──────────────────────────────────────┘
//
// # Records Handler
//
// GET /records/{table} - Query Parameters:
//
//	┌──────────────┬────────┬──────────────────────────────────────────────┐
//	│ Parameter    │ Type   │ Description                                  │
//	├──────────────┼────────┼──────────────────────────────────────────────┤
//	│ search       │ string │ Case-insensitive partial match               │
//	│ searchFields │ string │ Comma-separated fields searched (OR logic)   │
//	│ filter       │ string │ field:values:operator clauses, ";"-separated │
//	│ sortBy       │ string │ Sort field (default: primary key)            │
//	│ order        │ string │ asc or desc (default: asc)                   │
//	│ page         │ int    │ Page number (default: 1)                     │
//	│ limit        │ int    │ Page size (default and max from config)      │
//	│ include      │ string │ Comma-separated dotted relation paths        │
//	└──────────────┴────────┴──────────────────────────────────────────────┘
//
// Example: /records/animals?filter=age:2:gt%3Bspecies:dog&sortBy=name&include=adopter.role,latestSurvey
//
// The ";" clause separator must be percent-encoded, net/http drops query
// pairs holding a raw semicolon.
//
// Response:
//
//	{
//	    "data": [
//	        {
//	            "id": 1,
//	            "name": "Rex",
//	            "adopter": {"id": 1, "name": "alice", "role": {...}},
//	            "latestSurvey": null
//	        }
//	    ],
//	    "total": 23,
//	    "totalPage": 3,
//	    "page": 1,
//	    "limit": 10
//	}
//
// GET /records/{table}/{value} - Query Parameters: field (default: primary
// key) and include.
//
// Errors:
//   - 400 Bad Request: unknown sort field, invalid sort direction, unknown lookup field
//   - 404 Not Found: unknown table or no matching record
//   - 500 Internal Server Error: store failure or invalid relation graph
package handlers
