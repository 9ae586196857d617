// Package app composes the catalogue services into a running application.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct, wiring and lifecycle
//	├── domain/asset/       # Asset model, search options, text matching
//	├── storage/            # AssetStore interface and shared filter logic
//	│   ├── memory/         # In-memory implementation for tests and dev
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/
//	│   ├── catalogue/      # Search, mine, dashboard, home summary
//	│   ├── stats/          # Metrics aggregation and estimates
//	│   ├── publishing/     # Submission normalization and persistence
//	│   └── ownership/      # Delete authorization
//	├── uploads/            # Upload sink for asset files
//	├── httpapi/            # HTTP routes and handlers
//	├── system/             # Background service lifecycle
//	├── metrics/            # Prometheus collectors
//	└── runtime/            # Process wiring from configuration
//
// # Dependency Direction
//
//	cmd/catalogd/
//	      │
//	      ▼
//	internal/app/runtime
//	      │
//	      ├──► internal/app/httpapi ──► internal/middleware
//	      │
//	      └──► internal/app (composition)
//	                  │
//	                  ├──► internal/app/services/...
//	                  └──► internal/app/storage/...
//
// Business rules live in the services; this package only wires them to
// their stores.
package app
