// Package integration contains the catalog integration bounded context.
// It models pulling product records from an external commerce platform and
// reconciling them into the local catalog.
//
// Key concepts:
//   - CatalogSource: port for fetching remote product records through a proxy
//   - ProductMapping: durable link between a remote product and a local product
//   - SyncJob: persisted lifecycle record of one synchronization pass
//   - SyncOptions: immutable knobs controlling one pass
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
