/*
Package ports defines the driven ports (interfaces) of the funnel editor.

These interfaces decouple the editing core from storage and coordination
backends, so the same editor runs against memory, files, Redis or a
markdown directory.

# Key Interfaces

  - DocumentLoader: Loads a funnel document by id (e.g., from a Loam directory).
  - DocumentStore: Persists, loads, deletes and lists funnel documents.
  - DistributedLocker: Coordinates editor sessions across replicas.
  - Watchable: Signals that a loader's backing data changed.
*/
package ports
