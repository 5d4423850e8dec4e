// Package manager provides the model lifecycle registry and transcription
// admission tracking. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, List and simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: State, Engine, Loader and the internal handle type.
//   - errors.go: error types, Kind and helpers (IsModelNotFound, IsInUse, ...).
//   - load.go: Load and engine instantiation with rollback on failure.
//   - lease.go: Lease, Acquire and Release.
//   - unload.go: Unload guarded by the reference count.
//   - ops.go: composite operations (Get, Close).
//   - admission.go: Tracker (Begin/End/IsOverloaded).
//   - transcribe.go: Transcribe, the admission- and lease-bracketed engine call.
//   - status_report.go: Snapshot/Status reporting helpers.
//   - helpers.go: ListModels, the on-disk catalog annotated with load state.
//   - events.go: lifecycle events and publishers.
//
// Lifecycle of a model id:
//
//	absent --Load--> loading --ok--> ready --Unload (refs == 0)--> unloading --> absent
//	                         \--err--> absent
//
// Load and Unload are independent explicit operations: releasing the lease
// returned by Load never unloads the model.
//
// External packages should treat this package as the orchestration layer and
// use public methods only. Internal types are subject to change.
package manager
