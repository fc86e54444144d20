// Package store defines the persistence interfaces of the mapathon engine.
package store

// Store is an interface for managing sessions, participants, teams, the
// region catalog, and territory assignments.
type Store interface {
	SessionStore
	ParticipantStore
	TeamStore
	RegionStore
	AssignmentStore
	IntegrityStore
}
