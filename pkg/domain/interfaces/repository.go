package interfaces

// Repository defines the interface for data persistence. All operations are
// tenant-scoped by an explicit team ID parameter; implementations never read
// the request context for tenancy.
type Repository interface {
	Workspace() WorkspaceRepository
	Event() EventRepository
	Defaults() DefaultsRepository
	Schedule() ScheduleRepository

	Close() error
}
