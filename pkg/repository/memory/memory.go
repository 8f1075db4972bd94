package memory

import (
	"github.com/andreycorp/grocfriend/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	workspace *workspaceRepository
	event     *eventRepository
	defaults  *defaultsRepository
	schedule  *scheduleRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		workspace: newWorkspaceRepository(),
		event:     newEventRepository(),
		defaults:  newDefaultsRepository(),
		schedule:  newScheduleRepository(),
	}
}

func (m *Memory) Workspace() interfaces.WorkspaceRepository {
	return m.workspace
}

func (m *Memory) Event() interfaces.EventRepository {
	return m.event
}

func (m *Memory) Defaults() interfaces.DefaultsRepository {
	return m.defaults
}

func (m *Memory) Schedule() interfaces.ScheduleRepository {
	return m.schedule
}

func (m *Memory) Close() error {
	return nil
}
