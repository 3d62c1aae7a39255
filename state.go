package imagearchiver

import (
	"sync"
)

// JobStatus represents the current phase of an archive job
type JobStatus string

const (
	StatusPulling     JobStatus = "Pulling"
	StatusCompressing JobStatus = "Compressing"
	StatusReady       JobStatus = "Ready"
	StatusError       JobStatus = "Error"
)

// JobState holds the complete state of an archive job
type JobState struct {
	Image  string    `json:"image"`
	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`
	URL    string    `json:"url,omitempty"`
	Size   int64     `json:"size,omitempty"`
}

// StateManager tracks the state of all archive jobs
type StateManager struct {
	sync.RWMutex
	states map[string]*JobState
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{
		states: make(map[string]*JobState),
	}
}

// Get returns the current state of a job, or nil if not found
func (sm *StateManager) Get(image string) *JobState {
	sm.RLock()
	defer sm.RUnlock()
	if state, exists := sm.states[image]; exists {
		// Return a copy to prevent external modification
		stateCopy := *state
		return &stateCopy
	}
	return nil
}

// SetStatus sets the status of a job
func (sm *StateManager) SetStatus(image string, status JobStatus) {
	sm.Lock()
	defer sm.Unlock()
	if state, exists := sm.states[image]; exists {
		state.Status = status
	} else {
		sm.states[image] = &JobState{
			Image:  image,
			Status: status,
		}
	}
}

// SetReady marks a job as ready for download with URL and size
func (sm *StateManager) SetReady(image, url string, size int64) {
	sm.Lock()
	defer sm.Unlock()
	if state, exists := sm.states[image]; exists {
		state.Status = StatusReady
		state.URL = url
		state.Size = size
		state.Error = ""
	} else {
		sm.states[image] = &JobState{
			Image:  image,
			Status: StatusReady,
			URL:    url,
			Size:   size,
		}
	}
}

// SetError marks a job as failed with an error message
func (sm *StateManager) SetError(image, errMsg string) {
	sm.Lock()
	defer sm.Unlock()
	if state, exists := sm.states[image]; exists {
		state.Status = StatusError
		state.Error = errMsg
	} else {
		sm.states[image] = &JobState{
			Image:  image,
			Status: StatusError,
			Error:  errMsg,
		}
	}
}

// InProgress returns true if a job for the image is currently running
func (sm *StateManager) InProgress(image string) bool {
	sm.RLock()
	defer sm.RUnlock()
	if state, exists := sm.states[image]; exists {
		return state.Status == StatusPulling || state.Status == StatusCompressing
	}
	return false
}
