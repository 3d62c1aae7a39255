package imagearchiver

import (
	"encoding/json"
	"net/http"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	log "github.com/sirupsen/logrus"
)

const contentTypeHeader = "Content-Type"

// ArchiveHandler starts an archive job for the image named by the `image`
// query parameter, or reports on the job already running or finished for it.
func (s *Server) ArchiveHandler(w http.ResponseWriter, r *http.Request) {
	image := r.URL.Query().Get("image")
	if err := ValidateReference(image); err != nil {
		writeJSON(w, ArchiveResponse{Image: image, Status: string(StatusError), Error: err.Error()})
		return
	}

	if state := s.states.Get(image); state != nil && state.Status != StatusError {
		log.Debugf("Image '%s' already has a job in state %s", image, state.Status)
		writeJSON(w, stateResponse(state))
		return
	}

	log.Infof("Requested archiving image '%s'", image)
	s.states.SetStatus(image, StatusPulling)
	go s.runJob(image)

	writeJSON(w, ArchiveResponse{Image: image, Status: string(StatusPulling)})
}

// runJob executes one archive job. Concurrent requests for the same image
// share a single run.
func (s *Server) runJob(image string) {
	_, _, _ = s.jobs.Do(image, func() (interface{}, error) {
		if err := s.archiver.Pull(image); err != nil {
			log.Errorf("Failed to pull '%s': %v", image, err)
			s.states.SetError(image, err.Error())
			return nil, err
		}

		s.states.SetStatus(image, StatusCompressing)
		path, err := s.archiver.Save(image)
		if err != nil {
			log.Errorf("Failed to save '%s': %v", image, err)
			s.states.SetError(image, err.Error())
			return nil, err
		}

		s.states.SetReady(image, "download/"+ArchiveFileName(image), FileSize(path))
		log.Infof("Image '%s' is ready to be downloaded", image)
		return path, nil
	})
}

// StatusHandler reports the state of a job without starting one.
func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	image := r.URL.Query().Get("image")

	state := s.states.Get(image)
	if state == nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, ArchiveResponse{Image: image, Error: "no archive job for image"})
		return
	}
	writeJSON(w, stateResponse(state))
}

// HealthHandler responds with data about the host
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	memory, err1 := mem.VirtualMemory()
	hostInfo, err2 := host.Info()
	errorMsg := ""
	if err1 != nil {
		errorMsg = err1.Error()
	}
	if err2 != nil {
		errorMsg = err2.Error()
	}

	response := HealthCheckResponse{Error: errorMsg}
	if memory != nil {
		response.Memory = memory.Total
		response.UsedMemory = memory.Used
	}
	if hostInfo != nil {
		response.OS = hostInfo.OS
		response.Platform = hostInfo.Platform
	}
	writeJSON(w, response)
}

func stateResponse(state *JobState) ArchiveResponse {
	return ArchiveResponse{
		Image:  state.Image,
		Status: string(state.Status),
		URL:    state.URL,
		Size:   state.Size,
		Error:  state.Error,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set(contentTypeHeader, "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to write response: %v", err)
	}
}
