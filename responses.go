package imagearchiver

// ArchiveResponse is the response format for archive and status requests
type ArchiveResponse struct {
	Image  string `json:"image,omitempty"`
	Status string `json:"status,omitempty"`
	URL    string `json:"url,omitempty"`
	Size   int64  `json:"size,omitempty"`
	Error  string `json:"error,omitempty"`
}

// HealthCheckResponse reports data about the host alongside service liveness
type HealthCheckResponse struct {
	Memory     uint64 `json:"memory"`
	UsedMemory uint64 `json:"usedMemory"`
	OS         string `json:"os"`
	Platform   string `json:"platform"`
	Error      string `json:"error,omitempty"`
}
