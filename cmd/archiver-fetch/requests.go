package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	imagearchiver "github.com/dvaldes/imagearchiver"
)

// ArchiveRequest asks the server to archive an image
func ArchiveRequest(image string) (imagearchiver.ArchiveResponse, error) {
	return getArchiveResponse(ServiceURL + "archive?image=" + url.QueryEscape(image))
}

// StatusRequest fetches the state of an archive job without starting one
func StatusRequest(image string) (imagearchiver.ArchiveResponse, error) {
	return getArchiveResponse(ServiceURL + "status?image=" + url.QueryEscape(image))
}

func getArchiveResponse(endpoint string) (imagearchiver.ArchiveResponse, error) {
	resp, err := http.Get(endpoint)
	if err != nil {
		return imagearchiver.ArchiveResponse{}, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	var archiveResponse imagearchiver.ArchiveResponse
	err = json.Unmarshal(b, &archiveResponse)
	if err != nil {
		return imagearchiver.ArchiveResponse{}, err
	}

	return archiveResponse, nil
}
