package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/kyokomi/emoji"

	imagearchiver "github.com/dvaldes/imagearchiver"
)

// ServiceURL URL of the archive service with trailing /
var ServiceURL = "http://localhost:6060/"

func startSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Color("magenta")
	s.Start()
	return s
}

func stopSpinner(s *spinner.Spinner, message string) {
	s.Stop()
	emoji.Println(":ok: " + message)
}

func archiveImage(imageName string) (bool, string) {
	response, err := ArchiveRequest(imageName)
	if err != nil {
		fmt.Println(err.Error())
		return false, ""
	}

	for response.Status != string(imagearchiver.StatusReady) {
		if response.Status == string(imagearchiver.StatusError) {
			fmt.Println("\nCan not archive image: " + response.Error)
			return false, ""
		}
		time.Sleep(time.Second * 5)
		response, err = StatusRequest(imageName)
		if err != nil {
			fmt.Println(err.Error())
			return false, ""
		}
	}
	return true, response.URL
}

func main() {
	image := flag.String("i", "", "Image to archive and download")
	server := flag.String("s", ServiceURL, "URL of the image archive server")

	flag.Parse()

	if *image == "" {
		fmt.Println("You must specify an image to download.\nUse -h to see application details.")
		os.Exit(1)
	}

	if *server != ServiceURL {
		if strings.HasSuffix(*server, "/") {
			ServiceURL = *server
		} else {
			ServiceURL = *server + "/"
		}
	}

	fmt.Println("Using server: " + ServiceURL)

	imageName := *image
	if err := imagearchiver.ValidateReference(imageName); err != nil {
		fmt.Printf("%s is not a valid image reference: %v\n", imageName, err)
		os.Exit(1)
	}
	fmt.Println("Archiving image: " + imageName)

	s := startSpinner("Waiting for the image archive")
	archived, url := archiveImage(imageName)
	for !archived {
		fmt.Println("Retrying...")
		time.Sleep(time.Second * 3)
		archived, url = archiveImage(imageName)
	}
	stopSpinner(s, "Image archived on remote host")

	download := downloadFile(ServiceURL + url)
	for !download {
		fmt.Println("Retrying download...")
		download = downloadFile(ServiceURL + url)
	}
}
