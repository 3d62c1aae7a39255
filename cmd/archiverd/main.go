package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	imagearchiver "github.com/dvaldes/imagearchiver"
)

func printBanner() {
	banner := `
 _                           _            _    _
(_)_ __  __ _ __ _ ___   __ _ _ _ __| |_ (_)_ _____ _ _
| | '  \/ _' / _' / -_) / _' | '_/ _| ' \| \ V / -_) '_|
|_|_|_|_\__,_\__, \___| \__,_|_| \__|_||_|_|\_/\___|_|
             |___/
	`
	fmt.Println(banner)
}

func main() {
	printBanner()
	folder := flag.String("folder", "/tmp", "Folder to write image archives")
	port := flag.String("port", "6060", "Port to be used by the service")
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	debug := flag.Bool("d", false, "Enable verbose diagnostic logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	archiver := imagearchiver.NewArchiver(*folder)
	addr := ":" + *port
	var authConfig *imagearchiver.AuthConfig

	if *configPath != "" {
		config, err := imagearchiver.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		archiver = config.Archiver()
		authConfig = config.Auth
		addr = fmt.Sprintf(":%d", config.Port)
	}

	server := imagearchiver.NewServer(addr, archiver, authConfig)
	log.Fatal(server.Run())
}
