package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/InVisionApp/tabular"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	imagearchiver "github.com/dvaldes/imagearchiver"
)

func usage() {
	fmt.Fprint(os.Stderr, `Usage: archiver [-h] [-d] [IMAGE...]

Pulls each container image and archives it as <sanitized-name>.tar.xz.
With no IMAGE arguments, references are read from standard input, one per
line; blank lines and lines starting with '#' are skipped.

Options:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	debug := flag.Bool("d", false, "Enable verbose diagnostic logging")
	output := flag.String("o", ".", "Directory to write archives to")
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	archiver := imagearchiver.NewArchiver(*output)
	if *configPath != "" {
		config, err := imagearchiver.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		archiver = config.Archiver()
	}

	if flag.NArg() == 0 && imagearchiver.StdinIsTerminal() {
		fmt.Fprintln(os.Stderr, "No images given and standard input is a terminal.")
		usage()
		os.Exit(1)
	}

	refs, err := imagearchiver.ReadReferences(flag.Args(), os.Stdin)
	if err != nil {
		log.Fatalf("Failed to read image references: %v", err)
	}
	if len(refs) == 0 {
		fmt.Fprintln(os.Stderr, "No images to archive.")
		usage()
		os.Exit(1)
	}

	if err := archiver.CheckTools(); err != nil {
		log.Fatal(err)
	}

	results := archiver.ArchiveAll(refs)
	printSummary(results)
}

func printSummary(results []imagearchiver.Result) {
	tab := tabular.New()
	tab.Col("img", "Image", 40)
	tab.Col("sts", "Status", 8)
	tab.Col("size", "Size", 10)
	tab.Col("file", "Archive", 44)

	format := tab.Print("img", "sts", "size", "file")
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf(format, res.Ref, "failed", "-", "-")
			continue
		}
		fmt.Printf(format, res.Ref, "ok", humanize.Bytes(uint64(res.Size)), res.Path)
	}
}
