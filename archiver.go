package imagearchiver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Archiver pulls container images and archives each one as a compressed
// tarball by delegating to an external image tool and a compressor.
type Archiver struct {
	Tool         string   // image pull/save binary, e.g. "docker" or "podman"
	Compressor   string   // compression binary reading stdin, e.g. "xz"
	CompressArgs []string // arguments making the compressor stream to stdout
	OutputDir    string   // directory where archives are written
}

// DefaultCompressArgs keep xz compressing from stdin to stdout.
var DefaultCompressArgs = []string{"-z", "-c"}

// NewArchiver returns an Archiver using the default docker/xz toolchain,
// writing archives to outputDir (the current directory when empty).
func NewArchiver(outputDir string) *Archiver {
	if outputDir == "" {
		outputDir = "."
	}
	return &Archiver{
		Tool:         "docker",
		Compressor:   "xz",
		CompressArgs: DefaultCompressArgs,
		OutputDir:    outputDir,
	}
}

// MissingToolError reports an external binary absent from PATH.
type MissingToolError struct {
	Tool string
	Err  error
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("required tool %q not found in PATH", e.Tool)
}

func (e *MissingToolError) Unwrap() error { return e.Err }

// PullError reports a failed pull of a single image.
type PullError struct {
	Ref    string
	Err    error
	Stderr string
}

func (e *PullError) Error() string {
	return fmt.Sprintf("pulling %s: %v%s", e.Ref, e.Err, stderrSuffix(e.Stderr))
}

func (e *PullError) Unwrap() error { return e.Err }

// SaveError reports a failed save or compression of a single image.
type SaveError struct {
	Ref    string
	Err    error
	Stderr string
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("saving %s: %v%s", e.Ref, e.Err, stderrSuffix(e.Stderr))
}

func (e *SaveError) Unwrap() error { return e.Err }

func stderrSuffix(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	return ": " + stderr
}

// CheckTools verifies that both external binaries are present. It runs
// before any processing so a missing dependency aborts the whole run.
func (a *Archiver) CheckTools() error {
	for _, tool := range []string{a.Tool, a.Compressor} {
		if _, err := exec.LookPath(tool); err != nil {
			return &MissingToolError{Tool: tool, Err: err}
		}
	}
	return nil
}

// Pull fetches an image into the tool's local storage.
func (a *Archiver) Pull(ref string) error {
	log.Debugf("Running %s pull %s", a.Tool, ref)
	var stderr bytes.Buffer
	cmd := exec.Command(a.Tool, "pull", ref)
	cmd.Stdout = pullProgressWriter()
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		errorsTotalMetric.Inc()
		return &PullError{Ref: ref, Err: err, Stderr: stderr.String()}
	}
	pullsCountMetric.Inc()
	return nil
}

// pullProgressWriter shows the tool's pull progress in verbose mode only.
func pullProgressWriter() io.Writer {
	if log.IsLevelEnabled(log.DebugLevel) {
		return os.Stdout
	}
	return io.Discard
}

// Save streams the pulled image through the compressor into OutputDir and
// returns the archive path. A partially written archive is removed on
// failure: a truncated file is indistinguishable by name from a finished
// one and would shadow a later successful run.
func (a *Archiver) Save(ref string) (string, error) {
	path := filepath.Join(a.OutputDir, ArchiveFileName(ref))
	if err := a.saveCompressed(ref, path); err != nil {
		errorsTotalMetric.Inc()
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Debugf("Could not remove partial archive %s: %v", path, rmErr)
		}
		return "", err
	}
	archivesCountMetric.Inc()
	return path, nil
}

// saveCompressed runs `<tool> save <ref>` piped into the compressor, with
// the compressor's stdout redirected to path.
func (a *Archiver) saveCompressed(ref, path string) error {
	log.Debugf("Running %s save %s | %s %s > %s",
		a.Tool, ref, a.Compressor, strings.Join(a.CompressArgs, " "), path)

	out, err := os.Create(path)
	if err != nil {
		return &SaveError{Ref: ref, Err: err}
	}
	defer closeWithLog(out, "archive file")

	save := exec.Command(a.Tool, "save", ref)
	compress := exec.Command(a.Compressor, a.CompressArgs...)

	var saveStderr, compressStderr bytes.Buffer
	save.Stderr = &saveStderr
	compress.Stderr = &compressStderr

	pipe, err := save.StdoutPipe()
	if err != nil {
		return &SaveError{Ref: ref, Err: err}
	}
	compress.Stdin = pipe
	compress.Stdout = out

	if err := save.Start(); err != nil {
		return &SaveError{Ref: ref, Err: err}
	}
	if err := compress.Start(); err != nil {
		_ = save.Process.Kill()
		_ = save.Wait()
		return &SaveError{Ref: ref, Err: err}
	}

	saveErr := save.Wait()
	compressErr := compress.Wait()
	if saveErr != nil {
		return &SaveError{Ref: ref, Err: saveErr, Stderr: saveStderr.String()}
	}
	if compressErr != nil {
		return &SaveError{Ref: ref, Err: compressErr, Stderr: compressStderr.String()}
	}
	return nil
}

// Archive pulls ref and saves it, returning the written archive path.
func (a *Archiver) Archive(ref string) (string, error) {
	if err := a.Pull(ref); err != nil {
		return "", err
	}
	return a.Save(ref)
}

// Result records the outcome of one image in a batch run.
type Result struct {
	Ref  string
	Path string
	Size int64
	Err  error
}

// ArchiveAll processes references strictly in input order, one image
// start-to-finish before the next. Failures are recorded per reference
// and never stop the batch.
func (a *Archiver) ArchiveAll(refs []string) []Result {
	results := make([]Result, 0, len(refs))
	for _, ref := range refs {
		res := Result{Ref: ref}
		path, err := a.Archive(ref)
		if err != nil {
			res.Err = err
			log.Errorf("Failed to archive '%s': %v", ref, err)
		} else {
			res.Path = path
			res.Size = FileSize(path)
			log.Infof("Archived '%s' to %s", ref, path)
		}
		results = append(results, res)
	}
	return results
}

// closeWithLog closes an io.Closer and logs any error with the given context
func closeWithLog(c io.Closer, context string) {
	if err := c.Close(); err != nil {
		log.Errorf("Error closing %s: %v", context, err)
	}
}
