// Package file implements the report file transport. Each run creates a
// fresh artifact named after the start time, or writes to stdout.
package file

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bahetianjali/flow-low-parser/transport"
)

// FileDriver writes the formatted report to a timestamp-named file.
type FileDriver struct {
	dir       string
	extension string
	toStdout  bool

	path string
	w    io.Writer
	file *os.File
}

// Prepare registers flags for file transport configuration.
func (d *FileDriver) Prepare() error {
	flag.StringVar(&d.dir, "transport.file.dir", ".", "Directory for the report file")
	flag.StringVar(&d.extension, "transport.file.ext", "csv", "Report file extension")
	flag.BoolVar(&d.toStdout, "transport.file.stdout", false, "Write the report to stdout instead of a file")
	return nil
}

// Init opens the output destination. The file name derives from the wall
// clock at initialization, one artifact per run.
func (d *FileDriver) Init() error {
	if d.toStdout {
		d.w = os.Stdout
		return nil
	}

	d.path = filepath.Join(d.dir, fmt.Sprintf("output_results_%s.%s", time.Now().Format("20060102150405"), d.extension))
	file, err := os.OpenFile(d.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	d.file = file
	d.w = d.file
	return nil
}

// Path returns the artifact path, empty when writing to stdout.
func (d *FileDriver) Path() string {
	return d.path
}

// Send writes a formatted report to the destination.
func (d *FileDriver) Send(key, data []byte) error {
	_, err := d.w.Write(data)
	return err
}

// Close closes the report file.
func (d *FileDriver) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

func init() {
	d := &FileDriver{}
	transport.RegisterTransportDriver("file", d)
}
