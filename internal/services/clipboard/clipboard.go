// Package clipboard places rendered termfs output on the system clipboard.
package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

var (
	// ErrUnsupported reports a platform without a usable clipboard utility.
	ErrUnsupported = errors.New("clipboard is not supported on this platform")
	// ErrNoCopier reports a Recorder constructed without a Copier.
	ErrNoCopier = errors.New("clipboard copier is not configured")
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// Recorder is an io.Writer that keeps everything written to it until Commit hands the
// text to its Copier.
type Recorder struct {
	copier Copier
	buffer strings.Builder
}

// NewRecorder returns a Recorder that commits to copier.
func NewRecorder(copier Copier) *Recorder {
	return &Recorder{copier: copier}
}

func (recorder *Recorder) Write(data []byte) (int, error) {
	return recorder.buffer.Write(data)
}

// Len returns the number of bytes recorded so far.
func (recorder *Recorder) Len() int {
	return recorder.buffer.Len()
}

// Commit copies the recorded text.
func (recorder *Recorder) Commit() error {
	if recorder.copier == nil {
		return ErrNoCopier
	}
	return recorder.copier.Copy(recorder.buffer.String())
}

var _ Copier = (*Service)(nil)
