package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

var errIdleTimeout = errors.New("read timed out")

// tooLargeError reports a body that kept going past the per-object ceiling.
type tooLargeError struct {
	limit int64
}

func (e *tooLargeError) Error() string {
	return fmt.Sprintf("object larger than %s", humanize.IBytes(uint64(e.limit)))
}

type limitReader struct {
	r         io.Reader
	limit     int64
	remaining int64
}

func newLimitReader(r io.Reader, limit int64) io.Reader {
	if limit <= 0 {
		return r
	}
	return &limitReader{r: r, limit: limit, remaining: limit}
}

func (l *limitReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		var probe [1]byte
		n, err := l.r.Read(probe[:])
		if n > 0 {
			return 0, &tooLargeError{limit: l.limit}
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}

// idleTimeoutReader cancels the request context when no bytes arrive for timeout.
type idleTimeoutReader struct {
	r       io.Reader
	timeout time.Duration
	timer   *time.Timer
	once    sync.Once
}

func newIdleTimeoutReader(r io.Reader, timeout time.Duration, cancel context.CancelCauseFunc) *idleTimeoutReader {
	return &idleTimeoutReader{
		r:       r,
		timeout: timeout,
		timer:   time.AfterFunc(timeout, func() { cancel(errIdleTimeout) }),
	}
}

func (i *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := i.r.Read(p)
	if n > 0 {
		i.timer.Reset(i.timeout)
	}
	return n, err
}

func (i *idleTimeoutReader) stop() {
	i.once.Do(func() { i.timer.Stop() })
}
