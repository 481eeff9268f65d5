package state

import (
	"os"
	"sync"
	"time"
)

// Minimum spacing between state file writes. Hosts with coarse filesystem
// timestamp resolution would otherwise produce files with identical mtimes,
// breaking freshness checks that compare them.
const writeInterval = 20 * time.Millisecond

// Enforces a minimum interval between file writes.
type TimedWriter struct {
	mu    sync.Mutex
	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

// Creates a writer using the system clock.
func NewTimedWriter() *TimedWriter {
	return &TimedWriter{
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Writes data to the file, sleeping first if the previous write through
// this writer happened less than the minimum interval ago.
func (w *TimedWriter) WriteFile(path string, data []byte, perm os.FileMode) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if delta := w.now().Sub(w.last); delta < writeInterval {
		w.sleep(writeInterval - delta)
	}

	err := os.WriteFile(path, data, perm)
	w.last = w.now()
	return err
}

// Process-wide writer shared by all persisted step states.
var defaultWriter = NewTimedWriter()
