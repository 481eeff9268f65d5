package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// A writer with a fake clock. The clock advances only via recorded sleeps.
func fakeClockWriter() (*TimedWriter, *[]time.Duration) {
	now := time.Unix(1000, 0)
	var slept []time.Duration

	w := &TimedWriter{}
	w.now = func() time.Time { return now }
	w.sleep = func(d time.Duration) {
		slept = append(slept, d)
		now = now.Add(d)
	}
	return w, &slept
}

func TestTimedWriterSpacesWrites(t *testing.T) {
	w, slept := fakeClockWriter()
	dir := t.TempDir()

	if err := w.WriteFile(filepath.Join(dir, "one"), []byte("1"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFile(filepath.Join(dir, "two"), []byte("2"), 0644); err != nil {
		t.Fatal(err)
	}

	// The first write after a long idle period does not sleep; the
	// immediate second write sleeps out the full interval.
	if len(*slept) != 1 {
		t.Fatalf("sleeps = %v, want exactly one", *slept)
	}
	if (*slept)[0] != writeInterval {
		t.Fatalf("slept %v, want %v", (*slept)[0], writeInterval)
	}
}

func TestTimedWriterNoSleepWhenSpaced(t *testing.T) {
	now := time.Unix(1000, 0)
	var slept []time.Duration

	w := &TimedWriter{}
	w.now = func() time.Time {
		now = now.Add(writeInterval * 2) // time passes between calls
		return now
	}
	w.sleep = func(d time.Duration) { slept = append(slept, d) }

	dir := t.TempDir()
	for i, name := range []string{"one", "two", "three"} {
		if err := w.WriteFile(filepath.Join(dir, name), []byte{byte(i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if len(slept) != 0 {
		t.Fatalf("sleeps = %v, want none for naturally spaced writes", slept)
	}
}

func TestTimedWriterWritesContent(t *testing.T) {
	w := NewTimedWriter()
	path := filepath.Join(t.TempDir(), "state")

	if err := w.WriteFile(path, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "payload" {
		t.Fatalf("content = %q, want payload", got)
	}
}
