package sandbox

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/moby/sys/reexec"
	"golang.org/x/sys/unix"
)

// Name the binary re-executes itself under to run a sandbox child.
const childCommand = "lathe-sandbox-child"

// File descriptor the child writes its result to, inherited from the parent.
const resultFD = 3

func init() {
	reexec.Register(childCommand, childMain)
}

// Init dispatches to the sandbox child entrypoint when the binary was
// re-executed as one. It must be called first thing in main; it returns true
// when the process served as a child and should exit.
func Init() bool {
	return reexec.Init()
}

// A function executed inside the sandbox after the chroot.
type TargetFunc func(args ...string) (string, error)

var (
	targetsMu sync.RWMutex
	targets   = make(map[string]TargetFunc)
)

// Registers a target under a name. Targets must be registered during program
// init, before any Execute call, because the child process resolves them by
// name after re-exec. Registering the same name twice panics.
func RegisterTarget(name string, fn TargetFunc) {
	targetsMu.Lock()
	defer targetsMu.Unlock()
	if _, ok := targets[name]; ok {
		panic(fmt.Sprintf("sandbox target %q registered twice", name))
	}
	targets[name] = fn
}

func lookupTarget(name string) (TargetFunc, bool) {
	targetsMu.RLock()
	defer targetsMu.RUnlock()
	fn, ok := targets[name]
	return fn, ok
}

// Message sent from the child to the parent when the target finishes.
type childResult struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Child entrypoint. Arguments after the command name are the sandbox root,
// the target name, and the target's arguments.
func childMain() {
	out := os.NewFile(resultFD, "result")
	if out == nil || len(os.Args) < 3 {
		os.Exit(1)
	}

	res := runTarget(os.Args[1], os.Args[2], os.Args[3:])
	if err := json.NewEncoder(out).Encode(res); err != nil {
		os.Exit(1)
	}
	out.Close()
}

// Chroots into the sandbox root and calls the target. A failure never
// propagates past this boundary: the parent always receives either a result
// or a failure message.
func runTarget(root, name string, args []string) (res childResult) {
	defer func() {
		if p := recover(); p != nil {
			res = childResult{Error: fmt.Sprint(p)}
		}
	}()

	fn, ok := lookupTarget(name)
	if !ok {
		return childResult{Error: fmt.Sprintf("unknown sandbox target %q", name)}
	}

	slog.Debug("chroot", "pid", os.Getpid(), "root", root)
	if err := unix.Chdir(root); err != nil {
		return childResult{Error: fmt.Sprintf("chdir %s: %v", root, err)}
	}
	if err := unix.Chroot(root); err != nil {
		return childResult{Error: fmt.Sprintf("chroot %s: %v", root, err)}
	}

	out, err := fn(args...)
	if err != nil {
		return childResult{Error: err.Error()}
	}
	return childResult{Result: out}
}

// Spawns the sandbox child and waits for its result. Replaceable for tests.
var executeChild = runChildProcess

// Starts the child process and blocks on its result message.
//
// The wait is unbounded: a child that never reports back blocks the caller
// indefinitely.
func runChildProcess(root, target string, args []string) (string, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExecution, err)
	}
	defer r.Close()

	argv := append([]string{childCommand, root, target}, args...)
	cmd := reexec.Command(argv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{w}

	slog.Debug("starting sandbox child", "root", root, "target", target)
	if err := cmd.Start(); err != nil {
		w.Close()
		return "", fmt.Errorf("%w: start child: %v", ErrExecution, err)
	}
	w.Close()

	var res childResult
	decErr := json.NewDecoder(r).Decode(&res)
	waitErr := cmd.Wait()

	if decErr != nil {
		if waitErr != nil {
			return "", fmt.Errorf("%w: child exited without reporting: %v", ErrExecution, waitErr)
		}
		return "", fmt.Errorf("%w: read child result: %v", ErrExecution, decErr)
	}
	if res.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrExecution, res.Error)
	}
	return res.Result, nil
}
