package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/flowstate/todo"
	"github.com/amonks/flowstate/user"
)

var (
	buildOnce sync.Once
	flowPath  string
	buildErr  error
)

// BuildFlow builds the flow binary once and returns its path.
func BuildFlow(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "flow-bin-")
		if err != nil {
			buildErr = err
			return
		}

		flowPath = filepath.Join(binDir, "flow")
		cmd := exec.Command("go", "build", "-o", flowPath, "./cmd/flow")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build flow: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return flowPath
}

// SetupScriptEnv configures common environment variables for testscript.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("FLOW", BuildFlow(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("FLOWSTATE_DIR", "")
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTodoID finds a todo by title in a JSON list and stores its ID in an
// env var.
func CmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	setRecordID(ts, neg, "todoid", args, func(t todo.Todo, title string) (string, bool) {
		return t.ID, t.Title == title
	})
}

// CmdUserID finds a user by email, ignoring case, and stores its ID in an
// env var.
func CmdUserID(ts *testscript.TestScript, neg bool, args []string) {
	setRecordID(ts, neg, "userid", args, func(u user.User, email string) (string, bool) {
		return u.ID, strings.EqualFold(u.Email, email)
	})
}

func setRecordID[R any](ts *testscript.TestScript, neg bool, name string, args []string, match func(R, string) (string, bool)) {
	if neg {
		ts.Fatalf("%s does not support negation", name)
	}
	if len(args) != 3 {
		ts.Fatalf("usage: %s FILE KEY VAR", name)
	}

	var records []R
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &records); err != nil {
		ts.Fatalf("parse %s: %v", args[0], err)
	}
	for _, record := range records {
		if id, ok := match(record, args[1]); ok {
			ts.Setenv(args[2], id)
			return
		}
	}
	ts.Fatalf("no record matches %q", args[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
