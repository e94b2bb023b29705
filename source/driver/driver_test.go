package driver

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// Generated programs import the runtime, so they have to be built inside this module.
func moduleRoot(t *testing.T) string {
	dir, _ := os.Getwd()
	for {
		if _, e := os.Stat(filepath.Join(dir, "go.mod")); e == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("can't find go.mod")
		}
		dir = parent
	}
}

func testFile(name string) string {
	wd, _ := os.Getwd()
	return filepath.Join(wd, "test-files", name)
}

func run(t *testing.T, cfg Config, stdin string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := New(cfg, strings.NewReader(stdin), &out, &errOut).Run()
	return code, out.String(), errOut.String()
}

func TestCompileToFile(t *testing.T) {
	goFile := filepath.Join(t.TempDir(), "squares.go")
	code, _, stderr := run(t, Config{Files: []string{testFile("square.logo")}, Output: goFile}, "")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	data, e := os.ReadFile(goFile)
	if e != nil {
		t.Fatal(e)
	}
	for _, want := range []string{"package main", "func logo_square(", `Program: "squares"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("wanted %s in\n%s", want, data)
		}
	}
}

func TestStandardInputAndOutput(t *testing.T) {
	code, stdout, stderr := run(t, Config{Files: []string{"-"}, Output: "-", Trace: true}, "print \"hello\n")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, `rt.Options{Trace: true, Program: "main"}`) {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestErrorsGiveExitCodeOne(t *testing.T) {
	code, _, stderr := run(t, Config{Files: []string{testFile("broken.logo")}, Output: "-"}, "")
	if code != 1 || !strings.Contains(stderr, "sum") {
		t.Fatalf("wanted exit code 1 and a complaint about sum, got %d: %s", code, stderr)
	}
	code, _, _ = run(t, Config{Files: []string{"-"}, Output: "-"}, "output 1\n")
	if code != 1 {
		t.Fatalf("a compiler error should give exit code 1, got %d", code)
	}
	code, _, stderr = run(t, Config{Files: []string{"nowhere.logo"}, Output: "-"}, "")
	if code != 1 || !strings.Contains(stderr, "can't find nowhere.logo") {
		t.Fatalf("a missing file should give exit code 1, got %d: %s", code, stderr)
	}
	code, _, _ = run(t, Config{}, "")
	if code != 1 {
		t.Fatalf("no files should give exit code 1, got %d", code)
	}
}

func TestIncludeDirectories(t *testing.T) {
	wd, _ := os.Getwd()
	code, _, stderr := run(t, Config{Files: []string{"square.logo"}, Includes: []string{filepath.Join(wd, "test-files")}, Output: "-"}, "")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
}

func TestBuild(t *testing.T) {
	var got *exec.Cmd
	saved := runCommand
	runCommand = func(cmd *exec.Cmd) error {
		got = cmd
		return nil
	}
	defer func() { runCommand = saved }()
	goFile := filepath.Join(t.TempDir(), "squares.go")
	cfg := Config{
		Files:      []string{testFile("square.logo")},
		Output:     goFile,
		Build:      true,
		BuildFlags: `-trimpath -ldflags "-s -w"`,
		Includes:   []string{"/opt/turtle/include"},
		Libs:       []string{"/opt/turtle/lib"},
	}
	code, _, stderr := run(t, cfg, "")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	want := []string{"go", "build", "-trimpath", "-ldflags", "-s -w", "-o", strings.TrimSuffix(goFile, ".go"), goFile}
	if strings.Join(got.Args, "|") != strings.Join(want, "|") {
		t.Fatalf("wanted %q, got %q", want, got.Args)
	}
	env := strings.Join(got.Env, "\n")
	if !strings.Contains(env, "CGO_CFLAGS=") || !strings.Contains(env, "-I/opt/turtle/include") ||
		!strings.Contains(env, "CGO_LDFLAGS=") || !strings.Contains(env, "-L/opt/turtle/lib") {
		t.Fatalf("the include and library paths should be passed on, got\n%s", env)
	}
	cfg.BuildFlags = `"unclosed`
	if code, _, _ := run(t, cfg, ""); code != 1 {
		t.Fatalf("bad build flags should give exit code 1, got %d", code)
	}
}

func TestBuildingALibraryHasNoExecutable(t *testing.T) {
	var got *exec.Cmd
	saved := runCommand
	runCommand = func(cmd *exec.Cmd) error {
		got = cmd
		return nil
	}
	defer func() { runCommand = saved }()
	goFile := filepath.Join(t.TempDir(), "shapes.go")
	code, _, stderr := run(t, Config{Files: []string{testFile("square.logo")}, Output: goFile, Build: true, ObjectOnly: true}, "")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if strings.Contains(strings.Join(got.Args, " "), "-o") {
		t.Fatalf("a library has nowhere to go, got %q", got.Args)
	}
}

func TestLogLines(t *testing.T) {
	goFile := filepath.Join(t.TempDir(), "squares.go")
	code, _, stderr := run(t, Config{Files: []string{testFile("square.logo")}, Output: goFile, Verbose: true}, "")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	if !strings.Contains(stderr, "wrote") || strings.Contains(stderr, "<nil>") {
		t.Fatalf("unexpected log:\n%s", stderr)
	}
}

// Compiles a program, builds it with the Go toolchain, and runs it.
func TestRunningCompiledPrograms(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs a program")
	}
	if _, e := exec.LookPath("go"); e != nil {
		t.Skip("no go command")
	}
	dir, e := os.MkdirTemp(moduleRoot(t), "_run")
	if e != nil {
		t.Fatal(e)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	goFile := filepath.Join(dir, "behaviour.go")
	code, _, stderr := run(t, Config{Files: []string{testFile("behaviour.logo")}, Output: goFile, Build: true}, "")
	if code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr)
	}
	out, e := exec.Command(strings.TrimSuffix(goFile, ".go")).CombinedOutput()
	if e != nil {
		t.Fatalf("running the program: %v\n%s", e, out)
	}
	want := []string{
		"1",         // REPEAT 3 [OUTPUT REPCOUNT] outputs on the first turn.
		"3 3",       // SUM nested in PRINT takes its default two inputs.
		"5",         // A procedure sees the caller's variable.
		"6",         // It also sees one its caller made LOCAL.
		"5",         // That one is gone after the call.
		"3",         // TAG and GOTO.
		"2",
		"1",
		"1",         // The payload of a caught THROW.
		"2",         // A THROW passes a CATCH of another tag.
		"survived",  // CATCH "ERROR catches division by zero.
		"42",        // OUTPUT inside CATCH.
		"1 2 []",    // Defaults are computed from earlier inputs.
		"1 5 [7 8]", // The rest input.
		"1",         // REPCOUNT at the top level.
		"2",
	}
	if got := strings.TrimSpace(string(out)); got != strings.Join(want, "\n") {
		t.Fatalf("wanted\n%s\ngot\n%s", strings.Join(want, "\n"), got)
	}
}
