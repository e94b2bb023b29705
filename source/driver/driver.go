package driver

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/google/shlex"
	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/logoc/logoc/source/ast"
	"github.com/logoc/logoc/source/compiler"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/parser"
	"github.com/logoc/logoc/source/text"
)

const MARGIN = 92

// What the command line asks for.
type Config struct {
	Files      []string // "-" is the standard input.
	Output     string   // "-" is the standard output.
	ObjectOnly bool
	Package    string
	Trace      bool
	Includes   []string
	Libs       []string
	Build      bool
	BuildFlags string
	Verbose    bool
}

// The driver reads the files, parses and compiles them, writes the Go, and if asked builds it.
type Driver struct {
	cfg    Config
	in     io.Reader
	out    io.Writer
	stderr io.Writer
	log    zerolog.Logger
	ers    err.Errors
}

// Runs the downstream build. Tests replace it so as not to need a Go toolchain.
var runCommand = func(cmd *exec.Cmd) error {
	return cmd.Run()
}

func New(cfg Config, in io.Reader, out, errOut io.Writer) *Driver {
	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	return &Driver{
		cfg:    cfg,
		in:     in,
		out:    out,
		stderr: errOut,
		log: zerolog.New(zerolog.ConsoleWriter{Out: errOut, NoColor: color.NoColor, PartsExclude: []string{zerolog.TimestampFieldName}}).
			Level(level).With().Str("cmd", "logoc").Logger(),
	}
}

// Does everything, and gives the exit code.
func (dr *Driver) Run() int {
	if len(dr.cfg.Files) == 0 {
		dr.WriteError("no input files")
		return 1
	}
	prog, ok := dr.Parse()
	if !ok {
		return 1
	}
	src, ok := dr.Compile(prog)
	if !ok {
		return 1
	}
	goFile, e := dr.write(prog, src)
	if e != nil {
		dr.WriteError(e.Error())
		return 1
	}
	if !dr.cfg.Build {
		return 0
	}
	if goFile == "" {
		dr.WriteError("can't build code written to the standard output")
		return 1
	}
	if e := dr.build(goFile); e != nil {
		dr.WriteError(e.Error())
		return 1
	}
	return 0
}

// Reads every file into one parser, and parses the lot.
func (dr *Driver) Parse() (*ast.Program, bool) {
	p := parser.New()
	for _, name := range dr.cfg.Files {
		if name == "-" {
			dr.log.Debug().Msg("reading the standard input")
			p.AddReader("standard input", bufio.NewReader(dr.in))
			continue
		}
		path, e := dr.find(name)
		if e != nil {
			dr.WriteError(e.Error())
			return nil, false
		}
		data, e := os.ReadFile(path)
		if e != nil {
			dr.WriteError(errors.Wrapf(e, "can't read %s", path).Error())
			return nil, false
		}
		dr.log.Debug().Str("file", path).Str("size", humanize.Bytes(uint64(len(data)))).Msg("reading")
		p.AddSource(path, string(data))
	}
	if p.ErrorsExist() {
		dr.GetAndReportErrors(p.Errors)
		return nil, false
	}
	dr.log.Debug().Msg("parsing bodies")
	prog := p.Parse()
	if p.ErrorsExist() {
		dr.GetAndReportErrors(p.Errors)
		return nil, false
	}
	dr.log.Debug().Str("program", prog.Name).Int("procedures", len(prog.Procedures)).Msg("parsed")
	return prog, true
}

func (dr *Driver) Compile(prog *ast.Program) ([]byte, bool) {
	cp := compiler.New(prog, compiler.Options{ObjectOnly: dr.cfg.ObjectOnly, Package: dr.cfg.Package, Trace: dr.cfg.Trace})
	src := cp.Compile()
	if cp.ErrorsExist() {
		dr.GetAndReportErrors(cp.Errors)
		return nil, false
	}
	dr.log.Debug().Str("package", cp.PackageName()).Msg("compiled")
	return src, true
}

// A file which isn't where it's said to be is looked for in the include directories.
func (dr *Driver) find(name string) (string, error) {
	if _, e := os.Stat(name); e == nil || filepath.IsAbs(name) {
		return name, nil
	}
	for _, dir := range dr.cfg.Includes {
		path := filepath.Join(dir, name)
		if _, e := os.Stat(path); e == nil {
			return path, nil
		}
	}
	return "", errors.Errorf("can't find %s", name)
}

// Writes the Go, and returns the name of the file it went in, which is empty for the
// standard output.
func (dr *Driver) write(prog *ast.Program, src []byte) (string, error) {
	if dr.cfg.Output == "-" {
		_, e := dr.out.Write(src)
		return "", errors.Wrap(e, "can't write to the standard output")
	}
	goFile := dr.cfg.Output
	if goFile == "" {
		goFile = dr.defaultOutput(prog)
	}
	if e := os.WriteFile(goFile, src, 0644); e != nil {
		return "", errors.Wrapf(e, "can't write %s", goFile)
	}
	dr.log.Info().Str("file", goFile).Str("size", humanize.Bytes(uint64(len(src)))).Msg("wrote")
	return goFile, nil
}

// Named after the program if it says what it is, and otherwise after the first file.
func (dr *Driver) defaultOutput(prog *ast.Program) string {
	name := prog.Name
	if name == "main" && dr.cfg.Files[0] != "-" {
		name = dr.cfg.Files[0]
	}
	return text.FlattenedFilename(name) + ".go"
}

// A program is built into an executable next to its Go. A library can't be, but building
// it checks it.
func (dr *Driver) build(goFile string) error {
	args := []string{"build"}
	extra, e := shlex.Split(dr.cfg.BuildFlags)
	if e != nil {
		return errors.Wrap(e, "can't split --build-flags")
	}
	args = append(args, extra...)
	if !dr.cfg.ObjectOnly {
		args = append(args, "-o", strings.TrimSuffix(goFile, ".go"))
	}
	args = append(args, goFile)
	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), dr.cgoEnv()...)
	cmd.Stdout = dr.stderr
	cmd.Stderr = dr.stderr
	dr.log.Info().Str("command", shellquote.Join(cmd.Args...)).Msg("building")
	if e := runCommand(cmd); e != nil {
		return errors.Wrap(e, "go build failed")
	}
	return nil
}

// The include and library directories are for whatever C the external procedures of the
// program link against.
func (dr *Driver) cgoEnv() []string {
	env := []string{}
	add := func(variable, flag string, dirs []string) {
		if len(dirs) == 0 {
			return
		}
		flags := []string{}
		if old := os.Getenv(variable); old != "" {
			flags = append(flags, old)
		}
		for _, dir := range dirs {
			flags = append(flags, shellquote.Join(flag+dir))
		}
		env = append(env, variable+"="+strings.Join(flags, " "))
	}
	add("CGO_CFLAGS", "-I", dr.cfg.Includes)
	add("CGO_LDFLAGS", "-L", dr.cfg.Libs)
	return env
}

func (dr *Driver) GetAndReportErrors(ers err.Errors) {
	dr.ers = ers
	dr.WritePretty(err.GetList(ers))
	if dr.cfg.Verbose {
		for i := range ers {
			dr.WritePretty("\n" + text.BULLET + err.Explain(ers, i) + "\n")
		}
	}
}

func (dr *Driver) Errors() err.Errors {
	return dr.ers
}

func (dr *Driver) WritePretty(s string) {
	io.WriteString(dr.stderr, text.Pretty(s, 0, MARGIN))
}

func (dr *Driver) WriteError(s string) {
	dr.WritePretty(text.ERROR + ": " + s + "\n")
}
