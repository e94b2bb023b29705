package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/dnephin/pflag"

	"github.com/logoc/logoc/source/driver"
	"github.com/logoc/logoc/source/err"
	"github.com/logoc/logoc/source/text"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) (code int) {
	// A broken compiler still exits with 1, like any other failure, but says where it broke.
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(err.InternalError)
			if !ok {
				panic(r)
			}
			fmt.Fprintln(errOut, text.ERROR+": "+ie.Error())
			errOut.Write(debug.Stack())
			code = 1
		}
	}()
	var (
		cfg     driver.Config
		noTrace bool
		version bool
	)
	flags := pflag.NewFlagSet("logoc", pflag.ContinueOnError)
	flags.SetOutput(errOut)
	flags.Usage = func() {
		fmt.Fprintln(errOut, "usage: logoc [flags] file... | -")
		flags.PrintDefaults()
	}
	flags.StringVarP(&cfg.Output, "output", "o", "", "write the Go to this file, or to the standard output if it's -")
	flags.BoolVarP(&cfg.ObjectOnly, "object", "c", false, "emit a library package without a main")
	flags.StringVar(&cfg.Package, "package", "", "the name of the library package")
	flags.BoolVar(&cfg.Trace, "trace", false, "trace procedure calls at run time")
	flags.BoolVar(&noTrace, "no-trace", false, "don't trace procedure calls")
	flags.StringArrayVarP(&cfg.Includes, "include", "I", nil, "look for files here, and pass the directory to the build as CGO_CFLAGS")
	flags.StringArrayVarP(&cfg.Libs, "lib", "L", nil, "pass the directory to the build as CGO_LDFLAGS")
	flags.BoolVar(&cfg.Build, "build", false, "run go build on the output")
	flags.StringVar(&cfg.BuildFlags, "build-flags", "", "more flags for go build")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "say what's being done, and explain errors")
	flags.BoolVar(&version, "version", false, "print the version and exit")
	if e := flags.Parse(args); e != nil {
		if e == pflag.ErrHelp {
			return 0
		}
		return 1
	}
	if version {
		fmt.Fprintln(out, "logoc "+text.VERSION)
		return 0
	}
	if noTrace {
		cfg.Trace = false
	}
	cfg.Files = flags.Args()
	return driver.New(cfg, in, out, errOut).Run()
}
