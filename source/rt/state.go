package rt

import (
	"fmt"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/logoc/logoc/source/settings"
	"github.com/logoc/logoc/source/text"
	"github.com/logoc/logoc/source/values"
)

// A Context is an index into the frame arena. Frames are created and discarded in LIFO
// order, so an index stays valid for as long as the call it belongs to.
type Context int

const Global Context = 0

// A compiled Logo procedure.
type Routine func(st *State, ctx Context) error

// Where in the Logo source a call comes from, so that errors can say.
type Site struct {
	File string
	Line int
	Name string
}

type frame struct {
	things    map[string]*Thing
	parent    Context
	file      string
	routine   string
	line      int
	primitive bool
	ret       values.Value
	repeats   []int64
	err       *Error
	test      Test
}

type Options struct {
	Out      io.Writer
	Err      io.Writer
	Trace    bool
	MaxDepth int
	Program  string
}

// State is everything a running program has: the frames, the property lists, and where
// output goes. Generated code threads it through every call.
type State struct {
	frames   []frame
	plists   map[string]values.Value
	Out      io.Writer
	Err      io.Writer
	Log      zerolog.Logger
	trace    bool
	maxDepth int
	folder   cases.Caser
	folded   *lru.Cache[string, string]
}

func NewState(opts Options) *State {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = settings.MAX_DEPTH
	}
	level := zerolog.InfoLevel
	if opts.Trace {
		level = zerolog.DebugLevel
	}
	folded, _ := lru.New[string, string](1024)
	st := &State{
		frames:   []frame{{parent: -1, routine: opts.Program}},
		plists:   map[string]values.Value{},
		Out:      opts.Out,
		Err:      opts.Err,
		Log:      zerolog.New(zerolog.ConsoleWriter{Out: opts.Err, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).Level(level).With().Str("program", opts.Program).Logger(),
		trace:    opts.Trace,
		maxDepth: opts.MaxDepth,
		folder:   cases.Fold(),
		folded:   folded,
	}
	return st
}

// Logo names are not case-sensitive. Programs use the same few names over and over, so the
// folded forms are cached.
func (st *State) fold(name string) string {
	if f, ok := st.folded.Get(name); ok {
		return f
	}
	f := st.folder.String(name)
	st.folded.Add(name, f)
	return f
}

// Makes a new frame for a call from the parent context.
func (st *State) Enter(parent Context, file, routine string, line int, primitive bool) (Context, error) {
	if len(st.frames) >= st.maxDepth {
		return parent, st.raise(parent, Site{File: file, Line: line}, STACK_OVERFLOW,
			fmt.Sprintf("stack overflow: more than %d procedure calls deep", st.maxDepth))
	}
	st.frames = append(st.frames, frame{parent: parent, file: file, routine: routine, line: line, primitive: primitive})
	ctx := Context(len(st.frames) - 1)
	if st.trace && !primitive {
		st.Log.Debug().Str("routine", routine).Int("depth", int(ctx)).Str("file", file).Int("line", line).Msg("enter")
	}
	return ctx, nil
}

// Discards the frame and any above it.
func (st *State) Leave(ctx Context) {
	if ctx <= Global || int(ctx) > len(st.frames) {
		return
	}
	if st.trace && int(ctx) < len(st.frames) && !st.frames[ctx].primitive {
		st.Log.Debug().Str("routine", st.frames[ctx].routine).Int("depth", int(ctx)).Msg("leave")
	}
	for i := int(ctx); i < len(st.frames); i++ {
		st.frames[i] = frame{}
	}
	st.frames = st.frames[:ctx]
}

// Binds an input of the procedure about to be invoked in the context.
func (st *State) Bind(ctx Context, name string, v values.Value) {
	st.define(ctx, st.fold(name), CONTEXT_LOCAL, v, true)
}

// Whether the context has its own binding for the name, with a value.
func (st *State) IsBound(ctx Context, name string) bool {
	t, ok := st.frames[ctx].things[st.fold(name)]
	return ok && t.set
}

// Runs the routine in the context, which was made by Enter, and then leaves it. The result
// is whatever the routine output, or the unset value if it didn't.
func (st *State) Invoke(ctx Context, r Routine) (values.Value, error) {
	e := r(st, ctx)
	ret := st.frames[ctx].ret
	st.Leave(ctx)
	if e != nil && !errors.Is(e, Stop) {
		return values.Unset, e
	}
	return ret, nil
}

// Calls a primitive in a frame of its own.
func (st *State) Apply(ctx Context, site Site, fn PrimitiveFunc, args ...values.Value) (values.Value, error) {
	c, e := st.Enter(ctx, site.File, site.Name, site.Line, true)
	if e != nil {
		return values.Unset, e
	}
	v, e := fn(st, c, args...)
	st.Leave(c)
	if e != nil {
		return values.Unset, st.annotate(ctx, site, e)
	}
	return v, nil
}

// Calls a primitive directly in the caller's frame.
func (st *State) Inline(ctx Context, site Site, fn PrimitiveFunc, args ...values.Value) (values.Value, error) {
	v, e := fn(st, ctx, args...)
	if e != nil {
		return values.Unset, st.annotate(ctx, site, e)
	}
	return v, nil
}

// Stores the value in the return slot of the context. The result is Stop, which the
// generated code returns at once.
func (st *State) Output(ctx Context, v values.Value) error {
	st.frames[ctx].ret = v
	return Stop
}

func (st *State) OutputExpected(ctx Context, site Site) error {
	return st.raise(ctx, site, OUTPUT_EXPECTED,
		fmt.Sprintf("%s didn't output a value", st.frames[st.procedureFrame(ctx)].routine))
}

// The value of a variable, as read by :name.
func (st *State) Lookup(ctx Context, site Site, name string) (values.Value, error) {
	v, e := st.GetThing(ctx, name)
	if e != nil {
		return values.Unset, st.annotate(ctx, site, e)
	}
	return v, nil
}

// The nearest frame, starting from ctx, which belongs to a procedure rather than a
// primitive.
func (st *State) procedureFrame(ctx Context) Context {
	for ctx > Global && st.frames[ctx].primitive {
		ctx = st.frames[ctx].parent
	}
	return ctx
}

// Runs the entry routine of a program in the global frame.
func (st *State) Run(entry Routine) error {
	e := entry(st, Global)
	if errors.Is(e, Stop) {
		return nil
	}
	return e
}

// Runs the program and reports any error which reaches the top. The result is the exit
// status.
func Main(entry Routine, opts Options) int {
	st := NewState(opts)
	if e := st.Run(entry); e != nil {
		fmt.Fprintln(st.Err, text.RT_ERROR+": "+e.Error())
		return 1
	}
	return 0
}
