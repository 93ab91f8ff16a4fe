/*
fdcli is an interactive explorer for font diff trees. It compares two
font files on startup and drops into a small REPL for walking the
resulting tree:

	fdcli -font1 old.ttf -font2 new.ttf -location wght=600

	diff > ls
	diff > cd tables
	diff /tables > cat head

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fontdiff"
	"github.com/npillmayer/fontdiff/fontload"
	"github.com/npillmayer/fontdiff/vtree"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'fontdiff.cli'
func tracer() tracing.Trace {
	return tracing.Select("fontdiff.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":          "go",
		"trace.fontdiff.cli":       "Info",
		"trace.fontdiff.core":      "Error",
		"trace.fontdiff.fontload":  "Error",
		"trace.fontdiff.otdump":    "Error",
		"trace.fontdiff.render":    "Error",
		"trace.fontdiff.report":    "Error",
		"trace.fontdiff.wordlists": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	font1 := flag.String("font1", "", "First font to compare (old)")
	font2 := flag.String("font2", "", "Second font to compare (new)")
	location := flag.String("location", "", "Design-space location (e.g. wght=600)")
	instance := flag.String("instance", "", "Named instance to pin both fonts to")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the font diff CLI")
	//
	// set up REPL
	repl, err := readline.New("diff > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl, path: make([]pathNode, 0, 16)}
	//
	// compare the two fonts given by flags
	if err := intp.compareFonts(*font1, *font2, *location, *instance); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// pathNode is one step on the walk from the diff root to the current
// location. Object children are addressed by key, array elements by
// index.
type pathNode struct {
	value vtree.Value
	key   string
	inx   int
}

func (n *pathNode) String() string {
	if n.key != "" {
		return n.key
	}
	if n.inx >= 0 {
		return fmt.Sprintf("%d", n.inx)
	}
	return "<none>"
}

// Intp is our interpreter object
type Intp struct {
	root vtree.Value
	repl *readline.Instance
	path []pathNode
}

// pathString formats the current location, e.g. "/tables/head".
func (intp *Intp) pathString() string {
	if len(intp.path) == 0 {
		return "/"
	}
	sb := strings.Builder{}
	for i := range intp.path {
		sb.WriteString("/")
		sb.WriteString(intp.path[i].String())
	}
	return sb.String()
}

// current is the value the path points at, the root for an empty path.
func (intp *Intp) current() vtree.Value {
	if len(intp.path) == 0 {
		return intp.root
	}
	return intp.path[len(intp.path)-1].value
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		intp.repl.SetPrompt(fmt.Sprintf("diff %s > ", intp.pathString()))
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		err, quit := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

var commandFn = map[string]func(*Intp, string) (error, bool){
	"quit": quitOp,
	"ls":   lsOp,
	"cd":   cdOp,
	"cat":  catOp,
	"help": helpOp,
}

func (intp *Intp) execute(line string) (error, bool) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	f, ok := commandFn[cmd]
	if !ok {
		help("")
		return nil, false
	}
	tracer().Debugf("command %s %q", cmd, arg)
	return f(intp, arg)
}

func quitOp(intp *Intp, arg string) (error, bool) {
	pterm.Println("Goodbye!")
	return nil, true
}

// cdOp descends into a child of the current location. ".." pops one
// step, "/" resets to the root.
func cdOp(intp *Intp, arg string) (error, bool) {
	switch arg {
	case "":
		return errors.New("cd needs a key, '..' or '/'"), false
	case "/":
		intp.path = intp.path[:0]
		return nil, false
	case "..":
		if len(intp.path) > 0 {
			intp.path = intp.path[:len(intp.path)-1]
		}
		return nil, false
	}
	child, node, err := intp.child(arg)
	if err != nil {
		return err, false
	}
	node.value = child
	intp.path = append(intp.path, node)
	tracer().Infof("walked to %s", intp.pathString())
	return nil, false
}

// child resolves a key or index against the current location.
func (intp *Intp) child(arg string) (vtree.Value, pathNode, error) {
	cur := intp.current()
	switch cur.Kind() {
	case vtree.KindObject:
		v, ok := cur.AsObj().Get(arg)
		if !ok {
			return vtree.Null(), pathNode{}, fmt.Errorf("no entry %q here", arg)
		}
		return v, pathNode{key: arg, inx: -1}, nil
	case vtree.KindArray:
		elems := cur.AsArray()
		inx := -1
		if _, err := fmt.Sscanf(arg, "%d", &inx); err != nil || inx < 0 || inx >= len(elems) {
			return vtree.Null(), pathNode{}, fmt.Errorf("no element %q here", arg)
		}
		return elems[inx], pathNode{inx: inx}, nil
	}
	return vtree.Null(), pathNode{}, errors.New("current location is a leaf")
}

// --- Font comparison --------------------------------------------------

func (intp *Intp) compareFonts(path1, path2, location, instance string) error {
	if path1 == "" || path2 == "" {
		return errors.New("two fonts are required, use -font1 and -font2")
	}
	fontA, err := fontload.LoadOpenTypeFont(path1)
	if err != nil {
		return err
	}
	fontB, err := fontload.LoadOpenTypeFont(path2)
	if err != nil {
		return err
	}
	tracer().Infof("comparing %s to %s", fontA.Fontname, fontB.Fontname)
	opts := fontdiff.DefaultOptions()
	opts.Location = location
	opts.Instance = instance
	diff, err := fontdiff.Compare(fontA, fontB, opts)
	if err != nil {
		return err
	}
	intp.root = diff
	if obj := diff.AsObj(); obj != nil && obj.Len() > 0 {
		pterm.Printf("diff domains: %v\n", obj.Keys())
	} else {
		pterm.Println("the fonts do not differ")
	}
	return nil
}
