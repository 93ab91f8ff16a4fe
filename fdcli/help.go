package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, arg string) (error, bool) {
	help(arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "tree", "diff", "layout":
		pterm.Info.Println("Diff tree layout")
		pterm.Println(`
	The diff is a tree with up to three top-level domains:

	tables: one entry per changed font table. A leaf difference is a
	        two-element array [old, new]; null marks an absent side.
	glyphs: arrays "missing", "new" and "modified" of glyph records
	        with codepoint, name and pixel difference percent.
	words:  one list of word records per script with rendering
	        differences.
	`)
	case "cd", "ls", "cat":
		pterm.Info.Println("Navigation")
		pterm.Println(`
	ls          list the entries of the current location
	cd <key>    descend into an entry (arrays take an index)
	cd ..       go back up one step
	cd /        go back to the root
	cat [<key>] pretty-print the current location or one entry
	`)
	default:
		pterm.Info.Println("Commands: ls, cd <key>, cat [<key>], help [<topic>], quit")
		pterm.Println("    help topics: tree, cd")
	}
}
