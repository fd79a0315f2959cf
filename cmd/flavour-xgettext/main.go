// flavour-xgettext is a tool to extract the text of templates in the PO
// (gettext) file format.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/flavour"
	"github.com/robfig/flavour/ast"
	"github.com/robfig/flavour/msgs"
)

func usage() {
	fmt.Print(`flavour-xgettext is a tool to extract the text of templates.

Usage:

	./flavour-xgettext [INPUTPATH]...

INPUTPATH elements may be files or directories. Input directories will be
recursively searched for *.flavour.json files.

The resulting PO template file is written to STDOUT

`)
}

var extractor msgs.Extractor

func main() {
	if len(os.Args) < 2 || strings.HasSuffix(os.Args[1], "help") {
		usage()
		os.Exit(1)
	}

	for _, src := range os.Args[1:] {
		err := filepath.Walk(src, walkSource)
		if err != nil {
			exit(err)
		}
	}
	extractor.File.WriteTo(os.Stdout)
}

func walkSource(path string, info os.FileInfo, err error) error {
	if err != nil {
		return err
	}
	if info.IsDir() || !strings.HasSuffix(path, flavour.TemplateExt) {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := ast.ParseFile(path, content)
	if err != nil {
		return err
	}
	extractor.Extract(f)
	return nil
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
