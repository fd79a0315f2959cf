// flavourc compiles the templates of a project into classes.
//
// The project is described by the flavour.toml file found in the directory
// given by -config or one of its parents. The classes are written to the
// outputs named in the [output] section, which the -classes, -js and
// -listing flags override. With -watch, flavourc keeps running and rewrites
// the outputs whenever a template changes.
package main

import (
	"bytes"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/robfig/flavour"
)

var (
	configDir   = flag.String("config", ".", "directory to search for flavour.toml")
	watch       = flag.Bool("watch", false, "recompile when templates change")
	verbose     = flag.Bool("v", false, "log the outer variables read by every class")
	classesPath = flag.String("classes", "", "write the class stream to this file")
	jsPath      = flag.String("js", "", "write the JavaScript rendering to this file")
	listingPath = flag.String("listing", "", "write the class listing to this file")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("flavourc: ")

	config, err := flavour.FindConfig(*configDir)
	if err != nil {
		log.Fatal(err)
	}
	if config == nil {
		log.Fatalf("no %s found in %s or its parents", flavour.ConfigFile, *configDir)
	}
	if *classesPath != "" {
		config.Output.Classes = *classesPath
	}
	if *jsPath != "" {
		config.Output.JS = *jsPath
	}
	if *listingPath != "" {
		config.Output.Listing = *listingPath
	}
	if *verbose {
		config.Compiler.Verbose = true
	}

	var bundle = config.Bundle(*watch).
		SetRecompilationCallback(func(comp *flavour.Compilation) {
			if err := write(config, comp); err != nil {
				log.Println(err)
			}
		})
	comp, err := bundle.Compile()
	if err != nil {
		log.Fatal(err)
	}
	if err := write(config, comp); err != nil {
		log.Fatal(err)
	}
	log.Printf("compiled %d templates into %d classes", len(comp.Results), len(comp.Classes()))

	if *watch {
		select {}
	}
}

func write(config *flavour.Config, comp *flavour.Compilation) error {
	var outputs = []struct {
		path   string
		render func(*bytes.Buffer) error
	}{
		{config.Output.Classes, func(buf *bytes.Buffer) error { return comp.WriteClasses(buf) }},
		{config.Output.JS, func(buf *bytes.Buffer) error { return comp.WriteJS(buf) }},
		{config.Output.Listing, func(buf *bytes.Buffer) error {
			_, err := buf.WriteString(comp.Listing())
			return err
		}},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		var buf bytes.Buffer
		if err := out.render(&buf); err != nil {
			return err
		}
		var path = config.Path(out.path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return err
		}
	}
	return nil
}
