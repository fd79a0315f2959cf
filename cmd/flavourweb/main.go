/*
flavourweb is a simple development server that serves the classes compiled
from the given template files.

Invoke it like so:

  go install github.com/robfig/flavour/cmd/flavourweb
  flavourweb page.flavour.json list.flavour.json

The files are recompiled on every request. The root path serves the class
listing, /templates.js the JavaScript rendering of the classes, and
/templates.cbor the class stream. A "template" query parameter restricts the
listing to the classes of one template.
*/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/robfig/flavour"
	"github.com/robfig/flavour/jsgen"
	"github.com/robfig/flavour/model"
)

var (
	port   = flag.Int("port", 9812, "port on which to listen")
	locale = flag.String("locale", "", "translate text using <msgs>/<locale>.po")
	msgDir = flag.String("msgs", "messages", "directory of PO files")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("usage: flavourweb [flags] FILE...")
	}
	http.HandleFunc("/", listing)
	http.HandleFunc("/templates.js", javascript)
	http.HandleFunc("/templates.cbor", classes)
	fmt.Print("Listening on :", *port, "...")
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", *port), nil))
}

func compile() (*flavour.Compilation, error) {
	var b = flavour.NewBundle()
	if *locale != "" {
		b.AddMessagesDir(*msgDir, *locale)
	}
	for _, f := range flag.Args() {
		b.AddTemplateFile(f)
	}
	return b.Compile()
}

func listing(res http.ResponseWriter, req *http.Request) {
	var comp, err = compile()
	if err != nil {
		http.Error(res, err.Error(), 500)
		return
	}

	var text string
	if name := req.URL.Query().Get("template"); name != "" {
		var classes = comp.TemplateClasses(name)
		if classes == nil {
			http.Error(res, "Template "+name+" not found", 404)
			return
		}
		text = model.Listing(classes...)
	} else {
		text = comp.Listing()
	}
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(res, text)
}

func javascript(res http.ResponseWriter, req *http.Request) {
	var comp, err = compile()
	if err != nil {
		http.Error(res, err.Error(), 500)
		return
	}
	var buf bytes.Buffer
	if err = jsgen.Write(&buf, comp.Classes(), jsgen.Options{Table: req.URL.Query().Get("table")}); err != nil {
		http.Error(res, err.Error(), 500)
		return
	}
	res.Header().Set("Content-Type", "application/javascript")
	io.Copy(res, &buf)
}

func classes(res http.ResponseWriter, req *http.Request) {
	var comp, err = compile()
	if err != nil {
		http.Error(res, err.Error(), 500)
		return
	}
	var buf bytes.Buffer
	if err = comp.WriteClasses(&buf); err != nil {
		http.Error(res, err.Error(), 500)
		return
	}
	res.Header().Set("Content-Type", "application/cbor")
	io.Copy(res, &buf)
}
