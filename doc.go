/*
Package flavour compiles templates into classes for a virtual machine without
closures.

A template arrives parsed and typed, as a tree of elements, text and
directives. Each directive occurrence is compiled into a class of its own,
linked to the instance that created it through a this$owner field, and
directive variables live in fields of those classes. The emitting package
holds the compiler proper; this package gathers template files into a Bundle
and compiles them all.

Usage example

Templates are kept as *.flavour.json files, the output of the template parser:

  app/templates/
  app/templates/account/
  ...

On startup:

  comp, err := flavour.NewBundle().
      WatchFiles(mode == "dev").          // watch template files, recompile on changes
      AddMessagesDir("messages", "fr").   // translate text using messages/fr.po
      AddTemplateDir("templates").        // load *.flavour.json in all sub-directories
      Compile()

The classes are then handed to the build pipeline:

  f, _ := os.Create("templates.cbor")
  err = comp.WriteClasses(f)

or rendered as JavaScript for development:

  err = comp.WriteJS(w)

Configuration

A project may instead be described by a flavour.toml file:

  [source]
  dirs = ["templates"]

  [compiler]
  class-prefix = "app$"
  workers = 4
  verbose = true

  [messages]
  dir = "messages"
  locale = "fr"

  [output]
  classes = "build/templates.cbor"
  js = "build/templates.js"
  listing = "build/templates.txt"

FindConfig locates it and Config.Bundle returns the configured Bundle. The
flavourc command compiles a project this way.
*/
package flavour
