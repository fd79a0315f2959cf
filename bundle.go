package flavour

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/flavour/ast"
	"github.com/robfig/flavour/emitting"
	"github.com/robfig/flavour/jsgen"
	"github.com/robfig/flavour/model"
	"github.com/robfig/flavour/msgs"
	"github.com/robfig/flavour/pipeline"
	"github.com/robfig/flavour/template"
	"golang.org/x/sync/errgroup"
)

// Logger is used to print notifications and compile errors when using the
// "WatchFiles" feature, and capture diagnostics in verbose mode.
var Logger = log.New(os.Stderr, "[flavour] ", 0)

// TemplateExt is the suffix of the parsed template files AddTemplateDir picks up.
const TemplateExt = ".flavour.json"

type templateFile struct {
	name    string
	content []byte
	onDisk  bool
}

// Bundle is a collection of parsed template files. It acts as input for the
// class emitter.
type Bundle struct {
	files                 []templateFile
	err                   error
	watcher               *fsnotify.Watcher
	messages              emitting.Translator
	exprs                 emitting.ExprEmitter
	prefix                string
	workers               int
	verbose               bool
	recompilationCallback func(*Compilation)
}

// NewBundle returns an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{prefix: pipeline.DefaultPrefix}
}

// WatchFiles tells the bundle to watch any template files added to it and to
// recompile as they change. It should be called once, before adding any
// files.
func (b *Bundle) WatchFiles(watch bool) *Bundle {
	if watch && b.err == nil && b.watcher == nil {
		b.watcher, b.err = fsnotify.NewWatcher()
	}
	return b
}

// AddTemplateDir adds all *.flavour.json files found within the given
// directory (including sub-directories) to the bundle.
func (b *Bundle) AddTemplateDir(root string) *Bundle {
	var err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, TemplateExt) {
			return nil
		}
		b.AddTemplateFile(path)
		return nil
	})
	if err != nil {
		b.err = err
	}
	return b
}

// AddTemplateFile adds the given template file to this bundle. If
// WatchFiles is on, it will be subsequently watched for updates.
func (b *Bundle) AddTemplateFile(filename string) *Bundle {
	content, err := os.ReadFile(filename)
	if err != nil {
		b.err = err
	}
	if b.err == nil && b.watcher != nil {
		b.err = b.watcher.Add(filename)
	}
	b.files = append(b.files, templateFile{filename, content, true})
	return b
}

// AddTemplateString adds the given parsed template file to the bundle. The
// name is only used for error messages.
func (b *Bundle) AddTemplateString(filename, content string) *Bundle {
	b.files = append(b.files, templateFile{filename, []byte(content), false})
	return b
}

// SetMessages sets the translator applied to the text of every template.
func (b *Bundle) SetMessages(t emitting.Translator) *Bundle {
	b.messages = t
	return b
}

// AddMessagesDir translates text using the PO file for locale found in dir.
func (b *Bundle) AddMessagesDir(dir, locale string) *Bundle {
	catalog, err := msgs.Dir(dir, locale)
	switch {
	case err != nil:
		b.err = err
	case catalog == nil:
		b.err = fmt.Errorf("no translations for locale %s in %s", locale, dir)
	default:
		b.messages = catalog
	}
	return b
}

// SetExprEmitter replaces the emitter of function bindings.
func (b *Bundle) SetExprEmitter(e emitting.ExprEmitter) *Bundle {
	b.exprs = e
	return b
}

// SetClassPrefix sets the prefix of generated class names. The classes of
// template t are named <prefix><t>$<n>.
func (b *Bundle) SetClassPrefix(prefix string) *Bundle {
	b.prefix = prefix
	return b
}

// SetWorkers bounds the number of templates compiled at once. Zero means one
// per CPU.
func (b *Bundle) SetWorkers(n int) *Bundle {
	b.workers = n
	return b
}

// Verbose makes Compile log the outer variables read by every class.
func (b *Bundle) Verbose(v bool) *Bundle {
	b.verbose = v
	return b
}

// SetRecompilationCallback assigns the bundle a function to call after
// recompilation. This is called before updating the in-use compilation.
func (b *Bundle) SetRecompilationCallback(c func(*Compilation)) *Bundle {
	b.recompilationCallback = c
	return b
}

// Compile parses all of the template files in this bundle and emits the
// classes of every template. Templates are compiled concurrently, each with
// its own class namespace, so the result does not depend on scheduling.
func (b *Bundle) Compile() (*Compilation, error) {
	if b.err != nil {
		return nil, b.err
	}

	var registry = template.Registry{}
	for _, f := range b.files {
		var tree, err = ast.ParseFile(f.name, f.content)
		if err != nil {
			return nil, err
		}
		if err = registry.Add(tree); err != nil {
			return nil, err
		}
	}

	var comp = &Compilation{
		Registry: &registry,
		Results:  make([]*emitting.Result, len(registry.Templates)),
		classes:  make([][]*model.ClassHolder, len(registry.Templates)),
	}
	var workers = b.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, t := range registry.Templates {
		i, t := i, t
		g.Go(func() error {
			var col = pipeline.NewCollector(b.prefix + t.Node.Name + "$")
			res, err := emitting.Compile(t.Node, emitting.Options{
				Agent:    col,
				Exprs:    b.exprs,
				Messages: b.messages,
				File:     t.File,
			})
			if err != nil {
				return err
			}
			comp.Results[i] = res
			comp.classes[i] = col.Classes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if b.verbose {
		for _, res := range comp.Results {
			Logger.Printf("%s: %d classes, root %s", res.Template, len(res.Classes), res.Class)
			for _, cls := range res.Classes {
				if captures := res.Captures[cls]; len(captures) > 0 {
					Logger.Printf("  %s reads %s", cls, strings.Join(captures, ", "))
				}
			}
		}
	}

	if b.watcher != nil {
		go b.recompiler(comp)
	}
	return comp, nil
}

// Close stops watching files.
func (b *Bundle) Close() error {
	if b.watcher == nil {
		return nil
	}
	return b.watcher.Close()
}

func (b *Bundle) recompiler(comp *Compilation) {
	for {
		select {
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			// If it's a rename, then fsnotify has removed the watch.
			// Add it back, after a delay.
			if ev.Op&(fsnotify.Rename|fsnotify.Remove) != 0 {
				time.Sleep(10 * time.Millisecond)
				if err := b.watcher.Add(ev.Name); err != nil {
					Logger.Println(err)
				}
			}

			// Recompile all the templates.
			var bundle = NewBundle().
				SetMessages(b.messages).
				SetExprEmitter(b.exprs).
				SetClassPrefix(b.prefix).
				SetWorkers(b.workers).
				Verbose(b.verbose)
			for _, f := range b.files {
				if f.onDisk {
					bundle.AddTemplateFile(f.name)
				} else {
					bundle.AddTemplateString(f.name, string(f.content))
				}
			}
			var update, err = bundle.Compile()
			if err != nil {
				Logger.Println(err)
				continue
			}

			if b.recompilationCallback != nil {
				b.recompilationCallback(update)
			}

			// update the existing compilation.
			// (this is not goroutine-safe, but that seems ok for a development aid,
			// as long as it works in practice)
			*comp = *update
			Logger.Printf("update successful (%v)", ev)

		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			Logger.Println(err)
		}
	}
}

// Compilation is the output of a Bundle: the templates and the classes
// emitted for them.
type Compilation struct {
	Registry *template.Registry
	Results  []*emitting.Result // one per template, in registry order

	classes [][]*model.ClassHolder
}

// Result returns the compile result of the named template, or nil.
func (c *Compilation) Result(name string) *emitting.Result {
	for _, res := range c.Results {
		if res.Template == name {
			return res
		}
	}
	return nil
}

// Classes returns every emitted class: template by template in registry
// order, and in submission order within a template.
func (c *Compilation) Classes() []*model.ClassHolder {
	var all []*model.ClassHolder
	for _, classes := range c.classes {
		all = append(all, classes...)
	}
	return all
}

// TemplateClasses returns the classes emitted for the named template.
func (c *Compilation) TemplateClasses(name string) []*model.ClassHolder {
	for i, res := range c.Results {
		if res.Template == name {
			return c.classes[i]
		}
	}
	return nil
}

// WriteClasses streams every class to w in the host pipeline's format.
func (c *Compilation) WriteClasses(w io.Writer) error {
	return pipeline.WriteClasses(w, c.Classes())
}

// WriteJS renders every class as JavaScript.
func (c *Compilation) WriteJS(w io.Writer) error {
	return jsgen.Write(w, c.Classes(), jsgen.Options{})
}

// Listing returns the disassembly of every class.
func (c *Compilation) Listing() string {
	return model.Listing(c.Classes()...)
}
