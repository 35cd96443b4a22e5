// Package codegen owns the compilation pipeline end to end: LLVM
// initialization, built-in type seeding, import resolution, and running
// the analyzer, surfacing every diagnostic collected along the way.
package codegen

import (
	"fmt"
	"os"

	"github.com/llir/llvm/ir"

	"github.com/dal-lang/dalc/internal/diag"
	"github.com/dal-lang/dalc/internal/sema"
)

// OutType is the orchestrator's output-kind configuration.
type OutType string

const (
	OutExecutable OutType = "exe"
	OutLibrary    OutType = "lib"
	OutObject     OutType = "obj"
)

// BuildType selects optimization/debug posture.
type BuildType string

const (
	BuildDebug   BuildType = "debug"
	BuildRelease BuildType = "release"
)

// Orchestrator is the one-shot, configure-then-generate pipeline driver.
// Its configuration API mirrors the original codegen class: every
// Set* call mutates a private field, and Generate runs the whole
// pipeline once.
type Orchestrator struct {
	rootDir            string
	buildType          BuildType
	outType            OutType
	outPath            string
	isStaticallyLinked bool
	isVerbose          bool
	isStripSymbols     bool

	stdlibDir   string
	searchPaths []string

	module  *ir.Module
	types   sema.TypeMap
	ptrSize int

	imports     map[string]*sema.ImportTable
	diagnostics []diag.Diagnostic
	builtins    BuiltinTypes
}

// New constructs an orchestrator with the given compiled-in standard
// library search directory.
func New(stdlibDir string) *Orchestrator {
	return &Orchestrator{
		stdlibDir: stdlibDir,
		types:     make(sema.TypeMap),
		imports:   make(map[string]*sema.ImportTable),
	}
}

func (o *Orchestrator) SetRootDir(dir string) *Orchestrator { o.rootDir = dir; return o }
func (o *Orchestrator) SetBuildType(bt BuildType) *Orchestrator { o.buildType = bt; return o }
func (o *Orchestrator) SetOutType(ot OutType) *Orchestrator { o.outType = ot; return o }
func (o *Orchestrator) SetOutPath(path string) *Orchestrator { o.outPath = path; return o }
func (o *Orchestrator) SetIsStaticallyLinked(v bool) *Orchestrator { o.isStaticallyLinked = v; return o }
func (o *Orchestrator) SetIsVerbose(v bool) *Orchestrator { o.isVerbose = v; return o }
func (o *Orchestrator) SetIsStripSymbols(v bool) *Orchestrator { o.isStripSymbols = v; return o }

func (o *Orchestrator) verbosef(format string, args ...interface{}) {
	if o.isVerbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// Generate runs the full pipeline for entryFile and returns a process exit
// code: 0 on success, 1 if any diagnostic was raised.
func (o *Orchestrator) Generate(entryFile string) int {
	o.searchPaths = []string{o.rootDir}
	if o.stdlibDir != "" {
		o.searchPaths = append(o.searchPaths, o.stdlibDir)
	}
	o.verbosef("search paths: %v", o.searchPaths)

	o.module = ir.NewModule()
	o.ptrSize = 8
	o.builtins = o.seedBuiltinTypes()
	o.verbosef("seeded %d built-in types", len(o.types))

	if _, err := o.addCode(entryFile); err != nil {
		return o.renderAndExit()
	}

	llvmFactory := sema.LLVMFactory{
		PointerSize: o.ptrSize,
		NewPointer:  o.newLLVMPointer,
		NewArray:    o.newLLVMArray,
	}
	analyzer := sema.NewAnalyzer(o.imports, o.types, llvmFactory)
	analyzer.Run()
	o.diagnostics = append(o.diagnostics, analyzer.Diagnostics...)

	if len(o.diagnostics) > 0 {
		return o.renderAndExit()
	}

	o.verbosef("all good (emission is not implemented)")
	return 0
}

func (o *Orchestrator) renderAndExit() int {
	f := diag.NewFormatter(os.Stderr)
	f.FormatAll(o.diagnostics)
	if len(o.diagnostics) > 0 {
		return 1
	}
	return 0
}
