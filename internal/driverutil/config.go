// Package driverutil holds the thin configuration seam between the
// command-line driver (out of scope for this module) and the codegen
// orchestrator it configures.
package driverutil

import "github.com/dal-lang/dalc/internal/codegen"

// Config mirrors the build command's flag surface.
type Config struct {
	Input   string
	Type    string
	Output  string
	Verbose bool
	Static  bool
	Strip   bool
	Release bool
}

// BuildType maps the --release flag to an orchestrator BuildType.
func (c Config) BuildType() codegen.BuildType {
	if c.Release {
		return codegen.BuildRelease
	}
	return codegen.BuildDebug
}

// OutType maps the --type flag to an orchestrator OutType, defaulting to
// executable for any unrecognized value.
func (c Config) OutType() codegen.OutType {
	switch c.Type {
	case "lib":
		return codegen.OutLibrary
	case "obj":
		return codegen.OutObject
	default:
		return codegen.OutExecutable
	}
}

// Apply configures an orchestrator from c, returning it for chaining.
func (c Config) Apply(o *codegen.Orchestrator, rootDir string) *codegen.Orchestrator {
	return o.
		SetRootDir(rootDir).
		SetBuildType(c.BuildType()).
		SetOutType(c.OutType()).
		SetOutPath(c.Output).
		SetIsStaticallyLinked(c.Static).
		SetIsVerbose(c.Verbose).
		SetIsStripSymbols(c.Strip)
}
