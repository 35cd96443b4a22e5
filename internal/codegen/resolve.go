package codegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/diag"
	"github.com/dal-lang/dalc/internal/lexer"
	"github.com/dal-lang/dalc/internal/parser"
	"github.com/dal-lang/dalc/internal/sema"
)

const sourceExtension = "dal"

// addCode implements the import resolver: read, tokenize, parse, register,
// and recurse into every Import child, searching o.searchPaths for
// `<import-path>.dal`. It returns the new ImportTable, or a fatal
// diagnostic-carrying error on any failure.
func (o *Orchestrator) addCode(path string) (*sema.ImportTable, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, o.fatal(fmt.Sprintf("cannot resolve path %q: %v", path, err), path, lexer.Span{})
	}
	if existing, ok := o.imports[abs]; ok {
		return existing, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, o.fatal(fmt.Sprintf("cannot read %q: %v", abs, err), abs, lexer.Span{})
	}
	source := string(data)

	lx := lexer.New(source, abs)
	toks := lx.Tokenize()
	if lx.HasErrors() {
		for _, d := range lx.Diagnostics() {
			o.diagnostics = append(o.diagnostics, d)
		}
		return nil, fmt.Errorf("lexical errors in %s", abs)
	}

	imp := sema.NewImportTable(source, abs)
	o.imports[abs] = imp

	ps := parser.New(toks, abs, imp)
	root, err := ps.Parse()
	if err != nil {
		if d := ps.LastDiagnostic(); d != nil {
			o.diagnostics = append(o.diagnostics, *d)
		}
		delete(o.imports, abs)
		return nil, err
	}
	if root.ModuleName == "" {
		root.ModuleName = moduleNameFromPath(abs)
	}
	imp.RootAST = root

	for _, item := range root.Items {
		if importDecl, ok := item.(*ast.Import); ok {
			if err := o.resolveImport(abs, importDecl.Path.Value); err != nil {
				return nil, err
			}
		}
	}

	return imp, nil
}

func (o *Orchestrator) resolveImport(fromPath, importPath string) error {
	for _, root := range o.searchPaths {
		candidate := filepath.Join(root, importPath+"."+sourceExtension)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			_, err := o.addCode(candidate)
			return err
		}
	}
	return o.fatal(
		fmt.Sprintf("import %q not found; searched roots: %v", importPath, o.searchPaths),
		fromPath, lexer.Span{},
	)
}

// moduleNameFromPath derives a file's module name from its base name, sans
// extension, when the source carries no explicit module clause (spec §9:
// the file-stem fallback, chosen so `pub` stays usable without one).
func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	ext := "." + sourceExtension
	if strings.HasSuffix(base, ext) {
		base = base[:len(base)-len(ext)]
	}
	return base
}

func (o *Orchestrator) fatal(msg, path string, span lexer.Span) error {
	o.diagnostics = append(o.diagnostics, diag.Diagnostic{
		Stage:    diag.StageCodegen,
		Severity: diag.SeverityError,
		Message:  msg,
		Path:     path,
		Span: diag.Span{
			StartPos: span.StartPos, EndPos: span.EndPos,
			StartLine: span.StartLine, EndLine: span.EndLine,
			StartCol: span.StartCol, EndCol: span.EndCol,
		},
	})
	return fmt.Errorf("%s", msg)
}
