package codegen

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestGenerateSucceedsOnSimpleFile(t *testing.T) {
	dir := t.TempDir()
	entry := writeTempFile(t, dir, "main.dal", `pub fn add(a: u8, b: u8) -> u8 { return a + b }`)

	orch := New(filepath.Join(dir, "stdlib"))
	orch.SetRootDir(dir)
	code := orch.Generate(entry)
	if code != 0 {
		t.Fatalf("got exit code %d, want 0; diagnostics: %+v", code, orch.diagnostics)
	}
}

func TestGenerateFailsOnMissingImport(t *testing.T) {
	dir := t.TempDir()
	entry := writeTempFile(t, dir, "main.dal", `import "nope"`)

	orch := New(filepath.Join(dir, "stdlib"))
	orch.SetRootDir(dir)
	code := orch.Generate(entry)
	if code == 0 {
		t.Fatalf("expected a nonzero exit code for an unresolvable import")
	}
	if len(orch.diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic naming the missing import")
	}
}

func TestGenerateResolvesTransitiveImport(t *testing.T) {
	dir := t.TempDir()
	writeTempFile(t, dir, "helper.dal", `pub fn helper() -> i32 { return 0 }`)
	entry := writeTempFile(t, dir, "main.dal", "import \"helper\"\n"+`fn main() { }`)

	orch := New(filepath.Join(dir, "stdlib"))
	orch.SetRootDir(dir)
	code := orch.Generate(entry)
	if code != 0 {
		t.Fatalf("got exit code %d, want 0; diagnostics: %+v", code, orch.diagnostics)
	}
	if len(orch.imports) != 2 {
		t.Fatalf("got %d imports registered, want 2", len(orch.imports))
	}
}

func TestGenerateFailsOnDuplicateFnDef(t *testing.T) {
	dir := t.TempDir()
	entry := writeTempFile(t, dir, "main.dal", `fn f() { } fn f() { }`)

	orch := New(filepath.Join(dir, "stdlib"))
	orch.SetRootDir(dir)
	code := orch.Generate(entry)
	if code == 0 {
		t.Fatalf("expected a nonzero exit code for a duplicate function definition")
	}
}
