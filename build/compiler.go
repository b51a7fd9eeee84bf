package build

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"enki/logging"
	"enki/mods"
	"enki/syntax"
	"enki/walk"
)

// Compiler coordinates the front-end pipeline for one root source file:
// lexing, parsing (with recursive module loading), the injection pass, and
// type checking.  Everything downstream consumes the typed AST it produces.
type Compiler struct {
	inputPath string
	manifest  *mods.Manifest
	modules   *mods.ModuleContext
}

// NewCompiler creates a compiler for the given root file, wiring the
// manifest's import dirs into the module loader
func NewCompiler(inputPath string, manifest *mods.Manifest) *Compiler {
	mc := mods.NewModuleContext()
	mc.ImportDirs = manifest.ImportDirs

	return &Compiler{
		inputPath: inputPath,
		manifest:  manifest,
		modules:   mc,
	}
}

// Compile runs the front-end and returns the fully typed program.  Compile
// errors inside the pipeline are fatal and reported at their point of
// detection; the returned error covers host-level failures only.
func (c *Compiler) Compile() (*syntax.Program, error) {
	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %s", err.Error())
	}

	logging.Infof("compiling %s", c.inputPath)

	sb := syntax.NewSourceBuffer(c.inputPath, string(data))
	program := syntax.Parse(syntax.Lex(sb), sb, c.modules)

	walk.InjectBuiltins(program)
	walk.WalkProgram(program)

	return program, nil
}

// ParseOnly runs just the lexer and parser, for tooling that works on the
// untyped AST (the serde command)
func (c *Compiler) ParseOnly() (*syntax.Program, error) {
	data, err := os.ReadFile(c.inputPath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %s", err.Error())
	}

	sb := syntax.NewSourceBuffer(c.inputPath, string(data))
	return syntax.Parse(syntax.Lex(sb), sb, c.modules), nil
}

// DefaultOutputPath derives the artifact path for the compiled file: the
// input's stem with the given extension, under the manifest's output
// directory
func (c *Compiler) DefaultOutputPath(extension string) string {
	base := filepath.Base(c.inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.manifest.OutputDir, stem+extension)
}
