package mods

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	"enki/common"
	"enki/logging"
	"enki/syntax"
)

// ModuleContext is the shared cache of parsed programs keyed by import name.
// It is handed to the parser, which calls Load synchronously whenever it
// encounters an import statement; an imported module's parse fully completes
// (including its own imports) before the importer's parse resumes.
type ModuleContext struct {
	modules map[string]*syntax.Program

	// ImportDirs are extra roots searched after importer-relative
	// resolution; they come from the project manifest
	ImportDirs []string
}

// NewModuleContext creates an empty module cache
func NewModuleContext() *ModuleContext {
	return &ModuleContext{modules: make(map[string]*syntax.Program)}
}

// Get returns a previously loaded module, or nil
func (mc *ModuleContext) Get(name string) *syntax.Program {
	return mc.modules[name]
}

// Load resolves, reads, lexes, and parses the named module, caching the
// result under the user-supplied name.  A failure to open the file is the
// compiler's one soft error: it is logged and nil is returned so the
// importer's parse can continue.
func (mc *ModuleContext) Load(name, importerPath string) *syntax.Program {
	if program, ok := mc.modules[name]; ok {
		return program
	}

	// only append the source suffix if it is not already present
	importee := name
	if !strings.HasSuffix(importee, common.SrcFileExtension) {
		importee += common.SrcFileExtension
	}

	resolved, data, err := mc.resolve(importee, importerPath)
	if err != nil {
		logging.LogModuleError(resolved, name, importerPath)
		return nil
	}

	logging.Debugf("[mods] loading module '%s' from %s", name, resolved)

	sb := syntax.NewSourceBuffer(resolved, string(data))
	program := syntax.Parse(syntax.Lex(sb), sb, mc)
	program.ID = common.GenerateIDFromPath(resolved)

	mc.modules[name] = program
	return program
}

// resolve locates a module file: relative to the importer's directory when
// an importer is known, then under each manifest import dir.  Only when no
// importer is known is the working directory tried, after the import dirs.
// The first candidate that opens wins; the
// returned path on failure is the primary candidate, for the error message.
func (mc *ModuleContext) resolve(importee, importerPath string) (string, []byte, error) {
	var candidates []string
	if importerPath != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(importerPath), importee))
	}
	for _, dir := range mc.ImportDirs {
		candidates = append(candidates, filepath.Join(dir, importee))
	}
	if importerPath == "" {
		candidates = append(candidates, importee)
	}

	var firstErr error
	for _, candidate := range candidates {
		data, err := ioutil.ReadFile(candidate)
		if err == nil {
			return candidate, data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return candidates[0], nil, firstErr
}
