package mods

import (
	"os"
	"path/filepath"

	"enki/common"

	"github.com/pelletier/go-toml"
)

// tomlManifestFile represents the project manifest as it is encoded in TOML
type tomlManifestFile struct {
	Project *tomlProject `toml:"project"`
}

// tomlProject represents an enki project as it is encoded in TOML
type tomlProject struct {
	Name       string   `toml:"name"`
	OutputDir  string   `toml:"output-dir,omitempty"`
	LogLevel   string   `toml:"log-level,omitempty"`
	ImportDirs []string `toml:"import-dirs,omitempty"`
}

// Manifest holds the driver defaults read from enki.toml.  The manifest
// never changes language semantics.
type Manifest struct {
	Name       string
	OutputDir  string
	LogLevel   string
	ImportDirs []string
}

// defaultManifest is used when no enki.toml is present
func defaultManifest() *Manifest {
	return &Manifest{OutputDir: "./" + common.BuildDirName}
}

// LoadManifest looks for enki.toml next to the compiled file (then in the
// working directory) and decodes it.  An absent manifest is not an error:
// all defaults apply.
func LoadManifest(inputPath string) (*Manifest, error) {
	candidates := []string{
		filepath.Join(filepath.Dir(inputPath), common.ManifestFileName),
		common.ManifestFileName,
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}

		var mf tomlManifestFile
		if err := toml.Unmarshal(data, &mf); err != nil {
			return nil, err
		}

		manifest := defaultManifest()
		if mf.Project != nil {
			manifest.Name = mf.Project.Name
			if mf.Project.OutputDir != "" {
				manifest.OutputDir = mf.Project.OutputDir
			}
			manifest.LogLevel = mf.Project.LogLevel

			// import dirs are relative to the manifest's own directory
			for _, dir := range mf.Project.ImportDirs {
				if !filepath.IsAbs(dir) {
					dir = filepath.Join(filepath.Dir(candidate), dir)
				}
				manifest.ImportDirs = append(manifest.ImportDirs, dir)
			}
		}

		return manifest, nil
	}

	return defaultManifest(), nil
}
