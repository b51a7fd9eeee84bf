package common

const (
	SrcFileExtension = ".enki"
	ManifestFileName = "enki.toml"
	EnkiVersion      = "0.1.0"
	BuildDirName     = "build"
)
