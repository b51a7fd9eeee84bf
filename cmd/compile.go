package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"enki/build"
	"enki/generate"
	"enki/logging"
	"enki/mods"
	"enki/syntax"

	"github.com/ComedicChimera/olive"
)

// execCompileCommand executes the compile subcommand and handles all errors
func execCompileCommand(result *olive.ArgParseResult) {
	inputPath, _ := result.PrimaryArg()

	manifest, err := mods.LoadManifest(inputPath)
	if err != nil {
		logging.PrintErrorMessage("Manifest Error", err)
		os.Exit(1)
	}

	initLogging(manifest)

	compiler := build.NewCompiler(inputPath, manifest)
	program, err := compiler.Compile()
	if err != nil {
		logging.PrintErrorMessage("Compile Error", err)
		os.Exit(1)
	}

	emitAST := result.HasFlag("ast")
	visMode := result.HasFlag("vis")

	var output []byte
	var outputPath string

	if emitAST {
		output, err = syntax.MarshalProgram(program, visMode)
		if err != nil {
			logging.PrintErrorMessage("Serialization Error", err)
			os.Exit(1)
		}
		outputPath = compiler.DefaultOutputPath(".json")
	} else {
		output = []byte(generate.Generate(program))
		outputPath = compiler.DefaultOutputPath(".cpp")
	}

	if outArgVal, ok := result.Arguments["output"]; ok {
		outputPath = outArgVal.(string)
	}

	if err := writeArtifact(outputPath, output); err != nil {
		logging.PrintErrorMessage("Output Error", err)
		os.Exit(1)
	}

	logging.Infof("wrote %s", outputPath)
}

// execSerdeCommand round-trips the parsed AST through JSON and verifies the
// two encodings are byte-equal
func execSerdeCommand(result *olive.ArgParseResult) {
	inputPath, _ := result.PrimaryArg()

	manifest, err := mods.LoadManifest(inputPath)
	if err != nil {
		logging.PrintErrorMessage("Manifest Error", err)
		os.Exit(1)
	}

	initLogging(manifest)

	compiler := build.NewCompiler(inputPath, manifest)
	program, err := compiler.ParseOnly()
	if err != nil {
		logging.PrintErrorMessage("Compile Error", err)
		os.Exit(1)
	}

	first, err := syntax.MarshalProgram(program, false)
	if err != nil {
		logging.PrintErrorMessage("Serialization Error", err)
		os.Exit(1)
	}

	decoded, err := syntax.UnmarshalProgram(first, program.Source)
	if err != nil {
		logging.PrintErrorMessage("Deserialization Error", err)
		os.Exit(1)
	}

	second, err := syntax.MarshalProgram(decoded, false)
	if err != nil {
		logging.PrintErrorMessage("Serialization Error", err)
		os.Exit(1)
	}

	if !bytes.Equal(first, second) {
		logging.PrintErrorMessage("Serde Error", errors.New("round-tripped AST encodings differ"))
		os.Exit(1)
	}

	logging.PrintInfoMessage("Serde", fmt.Sprintf("round-trip OK (%d bytes)", len(first)))
}

// writeArtifact creates the output directory as needed and writes the file
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return os.WriteFile(path, data, 0644)
}
