package cmd

import (
	"os"

	"enki/common"
	"enki/logging"
	"enki/mods"

	"github.com/ComedicChimera/olive"
)

// Execute runs the main `enki` application
func Execute() {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("enki", "enki is a compiler for the enki language", true)

	compileCmd := cli.AddSubcommand("compile", "compile an enki source file", true)
	compileCmd.AddPrimaryArg("input-file", "the path to the source file to compile", true)
	compileCmd.AddStringArg("output", "o", "the output file path", false)
	compileCmd.AddFlag("ast", "a", "output the AST as JSON instead of C++")
	compileCmd.AddFlag("vis", "vis", "output a minimal AST for visualization (no spans)")

	serdeCmd := cli.AddSubcommand("serde", "test AST serialization/deserialization", true)
	serdeCmd.AddPrimaryArg("input-file", "the path to the source file to round-trip", true)

	cli.AddSubcommand("version", "print the enki version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.PrintErrorMessage("CLI Usage Error", err)
		os.Exit(1)
	}

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "compile":
		execCompileCommand(subResult)
	case "serde":
		execSerdeCommand(subResult)
	case "version":
		logging.PrintInfoMessage("Enki Version", common.EnkiVersion)
	}
}

// initLogging initializes the global logger; the LOG environment variable
// wins over the manifest's log-level entry
func initLogging(manifest *mods.Manifest) {
	level := os.Getenv("LOG")
	if level == "" {
		level = manifest.LogLevel
	}

	logging.Initialize(level)
}
