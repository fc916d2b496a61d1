package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gruppe-adler/demgen/internal/generate"
	"github.com/gruppe-adler/demgen/internal/inspect"
)

type command struct {
	name        string
	description string
	run         func(*flag.FlagSet)
}

var subCommands []command

func init() {
	subCommands = []command{
		{"generate", "Synthesize a terrain and write it as a georeferenced raster.", generate.Run},
		{"inspect", "Describe a raster written by generate.", inspect.Run},
		{"help", "Print this message.", func(s *flag.FlagSet) { printUsage() }},
	}
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s [SUBCOMMAND] [SUBCOMMAND FLAGS]\n\n", os.Args[0])
	fmt.Print("SUBCOMMANDS: \n")

	for _, c := range subCommands {
		fmt.Printf("%12s    %s\n", c.name, c.description)
	}

	fmt.Printf("\nUse -h as SUBCOMMAND FLAG to print help for each subcommand.\n")
	fmt.Printf("Settings of generate can also be given as DEMGEN_* environment variables.\n\n")
}

func main() {
	// no subcommand runs generate with defaults
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "generate")
	}

	cmd := os.Args[1]

	for _, c := range subCommands {
		if c.name == cmd {
			set := flag.NewFlagSet(cmd, flag.ExitOnError)
			c.run(set)
			return
		}
	}

	fmt.Printf("\nERROR: Subcommand '%s' was not found.\n\n", cmd)
	printUsage()
	os.Exit(1)
}
