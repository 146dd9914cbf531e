// Command acsobjdump is an objdump-style disassembler for ACS
// bytecode object files.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/positively-charged/acsobjdump/acs"
	"github.com/spf13/cobra"
)

var (
	chunkName string
	listOnly  bool
)

var rootCmd = &cobra.Command{
	Use:   "acsobjdump [flags] <object-file>",
	Short: "Inspect and disassemble ACS bytecode object files",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVarP(&chunkName, "chunk", "c", "", "view selected chunk (ACSE/ACSe only); 4-char name, case-insensitive")
	rootCmd.Flags().BoolVarP(&listOnly, "list", "l", false, "list chunks (ACSE/ACSe only)")
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return &acs.IOFailureError{Err: err}
	}

	dumper, err := acs.NewDumper(data)
	if err != nil {
		return err
	}

	switch {
	case chunkName != "":
		err = dumper.ViewChunk(os.Stdout, chunkName)
	case listOnly:
		err = dumper.ListChunks(os.Stdout)
	default:
		err = dumper.ShowObject(os.Stdout)
	}
	if err != nil {
		return err
	}

	for _, n := range dumper.Notes {
		log.Printf("%s: %s", n.Kind, n.Message)
	}
	return nil
}

func main() {
	// Usage prints on argument errors (e.g. no object file given);
	// our own error reporting below covers everything past parsing,
	// so cobra's duplicate error line is suppressed.
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
