// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kgextract/internal/align"
	"github.com/pdiddy/kgextract/internal/frames"
)

var framesCmd = &cobra.Command{
	Use:   "frames KEY...",
	Short: "Look up synset keys in the frame table",
	Long: `Frames prints the frames each key maps to. Keys may be table keys
("00035718-r") or namespaced synset identifiers ("wn:00035718r"). Keys
missing from the table print the unknown frame. With no keys, frames
prints the table size.`,
	RunE: runFrames,
}

func runFrames(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("frames")
	if path == "" {
		path = viper.GetString("extraction.frames_path")
	}
	if path == "" {
		return fmt.Errorf("frame table not configured: pass --frames or set extraction.frames_path")
	}
	table, err := frames.Load(path)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Printf("%s: %d synset keys\n", path, table.Len())
		return nil
	}

	for _, arg := range args {
		key := arg
		if strings.Contains(arg, ":") {
			key, err = align.SynsetKey(arg)
			if err != nil {
				return err
			}
		}
		marker := ""
		if !table.Has(key) {
			marker = " (not in table)"
		}
		fmt.Printf("%s\t%s%s\n", key, strings.Join(table.Lookup(key), "\t"), marker)
	}
	return nil
}

func init() {
	framesCmd.Flags().String("frames", "", "frame table file (.yaml, .json, or .tsv)")

	rootCmd.AddCommand(framesCmd)
}
