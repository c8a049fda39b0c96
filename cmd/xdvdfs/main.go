// Command xdvdfs is a small usage demonstration over the library, not a
// reimplementation of the reference embedding's full CLI surface (§6):
// only build (wraps writer.CreateImage) and ls (wraps WalkPath and
// WalkDirentTree) are provided.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/charlesthegreat77/goxdvdfs/blockdev"
	"github.com/charlesthegreat77/goxdvdfs/fsbackend"
	"github.com/charlesthegreat77/goxdvdfs/read"
	"github.com/charlesthegreat77/goxdvdfs/writer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xdvdfs",
		Short: "Build and inspect XDVDFS (Xbox XISO) disc images",
	}
	root.AddCommand(newBuildCmd(), newLsCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "build <source-dir> <output.iso>",
		Short: "Pack a host directory into an XDVDFS image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, outPath := args[0], args[1]

			backend := fsbackend.NewOSHost(src)

			out, err := blockdev.CreateHostFile(outPath)
			if err != nil {
				return fmt.Errorf("xdvdfs build: creating %q: %w", outPath, err)
			}
			defer out.File().Close()

			logger := zerolog.Nop()
			if verbose {
				logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			}

			opts := writer.WriteOptions{
				Logger: logger,
				OnEvent: func(ev writer.Event) {
					if ev.Kind == writer.FileAdded || ev.Kind == writer.DirAdded {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ev.Kind, ev.Path)
					}
				},
			}
			if err := writer.CreateImage(backend, out, opts); err != nil {
				return fmt.Errorf("xdvdfs build: %w", err)
			}
			if err := out.Flush(); err != nil {
				return fmt.Errorf("xdvdfs build: flushing %q: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every event to stderr")
	return cmd
}

func newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls <image.iso> [path]",
		Short: "List a directory (default: root) inside an XDVDFS image",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath := args[0]
			innerPath := "/"
			if len(args) == 2 {
				innerPath = args[1]
			}

			f, err := os.Open(imagePath)
			if err != nil {
				return fmt.Errorf("xdvdfs ls: %w", err)
			}
			defer f.Close()
			dev := blockdev.NewHostFile(f)

			wrapped, err := blockdev.NewOffsetWrapper(dev, func(r blockdev.Reader) error {
				_, err := read.ReadVolume(r)
				return err
			})
			if err != nil {
				return fmt.Errorf("xdvdfs ls: %w", err)
			}

			volume, err := read.ReadVolume(wrapped)
			if err != nil {
				return fmt.Errorf("xdvdfs ls: %w", err)
			}

			table := volume.RootTable
			if innerPath != "/" && innerPath != "" {
				dirent, err := read.WalkPath(wrapped, table, innerPath)
				if err != nil {
					return fmt.Errorf("xdvdfs ls: %q: %w", innerPath, err)
				}
				childTable, ok := dirent.Node.Dirent.DirentTable()
				if !ok {
					return fmt.Errorf("xdvdfs ls: %q is not a directory", innerPath)
				}
				table = childTable
			}

			entries, err := read.WalkDirentTree(wrapped, table)
			if err != nil {
				return fmt.Errorf("xdvdfs ls: %w", err)
			}
			for _, e := range entries {
				name, err := e.NameString()
				if err != nil {
					return fmt.Errorf("xdvdfs ls: %w", err)
				}
				kind := "file"
				if e.Node.Dirent.IsDirectory() {
					kind = "dir"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %10d  %s\n", kind, e.Node.Dirent.Data.Size, name)
			}
			return nil
		},
	}
	return cmd
}
