// Command piecetreedump is a small demonstration CLI: it loads a file into
// a PieceTree as a run of Added-buffer pieces, then either prints the tree's
// shape or reconstructs the document line by line to an output file.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/renameio/v2"

	"github.com/textbuf/piecetree"
	"github.com/textbuf/piecetree/config"
)

var (
	logpath    = flag.String("log", "", "log rotation diagnostics to file")
	configpath = flag.String("config", "", "path to config.yaml (default: XDG config dir)")
	outpath    = flag.String("out", "", "reconstruct the document to this file instead of printing the tree")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitWithError(err)
	}

	path := flag.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(err)
	}

	tree := piecetree.New()
	if cfg.LogRotations {
		tree.SetLogger(log.Default())
	}

	if err := buildTree(tree, data, cfg.ChunkSize); err != nil {
		exitWithError(err)
	}

	if *outpath == "" {
		fmt.Print(tree.DebugTree())
		return
	}

	if err := dumpToFile(tree, data, *outpath); err != nil {
		exitWithError(err)
	}
}

func loadConfig() (config.Config, error) {
	path := *configpath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	return config.LoadOrDefault(path)
}

// buildTree splits data into chunkSize-sized Added-buffer pieces and
// inserts each one at the current end of the document.
func buildTree(tree *piecetree.Tree, data []byte, chunkSize int) error {
	line, col := 0, 0
	for offset := 0; offset < len(data); {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := data[offset:end]
		breaks := breakOffsets(chunk)

		piece := piecetree.Piece{
			Buffer:     piecetree.Added,
			Offset:     offset,
			Length:     len(chunk),
			LineBreaks: breaks,
		}
		if err := tree.Insert(piece, line, col); err != nil {
			return err
		}

		if n := len(breaks); n > 0 {
			line += n
			col = len(chunk) - (breaks[n-1] + 1)
		} else {
			col += len(chunk)
		}
		offset = end
	}
	return nil
}

func breakOffsets(chunk []byte) []int {
	var out []int
	for i, b := range chunk {
		if b == '\n' {
			out = append(out, i)
		}
	}
	return out
}

// dumpToFile reconstructs the document line by line via GetLinePieces and
// writes it atomically to path.
func dumpToFile(tree *piecetree.Tree, data []byte, path string) error {
	pf, err := renameio.NewPendingFile(path)
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	w := bufio.NewWriter(pf)
	for line := 0; ; line++ {
		pieces, err := tree.GetLinePieces(line)
		if err != nil {
			if errors.Is(err, piecetree.ErrInvalidPosition) {
				break
			}
			return err
		}
		for _, p := range pieces {
			if _, err := w.Write(data[p.Offset : p.Offset+p.Length]); err != nil {
				return err
			}
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [OPTIONS] path\n", os.Args[0])
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
