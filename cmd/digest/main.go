package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"codedigest/internal/config"
	"codedigest/internal/filemap"
	"codedigest/internal/pipeline"
	"codedigest/internal/safeio"
)

func main() {
	archive := flag.String("archive", "", "path to a repository archive (.zip or .tar.gz)")
	cfgPath := flag.String("config", "", "optional YAML config file")
	outDir := flag.String("out", "", "write graph.json and surface.json to this directory")
	showTree := flag.Bool("tree", false, "print the file tree")
	flag.Parse()
	if *archive == "" {
		log.Fatal("--archive is required")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	fm, err := loadArchive(*archive, cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("loaded %d files from %s", fm.Len(), *archive)

	res, err := pipeline.Run(context.Background(), fm, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if *showTree {
		fmt.Println(res.Tree)
		fmt.Println()
	}
	fmt.Println(res.Digest.Render())

	if *outDir != "" {
		dir, err := safeio.NewDir(*outDir)
		if err != nil {
			log.Fatal(err)
		}
		writeJSON(dir, "graph.json", res.Graph)
		writeJSON(dir, "surface.json", res.Surface)
		writeJSON(dir, "digest.json", res.Digest)
	}
}

func loadArchive(path string, cfg config.Config) (*filemap.FileMap, error) {
	opts := filemap.LoadOptions{MaxFileSize: cfg.MaxFileSize}
	switch {
	case strings.HasSuffix(path, ".zip"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fi, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return filemap.FromZip(f, fi.Size(), opts)
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return filemap.FromTarGz(f, opts)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", path)
	}
}

func writeJSON(dir *safeio.Dir, name string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := dir.WriteFileAtomic(name, b, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", name)
}
