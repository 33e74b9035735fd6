package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"greenregu-be/pkg/chunking"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

func main() {
	maxSize := flag.Int("max-chunk-size", chunking.DefaultConfig().MaxChunkSize, "re-split sections longer than this")
	preview := flag.Int("preview", 120, "characters of each chunk to print, 0 for all")
	verbose := flag.Bool("v", false, "log pipeline stages")
	flag.Parse()

	if flag.NArg() != 1 {
		color.Red("usage: trace_chunking [flags] <file.pdf>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		color.Red("Failed to read %s: %v", path, err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, _ = zap.NewDevelopment()
	}

	cfg := chunking.DefaultConfig()
	cfg.MaxChunkSize = *maxSize

	doc, err := chunking.NewPDFExtractor().Extract(filepath.Base(path), data)
	if err != nil {
		color.Red("Extraction failed: %v", err)
		os.Exit(1)
	}
	color.Cyan("%s: %d pages", filepath.Base(path), len(doc.Pages))

	chunks, err := chunking.NewProcessor(cfg, logger).Process(context.Background(), doc)
	if err != nil {
		color.Red("Chunking failed: %v", err)
		os.Exit(1)
	}
	color.Green("%d chunks\n", len(chunks))

	located := 0
	for _, c := range chunks {
		header := color.New(color.FgYellow, color.Bold)
		header.Printf("[%d] page %d  %s  (%s)", c.ChunkIndex, c.PageNumber, c.Category, c.ElementType)
		if c.SectionTitle != "" {
			header.Printf("  %q", c.SectionTitle)
		}
		header.Println()

		if c.LocationData != nil {
			located++
			b := c.LocationData.BBox
			color.Blue("    bbox x0=%.1f y0=%.1f x1=%.1f y1=%.1f", b.X0, b.Y0, b.X1, b.Y1)
		} else {
			color.Magenta("    no location")
		}

		content := strings.ReplaceAll(c.Content, "\n", " ")
		if *preview > 0 && len([]rune(content)) > *preview {
			content = string([]rune(content)[:*preview]) + "..."
		}
		color.White("    %s", content)
	}

	color.Cyan("\nlocated %d/%d chunks", located, len(chunks))
}
