// Package main provides an inspection tool for a prompt directory.
//
// Usage:
//
//	go run ./cmd/inspect list [-base-path DIR]
//	go run ./cmd/inspect hash-password < password.txt
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/promptbox/promptbox/internal/auth"
	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/domain"
	"github.com/promptbox/promptbox/internal/media/images"
	"github.com/promptbox/promptbox/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "list":
		list(os.Args[2:])
	case "hash-password":
		hashPassword(os.Stdin)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: inspect list [config flags] | inspect hash-password < password")
	os.Exit(2)
}

func list(args []string) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	imgs, err := images.NewStorage(cfg.Storage.UploadsPath)
	if err != nil {
		log.Fatalf("Failed to open upload directory: %v", err)
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.New(cfg.Storage.PromptsPath, imgs, nil, quiet)
	if err != nil {
		log.Fatalf("Failed to open prompt directory: %v", err)
	}

	prompts, err := st.List(context.Background())
	if err != nil {
		log.Fatalf("Failed to list prompts: %v", err)
	}

	fmt.Println("=== Prompt Inspection ===")
	fmt.Printf("Directory: %s\n\n", st.Dir())

	withImage := 0
	danglingImages := 0
	for _, p := range prompts {
		fmt.Printf("%s\n", p.Filename)
		fmt.Printf("  Title:    %s\n", p.Title)
		fmt.Printf("  Modified: %s\n", p.ModifiedAt.Format("2006-01-02 15:04:05"))
		if len(p.Tags) > 0 {
			fmt.Printf("  Tags:     %s\n", strings.Join(p.Tags, ", "))
		}
		if p.HasImage() {
			withImage++
			status := "ok"
			if !imgs.Exists(p.Image) {
				danglingImages++
				status = "missing"
			}
			fmt.Printf("  Image:    %s (%s)\n", p.Image, status)
		}
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Prompts:         %d\n", len(prompts))
	fmt.Printf("Tags:            %d\n", len(domain.CollectTags(prompts)))
	fmt.Printf("With image:      %d\n", withImage)
	fmt.Printf("Missing images:  %d\n", danglingImages)
}

func hashPassword(r io.Reader) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		log.Fatal("Password is empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Suitable as APP_PASSWORD.
	fmt.Println(hash)
}
