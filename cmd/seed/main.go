// Package main provides a tool to seed the prompt directory with sample prompts.
//
// Prompts are written through the store, so file names, front matter and
// collision handling match what the web form produces. Existing prompts are
// left alone; a title that is already taken gets a numbered file name.
//
// Usage:
//
//	go run ./cmd/seed
//	go run ./cmd/seed -base-path ~/promptbox
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/promptbox/promptbox/internal/config"
	"github.com/promptbox/promptbox/internal/logger"
	"github.com/promptbox/promptbox/internal/media/images"
	"github.com/promptbox/promptbox/internal/service"
	"github.com/promptbox/promptbox/internal/store"
)

var samples = []service.PromptForm{
	{
		Title:       "Code Review",
		Description: "Ask for a focused review of a diff.",
		Tags:        "code, review",
		Body: "Review the following diff. Point out bugs first, then naming and " +
			"structure. Quote the lines you are talking about.\n\n```diff\n{{diff}}\n```\n",
	},
	{
		Title: "Commit Message",
		Tags:  "code, writing",
		Body: "Write a commit message for this change. Use an imperative subject " +
			"under 60 characters, a blank line, then a short body explaining what " +
			"changed.\n\n{{change}}\n",
	},
	{
		Title:       "Meeting Notes",
		Description: "Turn a transcript into decisions and follow-ups.",
		Tags:        "writing",
		Body: "Summarize this meeting transcript.\n\n- **Decisions** as bullets\n" +
			"- **Follow-ups** with an owner each\n\n{{transcript}}\n",
	},
	{
		Title: "Explain Like I'm New",
		Tags:  "learning",
		Body: "Explain {{topic}} to someone who knows programming but has never " +
			"worked in this area. Start with one paragraph, then a small example.\n",
	},
}

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lg := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	imgs, err := images.NewStorage(cfg.Storage.UploadsPath)
	if err != nil {
		log.Fatalf("Failed to open upload directory: %v", err)
	}

	st, err := store.New(cfg.Storage.PromptsPath, imgs, nil, lg.Component("store"))
	if err != nil {
		log.Fatalf("Failed to open prompt directory: %v", err)
	}

	prompts := service.NewPromptService(st, nil, lg.Component("seed"))

	fmt.Printf("Seeding %d prompts into %s\n", len(samples), st.Dir())

	ctx := context.Background()
	for _, form := range samples {
		p, err := prompts.Create(ctx, form)
		if err != nil {
			log.Fatalf("Failed to create %q: %v", form.Title, err)
		}
		fmt.Printf("  %s\n", p.Filename)
	}
}
