package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arunvijo/Smart-Forensic-AI/internal/config"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/extract"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/interview"
	"github.com/arunvijo/Smart-Forensic-AI/internal/service/session"
)

// interviewcli runs a whole interview from the terminal against the real
// orchestrator, without HTTP in the way. Handy for tuning the rule
// extractor's vocabulary and for smoke-testing remote extractor credentials.
func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file, using system environment only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	mode := flag.String("mode", cfg.Extractor.Mode, "extractor: rule, ark or gemini")
	sessionID := flag.String("session", "", "session id, defaults to a generated one")
	timeout := flag.Duration("timeout", 45*time.Second, "per-turn timeout")
	flag.Parse()

	ctx := context.Background()

	var extractor extract.Extractor
	switch *mode {
	case config.ExtractorArk:
		chatModel, err := cfg.Ark.NewChatModel(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("ark model unavailable")
		}
		extractor, err = extract.NewArkExtractor(ctx, chatModel)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build ark extractor")
		}
	case config.ExtractorGemini:
		extractor, err = extract.NewGeminiExtractor(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to build gemini extractor")
		}
	default:
		extractor = extract.NewRuleExtractor()
	}

	identity := *sessionID
	if identity == "" {
		identity = fmt.Sprintf("cli-%d", time.Now().UnixNano())
	}

	svc := interview.NewService(session.NewMemoryStore(), extractor, nil, nil)

	fmt.Printf("interview session %s (extractor: %s)\n", identity, extractor.Name())
	fmt.Println("describe the suspect; 'reset' starts over, 'quit' exits")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "quit", "exit":
			return
		case "reset":
			svc.Reset(ctx, identity)
			fmt.Println("session reset")
			continue
		}

		turnCtx, cancel := context.WithTimeout(ctx, *timeout)
		result, err := svc.Turn(turnCtx, interview.TurnRequest{Identity: identity, Text: line})
		cancel()
		if err != nil {
			fmt.Printf("turn failed: %v\n", err)
			continue
		}

		fmt.Println(result.Reply)
		if result.Done {
			fmt.Println("\ninterview complete")
			return
		}
	}
}
