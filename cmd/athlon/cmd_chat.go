package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"athlonos/internal/agent"
	"athlonos/internal/config"
	"athlonos/internal/render"
)

var (
	chatTransport string
	chatMode      string
	chatModel     string
	chatAttach    string
)

// chatCmd sends one message through the agent and prints the reply
var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Send a single message to Athlon Agent",
	Long: `Sends one message through the configured transport and prints the
reply. Code blocks are printed fenced, HTML blocks as a text preview and
images as links.

Examples:
  athlon chat "What files do I have?"
  athlon chat --transport local --mode direct --model llama3 "hello"
  athlon chat --mode interpreter --attach sales.csv "plot revenue by month"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

// applyChatOverrides folds the chat flags into the loaded config.
func applyChatOverrides(cfg *config.Config) {
	if chatTransport != "" {
		cfg.Agent.Transport = chatTransport
	}
	if chatMode != "" {
		cfg.Agent.Mode = chatMode
	}
	if chatModel != "" {
		cfg.Agent.Model = chatModel
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := *appCfg
	applyChatOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	env, err := buildEnv(&cfg)
	if err != nil {
		return err
	}
	if chatAttach != "" {
		if _, err := os.Stat(chatAttach); err != nil {
			return fmt.Errorf("cannot attach %s: %w", chatAttach, err)
		}
		env.Agent.SetAttachment(agent.Attachment{Name: filepath.Base(chatAttach), Path: chatAttach})
	}

	input := joinArgs(args)
	logger.Debug("sending chat message",
		zap.String("transport", cfg.Agent.Transport),
		zap.String("mode", cfg.Agent.Mode),
		zap.Int("chars", len(input)))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	msg, err := env.Agent.Send(ctx, input)
	if err != nil {
		return err
	}
	if msg.IsError {
		return errors.New(msg.Text)
	}

	opts := render.DefaultOptions()
	if cfg.Desktop.AssetOrigin != "" {
		opts.AssetOrigin = cfg.Desktop.AssetOrigin
	}
	printReply(os.Stdout, msg.Text, opts)
	return nil
}

// printReply writes a reply segment by segment in plain text.
func printReply(w io.Writer, text string, opts render.Options) {
	for _, seg := range render.Split(text, opts) {
		switch seg.Kind {
		case render.KindCode:
			fmt.Fprintf(w, "```%s\n%s\n```\n", seg.Language, seg.Code)
		case render.KindHTML:
			fmt.Fprintln(w, "[html preview]")
			fmt.Fprintln(w, render.PreviewText(seg.Code))
		case render.KindImage:
			fmt.Fprintf(w, "[image: %s] %s\n", seg.Alt, seg.URL)
		default:
			fmt.Fprintln(w, strings.Trim(seg.Text(), "\n"))
		}
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
