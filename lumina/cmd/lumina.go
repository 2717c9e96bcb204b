// Command-line interface for the Lumina assistant
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"lumina/lumina/app"
	"lumina/lumina/assistant"
	"lumina/lumina/config"
	"lumina/lumina/services/transcript"
	"lumina/lumina/services/widget"
	"lumina/lumina/utils/color"
	"lumina/lumina/utils/logging"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backend  string
	model    string
	render   bool
	noColor  bool
	category string
	featured bool
)

var rootCmd = &cobra.Command{
	Use:   "lumina",
	Short: "Lumina, the portfolio assistant, in your terminal",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitLogger()
		if noColor {
			color.Disable()
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with Lumina; replies stream as they are generated",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if backend != "" {
			cfg.Backend = backend
		}
		if model != "" {
			cfg.Model = model
		}
		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runChat(ctx, a)
	},
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the portfolio projects Lumina knows about",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		catalog, err := assistant.LoadCatalog(cfg.ProjectsFile)
		if err != nil {
			return err
		}
		projects := catalog.ByCategory(assistant.Category(category))
		if featured {
			projects = catalog.Featured()
		}
		for _, p := range projects {
			// Featured ignores the category, filter again
			if category != "" && p.Category != assistant.Category(category) {
				continue
			}
			fmt.Printf("%s  %s  %s\n", color.ColorName(p.Title), color.ColorInfo(string(p.Category)), p.Year)
			fmt.Printf("    %s\n", p.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	chatCmd.Flags().StringVar(&backend, "backend", "", "generation backend (gemini, ollama or openai), overrides LLM_BACKEND")
	chatCmd.Flags().StringVar(&model, "model", "", "model name, overrides MODEL")
	chatCmd.Flags().BoolVar(&render, "render", false, "re-render each settled reply as markdown")
	projectsCmd.Flags().StringVar(&category, "category", "", "only list this category")
	projectsCmd.Flags().BoolVar(&featured, "featured", false, "only list featured projects")
	rootCmd.AddCommand(chatCmd, projectsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(ctx context.Context, a *app.App) error {
	var renderer *glamour.TermRenderer
	if render {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			logging.ErrorLogger.Error("markdown renderer", zap.Error(err))
		} else {
			renderer = r
		}
	}

	events, unsubscribe := a.Widget.Subscribe()
	defer unsubscribe()
	a.Widget.Open()

	settled := make(chan transcript.Message)
	go func() {
		defer close(settled)
		printer := newStreamPrinter(os.Stdout)
		for ev := range events {
			if ev.Type != widget.EventMessage {
				continue
			}
			if printer.handle(*ev.Message) {
				settled <- *ev.Message
			}
		}
	}()

	name := color.ColorName(a.Persona.Name + "> ")
	fmt.Printf("\n%s%s\n\n", name, a.Persona.Greeting)
	fmt.Println(color.ColorInfo("Type your message, 'reset' to start a new conversation, or 'exit' to quit.\n"))

	scanner := bufio.NewScanner(os.Stdin)
	for ctx.Err() == nil {
		fmt.Print(color.ColorPrompt("vous> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			break
		}
		if line == "reset" {
			a.Manager.Reset()
			fmt.Println(color.ColorInfo("New conversation.\n"))
			continue
		}

		fmt.Print(name)
		msg, err := a.Widget.Submit(ctx, line)
		if errors.Is(err, transcript.ErrEmptyInput) {
			fmt.Println()
			continue
		}
		if err != nil {
			fmt.Println(color.ColorError(err.Error()))
			continue
		}
		if _, ok := <-settled; !ok {
			// dropped as a slow subscriber: print the settled reply whole
			fmt.Println(color.ColorAssistant(msg.Text))
		}
		if renderer != nil {
			if out, err := renderer.Render(msg.Text); err == nil {
				fmt.Print(out)
			}
		}
		fmt.Println()
	}
	fmt.Println(color.ColorInfo("À bientôt !"))
	return nil
}
