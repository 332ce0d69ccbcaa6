package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/Flilipp/Chatbot/core"
	"github.com/Flilipp/Chatbot/factories"
	"github.com/Flilipp/Chatbot/services/backend"
	"github.com/Flilipp/Chatbot/session"
)

func main() {
	var baseURL string
	var ttsEnabled bool
	flag.StringVar(&baseURL, "api", "", "base URL of the chatbot API (e.g. http://127.0.0.1:8000/api)")
	flag.BoolVar(&ttsEnabled, "tts", false, "speak assistant replies aloud")
	flag.Parse()

	if err := godotenv.Load(".env.local"); err != nil {
		core.GetLogger().With(map[string]any{"error": err}).Warn("No .env.local file found or failed to load")
	}

	if baseURL == "" {
		baseURL = os.Getenv("CHATBOT_API_URL")
	}
	token := os.Getenv("CHATBOT_TOKEN")

	// The TUI owns the terminal; route logs to a file so they don't tear
	// the screen apart.
	logFile, err := os.OpenFile("chatterm.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer logFile.Close()
		core.SetLogger(*core.NewLogger(func(level, msg string, attrs map[string]interface{}) {
			line := time.Now().Format(time.RFC3339) + " [" + level + "] " + msg
			for k, v := range attrs {
				line += fmt.Sprintf(" %s=%v", k, v)
			}
			logFile.WriteString(line + "\n")
			switch level {
			case "FATAL":
				os.Exit(1)
			case "PANIC":
				panic(msg)
			}
		}))
	}
	logger := core.GetLogger()

	config := factories.SessionConfig{
		Backend: backend.Config{BaseURL: baseURL},
		Session: session.Config{
			SystemPrompt:   core.DefaultSystemPrompt,
			TTSEnabled:     ttsEnabled,
			GenerateTitles: true,
		},
	}

	// Text-only terminal session: no capture device, no playback sink.
	coord, err := factories.BuildSession(config, core.StaticToken(token), nil, nil, logger)
	if err != nil {
		logger.Fatal("failed to build session", "error", err)
	}

	ctx := context.Background()
	if err := coord.RefreshDirectory(ctx); err != nil {
		logger.Warn("initial directory refresh failed", "error", err)
	}

	program := tea.NewProgram(newModel(coord), tea.WithAltScreen())
	coord.OnChange(func() {
		program.Send(stateChangedMsg{})
	})

	if _, err := program.Run(); err != nil {
		logger.Fatal("terminal UI failed", "error", err)
	}
}
