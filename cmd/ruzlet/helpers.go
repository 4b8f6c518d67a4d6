package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/auth"
	"github.com/Kbnch7/quizlet/internal/config"
	"github.com/Kbnch7/quizlet/internal/forms"
	"github.com/spf13/cobra"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// app holds what a command needs to talk to the backend
type app struct {
	cfg    *config.Config
	store  *auth.Store
	client *api.Client
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store := auth.NewStore(cfg.Auth.TokenFile)
	return &app{
		cfg:    cfg,
		store:  store,
		client: api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), cfg.API.RetryAttempts, store),
	}, nil
}

// newLoggedInApp is newApp for commands that make no sense without a login.
func newLoggedInApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if _, err := a.store.Require(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	return a.client.Close()
}

func newFormValidator() (*forms.Validator, error) {
	validator, err := forms.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("forms.NewValidator() > %w", err)
	}
	return validator, nil
}

func parseID(kind, value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, value)
	}
	return id, nil
}

// prompter asks for missing values on the command's input
type prompter struct {
	reader *bufio.Reader
	output io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{
		reader: bufio.NewReader(cmd.InOrStdin()),
		output: cmd.OutOrStdout(),
	}
}

func (p *prompter) ask(label string) (string, error) {
	if _, err := fmt.Fprintf(p.output, "%s: ", label); err != nil {
		return "", err
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// askIfEmpty keeps value when it was given on the command line.
func (p *prompter) askIfEmpty(value *string, label string) error {
	if *value != "" {
		return nil
	}
	answer, err := p.ask(label)
	if err != nil {
		return err
	}
	*value = answer
	return nil
}

func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.ask(question + " [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// changedString returns the flag value only when the flag was given.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &value
}

func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return nil
	}
	return &value
}
