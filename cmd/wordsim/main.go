package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wordsim/internal/api"
	"wordsim/internal/config"
	"wordsim/internal/logging"
	"wordsim/internal/service"
	"wordsim/internal/tui"
)

type rootParams struct {
	configPath string
	verbose    bool

	cfg *config.AppConfig
	log logging.Logger
}

func main() {
	_ = godotenv.Load()

	params := &rootParams{}
	rootCmd := &cobra.Command{
		Use:   "wordsim",
		Short: "Train domain word embeddings and compare them with a generic model",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return params.init()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&params.configPath, "config", "", "Path to YAML config file (optional; uses ~/.config/wordsim/config.yaml if not provided)")
	rootCmd.PersistentFlags().BoolVarP(&params.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newTrainCmd(params),
		newServeCmd(params),
		newTUICmd(params),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (p *rootParams) init() error {
	var err error
	if p.configPath == "" {
		p.cfg, _, err = config.LoadDefault()
	} else {
		p.cfg, err = config.Load(p.configPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	level := logging.ParseLevel(p.cfg.Log.Level)
	if p.verbose {
		level = logging.LevelDebug
	}
	p.log = logging.New("wordsim", level)
	return nil
}

func newTrainCmd(p *rootParams) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train a model on the documents folder and print training statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(p.cfg, p.log)
			if err != nil {
				return err
			}
			if err := svc.Train(); err != nil {
				return err
			}
			stats, err := svc.TrainingStats()
			if err != nil {
				return err
			}
			out := struct {
				Run      string      `yaml:"run"`
				Model    interface{} `yaml:"model"`
				Progress interface{} `yaml:"progress"`
				Stats    interface{} `yaml:"stats"`
			}{
				Run:      svc.RunID(),
				Model:    svc.ModelConfig(),
				Progress: summarizeProgress(svc),
				Stats:    stats,
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(out)
		},
	}
}

func summarizeProgress(svc *service.EmbeddingService) map[string]interface{} {
	pr := svc.Progress()
	return map[string]interface{}{
		"status":    pr.Status,
		"epochs":    pr.CurrentEpoch,
		"finalLoss": pr.CurrentLoss,
	}
}

func newServeCmd(p *rootParams) *cobra.Command {
	var trainOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(p.cfg, p.log)
			if err != nil {
				return err
			}
			if trainOnStart {
				svc.StartTraining()
			}
			gin.SetMode(gin.ReleaseMode)
			srv := &http.Server{
				Addr:              p.cfg.Server.Addr,
				Handler:           api.NewRouter(svc, p.log.WithPrefix("api")),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				p.log.Info("listening", logging.Fields{"addr": srv.Addr})
				errCh <- srv.ListenAndServe()
			}()
			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}
			p.log.Info("shutting down", nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&trainOnStart, "train", false, "Start a training run when the server starts")
	return cmd
}

func newTUICmd(p *rootParams) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive training and similarity checker",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would corrupt the terminal UI.
			p.log = logging.Nop{}
			svc, err := buildService(p.cfg, p.log)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run()
			return err
		},
	}
}
