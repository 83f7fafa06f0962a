// Command stagecraft composes deployment clean-up flows. The plan
// subcommand runs one composition pass locally, history lists recorded
// passes, and worker hosts the durable planning workflow together with
// the metrics endpoint.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/telemetry"
)

// settings is the configuration shared by the subcommands, read from an
// optional YAML file. Every key has a working local default.
type settings struct {
	PlansDB         string `mapstructure:"plans_db"`
	WorkflowDB      string `mapstructure:"workflow_db"`
	WorkflowEngine  string `mapstructure:"workflow_engine"`
	DBOSDatabaseURL string `mapstructure:"dbos_database_url"`
	ClusterStateURL string `mapstructure:"cluster_state_url"`
	MetricsAddr     string `mapstructure:"metrics_addr"`
	LogLevel        string `mapstructure:"log_level"`
}

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "stagecraft",
		Short:         "Composes deployment clean-up flows from strategy and cluster state",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(workerCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stagecraft:", err)
		os.Exit(1)
	}
}

func loadSettings() (settings, error) {
	v := viper.New()
	v.SetDefault("plans_db", "stagecraft.db")
	v.SetDefault("workflow_db", "stagecraft-workflow.db")
	v.SetDefault("workflow_engine", "sqlite")
	v.SetDefault("cluster_state_url", "http://localhost:7002")
	v.SetDefault("metrics_addr", ":9090")
	v.SetDefault("log_level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	var cfg settings
	if err := v.Unmarshal(&cfg); err != nil {
		return settings{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// clusterSource is the pair of cluster-state capabilities planning
// needs. Both gateway implementations provide it.
type clusterSource interface {
	domain.ClusterGateway
	domain.SourceResolver
}

func newPlanningWorkflow(state clusterSource, plans domain.PlanRepository, logger *slog.Logger) *domain.PlanningWorkflow {
	sink := &telemetry.Sink{Logger: logger}
	return &domain.PlanningWorkflow{
		Planner: &domain.DeployStagePlanner{
			Catalog:   domain.DefaultStrategyCatalog(state, state, sink),
			BaseSteps: domain.BaseStepFunc(defaultBaseSteps),
		},
		Plans: plans,
	}
}

// defaultBaseSteps is the deploy step sequence used when no host engine
// supplies its own.
func defaultBaseSteps(domain.DeployRequest) []domain.Step {
	return []domain.Step{
		{Name: "createServerGroup"},
		{Name: "monitorDeploy"},
		{Name: "waitForUpInstances"},
	}
}
