package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stagecraft-cd/stagecraft/internal/application"
	"github.com/stagecraft-cd/stagecraft/internal/domain"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/clusterstate"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/sqlite"
	"github.com/stagecraft-cd/stagecraft/internal/infrastructure/syncworkflow"
)

var (
	planStageID  string
	planFixtures string
	planGraph    string
	planJSON     bool
	historyJSON  bool

	planCmd = &cobra.Command{
		Use:   "plan <stage-config file>",
		Short: "Compose one deployment stage against current cluster state",
		Long: `Plan runs a single synchronous composition pass: it normalizes the
stage configuration, resolves the deployment strategy, splices the
strategy's clean-up stages into the workflow graph, and assembles the
stage's step list. The pass is recorded in the plan store but nothing
is deployed.

The stage configuration is a YAML or JSON document holding the same
keys a pipeline would submit (application, account, strategy, regions,
and so on). With --fixtures the pass runs against a fixed set of server
groups instead of the live cluster-state service.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlan,
	}

	historyCmd = &cobra.Command{
		Use:   "history <application> <account> <cluster>",
		Short: "List recorded planning passes for one cluster",
		Args:  cobra.ExactArgs(3),
		RunE:  runHistory,
	}
)

func init() {
	planCmd.Flags().StringVar(&planStageID, "stage-id", "deploy-1", "graph node ID of the deployment stage")
	planCmd.Flags().StringVar(&planFixtures, "fixtures", "", "YAML file of server groups to plan against instead of the cluster-state service")
	planCmd.Flags().StringVar(&planGraph, "graph", "", "JSON snapshot of the host graph to splice into")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "print the full planning output as JSON")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print records as JSON")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	stageConfig, err := readStageConfig(args[0])
	if err != nil {
		return err
	}

	var graph *domain.StageGraph
	if planGraph != "" {
		graph, err = readGraph(planGraph)
		if err != nil {
			return err
		}
	}

	db, err := sqlite.Open(cfg.PlansDB)
	if err != nil {
		return err
	}
	defer db.Close()
	plans := &sqlite.PlanRepo{DB: db}

	state, err := newClusterSource(cfg, logger)
	if err != nil {
		return err
	}

	runner, err := (&syncworkflow.Engine{}).PlanningRunner(newPlanningWorkflow(state, plans, logger))
	if err != nil {
		return err
	}
	svc := &application.PlanningService{Workflow: runner, Plans: plans}

	out, err := svc.Plan(cmd.Context(), application.PlanDeploymentInput{
		StageID: domain.NodeID(planStageID),
		Config:  stageConfig,
		Graph:   graph,
	})
	if err != nil {
		if out.RecordID != "" {
			logger.Error("planning pass failed", "record", out.RecordID, "error", err)
		}
		return err
	}
	return printPlanning(cmd.OutOrStdout(), out, planJSON)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	db, err := sqlite.Open(cfg.PlansDB)
	if err != nil {
		return err
	}
	defer db.Close()
	plans := &sqlite.PlanRepo{DB: db}

	records, err := plans.ListByCluster(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if historyJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	for _, rec := range records {
		fmt.Fprintf(w, "%s  %-9s  %-12s  %d stages  %s\n",
			rec.CreatedAt.Format(time.RFC3339), rec.Outcome, rec.Strategy, len(rec.Injected), rec.ID)
	}
	return nil
}

// newClusterSource returns the fixture-backed gateway when one was
// given, otherwise the live cluster-state client.
func newClusterSource(cfg settings, logger *slog.Logger) (clusterSource, error) {
	if planFixtures == "" {
		return &clusterstate.Client{BaseURL: cfg.ClusterStateURL, Logger: logger}, nil
	}
	data, err := os.ReadFile(planFixtures)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var groups []domain.ServerGroup
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse fixtures %s: %w", planFixtures, err)
	}
	return &clusterstate.Static{Groups: groups}, nil
}

// readStageConfig parses a stage configuration document. YAML is a
// superset of JSON, so both forms land here.
func readStageConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stage config: %w", err)
	}
	var config map[string]any
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse stage config %s: %w", path, err)
	}
	return config, nil
}

func readGraph(path string) (*domain.StageGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph snapshot: %w", err)
	}
	var graph domain.StageGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return nil, fmt.Errorf("parse graph snapshot %s: %w", path, err)
	}
	return &graph, nil
}

func printPlanning(w io.Writer, out domain.PlanningOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	res := out.Result
	fmt.Fprintf(w, "record   %s\n", out.RecordID)
	fmt.Fprintf(w, "strategy %s\n", res.Strategy)
	for _, spec := range res.Injected {
		target, _ := spec.Context["asgName"].(string)
		fmt.Fprintf(w, "inject   %s %s\n", spec.Type, target)
	}
	for _, step := range res.Steps {
		fmt.Fprintf(w, "step     %s\n", step.Name)
	}
	return nil
}
