package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Archit-01/CostOptimizationSimulation/sim/scenario"
)

var (
	// CLI flags shared by both scenarios
	logLevel    string // Log verbosity level
	configPath  string // Path to a YAML scenario config overriding the defaults
	resultsPath string // File to save the JSON summary to

	// webapp scenario flags
	hours              int     // Simulated duration in hours
	initialVMs         int     // VMs running before the first hour
	minVMs             int     // Scale-down floor
	scaleUpThreshold   float64 // Utilization percent above which to add a VM
	scaleDownThreshold float64 // Utilization percent below which to remove a VM
	utilizationSource  string  // Utilization source (profile, measured)
	routingPolicy      string  // Task routing policy (round-robin, least-loaded)
	placementPolicy    string  // VM placement policy (first-fit, best-fit)

	// cost scenario flags
	costTasks int // Number of workload tasks per strategy run
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cloudsim",
	Short: "Discrete-event cloud datacenter simulator",
}

// loadConfig resolves the scenario config: defaults, then the optional
// YAML file, then CLI flags for anything explicitly set.
func loadConfig(cmd *cobra.Command) scenario.Config {
	cfg := scenario.DefaultConfig()
	if configPath != "" {
		loaded, err := scenario.Load(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario config: %v", err)
		}
		cfg = loaded
	}
	// CLI flags override YAML values via Changed().
	if cmd.Flags().Changed("hours") {
		cfg.WebApp.Hours = hours
	}
	if cmd.Flags().Changed("initial-vms") {
		cfg.WebApp.InitialVMs = initialVMs
	}
	if cmd.Flags().Changed("min-vms") {
		cfg.WebApp.MinVMs = minVMs
	}
	if cmd.Flags().Changed("scale-up-threshold") {
		cfg.WebApp.ScaleUpThreshold = scaleUpThreshold
	}
	if cmd.Flags().Changed("scale-down-threshold") {
		cfg.WebApp.ScaleDownThreshold = scaleDownThreshold
	}
	if cmd.Flags().Changed("utilization-source") {
		cfg.WebApp.UtilizationSource = utilizationSource
	}
	if cmd.Flags().Changed("routing-policy") {
		cfg.WebApp.RoutingPolicy = routingPolicy
		cfg.Cost.RoutingPolicy = routingPolicy
	}
	if cmd.Flags().Changed("placement-policy") {
		cfg.WebApp.PlacementPolicy = placementPolicy
		cfg.Cost.PlacementPolicy = placementPolicy
	}
	if cmd.Flags().Changed("tasks") {
		cfg.Cost.Tasks = costTasks
	}
	return cfg
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// webappCmd runs the business-hour autoscaling scenario
var webappCmd = &cobra.Command{
	Use:   "webapp",
	Short: "Run the autoscaling web traffic scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadConfig(cmd)
		summary, err := scenario.RunWebApp(cfg.WebApp)
		if err != nil {
			logrus.Fatalf("webapp scenario failed: %v", err)
		}
		if err := summary.Save(resultsPath); err != nil {
			logrus.Fatalf("saving summary: %v", err)
		}
	},
}

// costCmd runs the allocation strategy comparison
var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Compare VM allocation strategies by total cost",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		cfg := loadConfig(cmd)
		summary, err := scenario.RunCost(cfg.Cost)
		if err != nil {
			logrus.Fatalf("cost scenario failed: %v", err)
		}
		if err := summary.Save(resultsPath); err != nil {
			logrus.Fatalf("saving summary: %v", err)
		}
	},
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML scenario config")
	rootCmd.PersistentFlags().StringVar(&resultsPath, "results", "", "File to save the JSON summary to")
	rootCmd.PersistentFlags().StringVar(&routingPolicy, "routing-policy", "round-robin", "Task routing policy (round-robin, least-loaded)")
	rootCmd.PersistentFlags().StringVar(&placementPolicy, "placement-policy", "first-fit", "VM placement policy (first-fit, best-fit)")

	webappCmd.Flags().IntVar(&hours, "hours", 24, "Simulated duration in hours")
	webappCmd.Flags().IntVar(&initialVMs, "initial-vms", 2, "VMs running before the first hour")
	webappCmd.Flags().IntVar(&minVMs, "min-vms", 2, "Scale-down floor")
	webappCmd.Flags().Float64Var(&scaleUpThreshold, "scale-up-threshold", 80, "Utilization percent above which to add a VM")
	webappCmd.Flags().Float64Var(&scaleDownThreshold, "scale-down-threshold", 30, "Utilization percent below which to remove a VM")
	webappCmd.Flags().StringVar(&utilizationSource, "utilization-source", "profile", "Utilization source (profile, measured)")

	costCmd.Flags().IntVar(&costTasks, "tasks", 50, "Number of workload tasks per strategy run")

	rootCmd.AddCommand(webappCmd)
	rootCmd.AddCommand(costCmd)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
