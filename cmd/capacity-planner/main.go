// capacity-planner builds the constraint and objective structure of an
// energy-system capacity plan and prints a summary of the result. Solving
// the built model is a separate stage and not part of this tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/enermodel/capacity-planner/internal/builder"
	"github.com/enermodel/capacity-planner/internal/logging"
	"github.com/enermodel/capacity-planner/pkg/config"
	"github.com/enermodel/capacity-planner/pkg/core"
	"github.com/enermodel/capacity-planner/pkg/params"
)

type buildOptions struct {
	configPath string
	paramsDB   string
	verbosity  int
	devLog     bool
}

func (o *buildOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configPath, "config", "c", "", "path to a run configuration yaml file")
	fs.StringVar(&o.paramsDB, "params", "", "path to a sqlite parameter set; replaces the bundled example parameters")
	fs.IntVarP(&o.verbosity, "verbosity", "v", logging.INFO, "log verbosity (0=info, 1=debug, 2=trace)")
	fs.BoolVar(&o.devLog, "dev-log", false, "use the human-readable console log encoding")
}

// buildSummary is the yaml document printed after a successful build.
type buildSummary struct {
	Constraints   int      `yaml:"constraints"`
	Unconstrained []string `yaml:"unconstrained,omitempty"`
	Names         []string `yaml:"constraintNames"`
	Objective     string   `yaml:"objective"`
	Sense         string   `yaml:"sense"`
	ObjectiveLen  int      `yaml:"objectiveTerms"`
}

func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build",
		Short: "build the example plan model and print a constraint summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, cmd.OutOrStdout())
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func runBuild(opts *buildOptions, out io.Writer) error {
	logger := logging.NewLogger(opts.verbosity, opts.devLog)
	logging.SetDefault(logger)
	ctx := logging.NewContext(context.Background(), logger)

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}

	model, store := exampleSystem()
	var resolver params.Resolver = store
	if opts.paramsDB != "" {
		sq, err := params.OpenSQLite(opts.paramsDB)
		if err != nil {
			return err
		}
		defer func() { _ = sq.Close() }()
		resolver = sq
	}

	b, err := builder.New(model, resolver, cfg)
	if err != nil {
		return err
	}
	if err := b.Build(ctx); err != nil {
		return err
	}

	obj, _ := model.Objective()
	summary := buildSummary{
		Constraints:   model.ConstraintCount(),
		Unconstrained: model.UnconstrainedMarkers(),
		Objective:     cfg.Objective,
		Sense:         string(obj.Sense),
		ObjectiveLen:  len(obj.Expr.Terms),
	}
	for _, c := range model.Constraints() {
		summary.Names = append(summary.Names, c.Name)
	}
	doc, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = out.Write(doc)
	return err
}

func main() {
	root := &cobra.Command{
		Use:           "capacity-planner",
		Short:         "multi-node energy-system capacity plan model builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// exampleSystem returns the bundled two-node demonstration system: a gas
// plant and solar at region1, solar and storage at region2.
func exampleSystem() (*core.Model, *params.Store) {
	m := core.NewModel()
	store := params.NewStore()

	region1, region2 := core.Node("region1"), core.Node("region2")
	ccgt := core.LocTech{Node: region1, Tech: "ccgt"}
	pv1 := core.LocTech{Node: region1, Tech: "pv"}
	pv2 := core.LocTech{Node: region2, Tech: "pv"}
	battery := core.LocTech{Node: region2, Tech: "battery"}

	for _, lt := range []core.LocTech{ccgt, pv1, pv2, battery} {
		m.AddCapacityVariable(core.EnergyCap, lt)
		m.AddCostVariable("monetary", lt)
	}
	m.AddCapacityVariable(core.ResourceCap, ccgt)
	m.AddCapacityVariable(core.ResourceArea, pv1)
	m.AddCapacityVariable(core.ResourceArea, pv2)
	m.AddCapacityVariable(core.StorageCap, battery)

	store.Set("energy_cap_max", ccgt, params.Number(30000))
	store.Set("resource_cap_equals_energy_cap", ccgt, params.Bool(true))
	store.Set("energy_cap_max", pv1, params.Number(10000))
	store.Set("energy_cap_max", pv2, params.Number(10000))
	store.Set("resource_area_per_energy_cap", pv2, params.Number(0.1))
	store.Set("energy_cap_per_storage_cap_max", battery, params.Number(4))
	store.Set("storage_cap_max", battery, params.Number(5000))
	store.SetTech("energy_cap_max_systemwide", "pv", params.Number(15000))
	store.SetNode("available_area", region1, params.Number(1000))

	for i, weight := range []float64{1, 1, 2} {
		name := fmt.Sprintf("t%d", i)
		m.AddTimestep(core.Timestep{Name: name, Weight: weight})
		m.AddSlackVariables(region1, "power", name)
		m.AddSlackVariables(region2, "power", name)
	}
	return m, store
}
