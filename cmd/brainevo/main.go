package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/csirmaz/brainevo/config"
	"github.com/csirmaz/brainevo/evolve"
	"github.com/csirmaz/brainevo/persist"
	"github.com/csirmaz/brainevo/telemetry"
)

func main() {
	var configPath string
	var generations int

	rootCmd := &cobra.Command{
		Use:   "brainevo <peer_pid> [new]",
		Short: "brainevo - stack-graph neuroevolution engine",
		Long:  "Evolves a population of stack-machine gene programs against a randomly generated surface-classification task, exchanging elites with a peer process by pid-targeted signal.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			peerPID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing peer_pid %q: %w", args[0], err)
			}
			fresh := len(args) == 2 && args[1] == "new"
			return run(configPath, generations, peerPID, fresh)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().IntVarP(&generations, "generations", "g", 0, "Number of generations to run (0 = run forever)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run implements the engine's startup sequence: load config, load or
// create the pool, then advance it generation by generation, ticking the
// peer-exchange protocol and telemetry reporter around each one.
func run(configPath string, generations int, peerPID int, fresh bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fatal("loading config", err)
	}

	var pool *evolve.Pool
	if fresh {
		pool, err = evolve.NewFreshPool(cfg)
		if err != nil {
			return fatal("creating fresh pool", err)
		}
	} else {
		genomes, err := persist.ReadPool(cfg.GenepoolPath)
		if err != nil {
			return fatal("reading genepool", err)
		}
		pool, err = evolve.NewPoolFromGenomes(cfg, genomes)
		if err != nil {
			return fatal("pool size mismatch", err)
		}
	}

	peer := persist.NewPeer(cfg.PeerFilePath, peerPID)
	defer peer.Close()

	debug := telemetry.NewDebug()
	debug.SetEnabled(cfg.TelemetryEnabled)

	hooks := evolve.RunHooks{
		BeforeGeneration: func(p *evolve.Pool) error {
			if err := peer.PollSignals(); err != nil {
				return fatal("peer exchange protocol violation", err)
			}
			downloaded, err := peer.Tick(p.BestGenome)
			if err != nil {
				return fatal("peer exchange tick", err)
			}
			if downloaded != nil {
				if err := p.ReplaceSlot(worstSlot(p), downloaded); err != nil {
					return fatal("splicing downloaded elite", err)
				}
			}
			return nil
		},
		AfterGeneration: func(p *evolve.Pool) error {
			debug.Update(p.Generation, p.FitnessSlice(), p.DiscardedBuilds, p.Diversity())
			debug.Report()
			if err := persist.WritePool(cfg.GenepoolPath, p.Genomes()); err != nil {
				return fatal("writing genepool", err)
			}
			return nil
		},
	}

	if err := pool.Run(generations, hooks); err != nil {
		return fatal("running pool", err)
	}
	return nil
}

// worstSlot returns the index of the lowest-fitness slot, the
// replacement target for a downloaded peer elite.
func worstSlot(p *evolve.Pool) int {
	worst := 0
	fitness := p.FitnessSlice()
	for i, f := range fitness {
		if f < fitness[worst] {
			worst = i
		}
	}
	return worst
}

func fatal(context string, err error) error {
	log.Printf("fatal: %s: %v", context, err)
	return fmt.Errorf("%s: %w", context, err)
}
