// Package analyzer drives the reachability analysis over a built program
// graph. The graph exposes the primitives (retain counts, marks,
// traversal); this package supplies the policy: which declarations are
// roots, how usage propagates, what counts as redundant or ignored.
package analyzer

import (
	"log/slog"

	"vestige/internal/config"
	"vestige/internal/graph"
)

// Analyzer runs the reachability visitors over a graph, serially and in a
// fixed order. Serial execution is what makes the visitors' interleaved
// read/mark sequences safe.
type Analyzer struct {
	graph  *graph.Graph
	cfg    *config.AnalysisConfig
	logger *slog.Logger
}

// New creates an analyzer for a structurally complete graph. The build
// phase, including root identification, must have finished.
func New(g *graph.Graph, cfg *config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		graph:  g,
		cfg:    cfg,
		logger: logger,
	}
}

// Run executes the visitor pipeline. The first error aborts the pass;
// integrity errors from the graph propagate unmodified.
func (a *Analyzer) Run() error {
	visitors := []struct {
		name    string
		visitor graph.Visitor
	}{
		{"entry-point-retainer", &entryPointRetainer{cfg: a.cfg}},
		{"external-extension-retainer", &externalExtensionRetainer{}},
		{"usage-propagator", &usagePropagator{}},
		{"redundant-override-marker", &redundantOverrideMarker{}},
		{"ignore-rules", &ignoreRuleApplier{cfg: a.cfg}},
	}

	for _, v := range visitors {
		if err := a.graph.Accept(v.visitor); err != nil {
			return err
		}
		a.logger.Debug("visitor completed",
			"visitor", v.name,
			"reachable", len(a.graph.ReachableDeclarations()))
	}

	a.logger.Debug("analysis completed",
		"declarations", a.graph.NumDeclarations(),
		"references", a.graph.NumReferences(),
		"results", len(a.graph.ResultDeclarations()))
	return nil
}
