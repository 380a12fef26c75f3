// Package orchestration runs the speed-up search: it times a sequential
// baseline once, then probes increasing thread counts until a run is fast
// enough to meet the target speed-up or every allowed thread count has been
// tried. Presentation layers observe the search through ProbeReporter and
// render its outcome through ResultPresenter.
package orchestration
