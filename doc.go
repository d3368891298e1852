// Package fluxtree provides a hierarchical task-orchestration engine.
//
// A process tree is composed of four node kinds: Sequential nodes run their
// children in order, Parallel nodes run them concurrently and wait for all of
// them, Step nodes invoke a task and Conditional nodes choose a branch. Every
// node may overlay parameters on top of the ones it inherits. All tasks share
// a single state value that is only ever exchanged as a deep copy.
//
//	engine := fluxtree.New(fluxtree.WithInitialState(0))
//	root := graph.NewSequential(graph.NewStep(add), graph.NewStep(double))
//	final, err := engine.Run(ctx, root, state.Context{"n": 2})
//
// Trees can also be loaded from YAML with tasks resolved from a registry:
//
//	registry := extension.NewRegistry()
//	_ = registry.RegisterTask("add", add)
//	engine := fluxtree.New(fluxtree.WithTasks(registry))
//	root, err := engine.LoadTree(ctx, "file:///etc/trees/demo.yaml")
package fluxtree
