package tree

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/fluxtree/extension"
	"github.com/viant/fluxtree/internal/yml"
	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/fluxtree/model/types"
	"github.com/viant/fluxtree/runtime/evaluator"
	"gopkg.in/yaml.v3"
)

const (
	keyName      = "name"
	keyKind      = "kind"
	keyParams    = "params"
	keyChildren  = "children"
	keyTask      = "task"
	keyWhen      = "when"
	keyThen      = "then"
	keyElse      = "else"
	keyPredicate = "predicate"
	keyExpr      = "expr"
)

// Service builds process trees from YAML, resolving task and predicate names with a registry
type Service struct {
	fs        afs.Service
	fsOptions []storage.Option
	baseURL   string
	registry  *extension.Registry
	extension string
}

// Load loads a tree from URL, ".yaml" is appended when URL has no extension and
// a relative URL is resolved against the base URL
func (s *Service) Load(ctx context.Context, URL string) (graph.Node, error) {
	if filepath.Ext(URL) == "" {
		URL += s.extension
	}
	if s.baseURL != "" && url.IsRelative(URL) {
		URL = url.Join(s.baseURL, URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree from %s: %w", URL, err)
	}
	root, err := s.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tree from %s: %w", URL, err)
	}
	return root, nil
}

// DecodeYAML builds a tree from YAML after expanding ${env.KEY} references
func (s *Service) DecodeYAML(data []byte) (graph.Node, error) {
	node, err := yml.Parse([]byte(expandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	root := node.Root()
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected tree mapping, but had %v", describe(root))
	}
	return s.parseNode(root, "root")
}

func (s *Service) parseNode(node *yml.Node, path string) (graph.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%v: expected node mapping, but had %v", path, describe(node))
	}
	name := scalar(node.Lookup(keyName))
	params, err := parseParams(node.Lookup(keyParams))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	switch kind := inferKind(node); kind {
	case graph.KindSequential, graph.KindParallel:
		children, err := s.parseChildren(node.Lookup(keyChildren), path)
		if err != nil {
			return nil, err
		}
		if kind == graph.KindParallel {
			return &graph.Parallel{Name: name, Params: params, Children: children}, nil
		}
		return &graph.Sequential{Name: name, Params: params, Children: children}, nil
	case graph.KindStep:
		task, err := s.lookupTask(node.Lookup(keyTask))
		if err != nil {
			return nil, fmt.Errorf("%v: %w", path, err)
		}
		return &graph.Step{Name: name, Params: params, Task: task}, nil
	case graph.KindConditional:
		condition, err := s.parseCondition(node.Lookup(keyWhen))
		if err != nil {
			return nil, fmt.Errorf("%v: %w", path, err)
		}
		then, err := s.parseBranch(node.Lookup(keyThen), path+"/"+keyThen)
		if err != nil {
			return nil, err
		}
		if then == nil {
			return nil, fmt.Errorf("%v: conditional has no %v branch", path, keyThen)
		}
		otherwise, err := s.parseBranch(node.Lookup(keyElse), path+"/"+keyElse)
		if err != nil {
			return nil, err
		}
		return &graph.Conditional{Name: name, Params: params, Condition: condition, Then: then, Else: otherwise}, nil
	default:
		return nil, types.NewUnknownKindError(path, string(kind))
	}
}

func (s *Service) parseChildren(node *yml.Node, path string) ([]graph.Node, error) {
	if node == nil {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%v: expected %v sequence, but had %v", path, keyChildren, describe(node))
	}
	var children []graph.Node
	err := node.Items(func(index int, item *yml.Node) error {
		child, err := s.parseNode(item, path+"/"+strconv.Itoa(index))
		if err != nil {
			return err
		}
		children = append(children, child)
		return nil
	})
	return children, err
}

// parseBranch returns a task for a scalar name or a nested node for a mapping
func (s *Service) parseBranch(node *yml.Node, path string) (graph.Branch, error) {
	if node == nil {
		return nil, nil
	}
	if node.IsScalar() {
		task, err := s.lookupTask(node)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", path, err)
		}
		return task, nil
	}
	return s.parseNode(node, path)
}

// parseCondition supports a bool literal, an expression string, {predicate: name} and {expr: source}
func (s *Service) parseCondition(node *yml.Node) (graph.Condition, error) {
	if node == nil {
		return nil, fmt.Errorf("conditional has no %v condition", keyWhen)
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!bool" {
			return graph.Literal(node.Interface().(bool)), nil
		}
		predicate, err := evaluator.Predicate(node.Value)
		if err != nil {
			return nil, err
		}
		return predicate, nil
	case yaml.MappingNode:
		if name := node.Lookup(keyPredicate); name != nil {
			predicate, err := s.registry.LookupPredicate(name.Value)
			if err != nil {
				return nil, err
			}
			return predicate, nil
		}
		if source := node.Lookup(keyExpr); source != nil {
			predicate, err := evaluator.Predicate(source.Value)
			if err != nil {
				return nil, err
			}
			return predicate, nil
		}
	}
	return nil, fmt.Errorf("unsupported %v condition: %v", keyWhen, describe(node))
}

func (s *Service) lookupTask(node *yml.Node) (graph.Task, error) {
	name := scalar(node)
	if name == "" {
		return nil, fmt.Errorf("%v name was empty", keyTask)
	}
	return s.registry.LookupTask(name)
}

// inferKind uses the declared kind, or derives one from the keys present
func inferKind(node *yml.Node) graph.Kind {
	if kind := node.Lookup(keyKind); kind != nil {
		return graph.Kind(strings.ToLower(strings.TrimSpace(kind.Value)))
	}
	switch {
	case node.Lookup(keyTask) != nil:
		return graph.KindStep
	case node.Lookup(keyWhen) != nil:
		return graph.KindConditional
	default:
		return graph.KindSequential
	}
}

// parseParams accepts a mapping or a sequence of name/value pairs
func parseParams(node *yml.Node) (state.Context, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.MappingNode:
		return state.Context(node.Interface().(map[string]interface{})), nil
	case yaml.SequenceNode:
		var params state.Parameters
		err := node.Items(func(_ int, item *yml.Node) error {
			name := scalar(item.Lookup(keyName))
			if name == "" {
				return fmt.Errorf("%v entry has no %v", keyParams, keyName)
			}
			var value interface{}
			if v := item.Lookup("value"); v != nil {
				value = v.Interface()
			}
			params.Add(name, value)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return params.ToContext(), nil
	}
	return nil, fmt.Errorf("unsupported %v: %v", keyParams, describe(node))
}

func scalar(node *yml.Node) string {
	if node == nil || !node.IsScalar() {
		return ""
	}
	return node.Value
}

func describe(node *yml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return fmt.Sprintf("scalar %q", node.Value)
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	}
	return "empty document"
}

// New creates a tree service
func New(registry *extension.Registry, opts ...Option) *Service {
	ret := &Service{registry: registry, extension: ".yaml"}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.registry == nil {
		ret.registry = extension.NewRegistry()
	}
	return ret
}
