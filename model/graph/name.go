package graph

type namer struct {
	name string
}

func (n *namer) VisitSequential(node *Sequential) error {
	n.name = node.Name
	return nil
}

func (n *namer) VisitParallel(node *Parallel) error {
	n.name = node.Name
	return nil
}

func (n *namer) VisitStep(node *Step) error {
	n.name = node.Name
	return nil
}

func (n *namer) VisitConditional(node *Conditional) error {
	n.name = node.Name
	return nil
}

// NameOf returns the node name, empty for unnamed or unsupported nodes
func NameOf(node Node) string {
	ret := &namer{}
	_ = Visit(node, ret)
	return ret.name
}
