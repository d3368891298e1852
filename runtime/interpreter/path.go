package interpreter

import (
	"strconv"

	"github.com/viant/fluxtree/model/graph"
)

const (
	rootLabel = "root"
	thenLabel = "then"
	elseLabel = "else"
)

// nodePath returns parent/segment where segment is the node name, or
// kind[index] for an unnamed child
func nodePath(parent, name string, kind graph.Kind, label string) string {
	segment := name
	if segment == "" {
		switch label {
		case rootLabel, thenLabel, elseLabel:
			segment = label
		default:
			segment = string(kind) + "[" + label + "]"
		}
	}
	if parent == "" {
		return segment
	}
	return parent + "/" + segment
}

func indexLabel(i int) string {
	return strconv.Itoa(i)
}
