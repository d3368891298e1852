package extension

import (
	"context"
	"fmt"

	"github.com/viant/fluxtree/model/graph"
	"github.com/viant/fluxtree/model/state"
	"github.com/viant/structology/conv"
)

var converter = newConverter()

func newConverter() *conv.Converter {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	return conv.NewConverter(options)
}

// TypedTask adapts fn to a task receiving the node parameters decoded into T
func TypedTask[T any](fn func(ctx context.Context, input *T, st state.Handle) error) graph.Task {
	return func(ctx context.Context, params state.Context, st state.Handle) error {
		input := new(T)
		if len(params) > 0 {
			if err := converter.Convert(map[string]interface{}(params), input); err != nil {
				return fmt.Errorf("failed to decode %T input: %w", input, err)
			}
		}
		return fn(ctx, input, st)
	}
}
