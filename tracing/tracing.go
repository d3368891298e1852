package tracing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/viant/fluxtree"

// Attribute keys recorded on node spans.
const (
	KeyNodePath = attribute.Key("fluxtree.node.path")
	KeyNodeKind = attribute.Key("fluxtree.node.kind")
	KeySkipped  = attribute.Key("fluxtree.node.skipped")
	KeyRunID    = attribute.Key("fluxtree.run.id")
	KeyTree     = attribute.Key("fluxtree.tree")
)

var (
	installOnce sync.Once
	installErr  error
	mux         sync.Mutex
	provider    *sdktrace.TracerProvider
	sinkCloser  io.Closer
)

// Init installs a global tracer provider exporting to stdout, or to the output file when set.
func Init(service, version, output string) error {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		w, closer = f, f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err == nil {
		var installed bool
		installed, err = install(service, version, exporter, closer)
		if installed {
			return nil
		}
	}
	if closer != nil {
		_ = closer.Close()
	}
	return err
}

// Install sets the global tracer provider once; later calls return the first outcome.
func Install(service, version string, exporter sdktrace.SpanExporter) error {
	_, err := install(service, version, exporter, nil)
	return err
}

// install reports whether this call installed the provider
func install(service, version string, exporter sdktrace.SpanExporter, closer io.Closer) (bool, error) {
	if exporter == nil {
		return false, nil
	}
	installed := false
	installOnce.Do(func() {
		res, err := resource.New(context.Background(), resource.WithAttributes(
			attribute.String("service.name", service),
			attribute.String("service.version", version),
		))
		if err != nil {
			installErr = err
			return
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		mux.Lock()
		provider, sinkCloser = tp, closer
		mux.Unlock()
		installed = true
	})
	return installed, installErr
}

// Shutdown flushes the installed provider and closes its output file; spans ended afterwards are dropped.
func Shutdown(ctx context.Context) error {
	mux.Lock()
	defer mux.Unlock()
	var errs []error
	if provider != nil {
		errs = append(errs, provider.Shutdown(ctx))
		provider = nil
	}
	if sinkCloser != nil {
		errs = append(errs, sinkCloser.Close())
		sinkCloser = nil
	}
	return errors.Join(errs...)
}

// NodeSpan tracks a single node execution.
type NodeSpan struct {
	span trace.Span
}

// StartNode opens a span named "<kind> <path>" under whatever span ctx carries.
func StartNode(ctx context.Context, kind, path string) (context.Context, *NodeSpan) {
	ctx, span := otel.Tracer(scopeName).Start(ctx, kind+" "+path,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(KeyNodePath.String(path), KeyNodeKind.String(kind)),
	)
	return ctx, &NodeSpan{span: span}
}

// Annotate sets a string attribute on the span.
func (n *NodeSpan) Annotate(key attribute.Key, value string) {
	if n == nil || value == "" {
		return
	}
	n.span.SetAttributes(key.String(value))
}

// Finish records the outcome and ends the span.
func (n *NodeSpan) Finish(skipped bool, err error) {
	if n == nil {
		return
	}
	if skipped {
		n.span.SetAttributes(KeySkipped.Bool(true))
	}
	if err != nil {
		n.span.RecordError(err)
		n.span.SetStatus(codes.Error, err.Error())
	} else {
		n.span.SetStatus(codes.Ok, "")
	}
	n.span.End()
}

// Current returns the span carried by ctx, if any; it need not be a node span.
func Current(ctx context.Context) (*NodeSpan, bool) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil, false
	}
	return &NodeSpan{span: span}, true
}
