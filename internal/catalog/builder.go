package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/finder/internal/finder"
	"github.com/roach88/finder/internal/ir"
	"github.com/roach88/finder/internal/logger"
	"github.com/roach88/finder/internal/queryir"
)

const instrumentationName = "github.com/roach88/finder/internal/catalog"

type compileFunc func(ir.MethodSignature, *ir.EntityMetadata) (*queryir.Query, error)

// Builder compiles repositories into a Result.
type Builder struct {
	compile compileFunc
	log     logger.Logger
	ids     IDGenerator

	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	tracer   trace.Tracer
	compiled metric.Int64Counter
	failed   metric.Int64Counter
}

// Option configures a Builder.
type Option func(*Builder)

func WithLogger(l logger.Logger) Option {
	return func(b *Builder) { b.log = l }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(b *Builder) { b.ids = g }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(b *Builder) { b.tracerProvider = tp }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(b *Builder) { b.meterProvider = mp }
}

// NewBuilder wraps a finder.Compiler. Without options the builder logs
// nothing and reports to the global OpenTelemetry providers.
func NewBuilder(c *finder.Compiler, opts ...Option) (*Builder, error) {
	if c == nil {
		return nil, errors.New("catalog: nil compiler")
	}

	b := &Builder{
		compile: c.Compile,
		log:     logger.NewTestLogger(),
		ids:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.tracerProvider == nil {
		b.tracerProvider = otel.GetTracerProvider()
	}
	if b.meterProvider == nil {
		b.meterProvider = otel.GetMeterProvider()
	}

	b.tracer = b.tracerProvider.Tracer(instrumentationName)
	meter := b.meterProvider.Meter(instrumentationName)

	var err error
	b.compiled, err = meter.Int64Counter("finder.methods.compiled",
		metric.WithDescription("Finder methods compiled into a plan"),
		metric.WithUnit("{method}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create compiled counter: %w", err)
	}
	b.failed, err = meter.Int64Counter("finder.methods.failed",
		metric.WithDescription("Finder methods rejected with a diagnostic"),
		metric.WithUnit("{method}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failed counter: %w", err)
	}

	return b, nil
}

// Build compiles every method of every repository against schema.
// Only context cancellation and schema hashing failures abort the run;
// per-method failures land in Result.Diagnostics.
func (b *Builder) Build(ctx context.Context, schema *ir.Schema, repositories []ir.Repository) (*Result, error) {
	if schema == nil {
		return nil, errors.New("catalog: nil schema")
	}

	schemaHash, err := ir.SchemaHash(schema)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	result := &Result{
		RunID:       b.ids.Generate(),
		SchemaHash:  schemaHash,
		Plans:       []Plan{},
		Diagnostics: []Diagnostic{},
	}

	ctx = context.WithValue(ctx, logger.ContextKeyRunID, result.RunID)
	ctx, span := b.tracer.Start(ctx, "catalog.Build", trace.WithAttributes(
		attribute.String("finder.run_id", result.RunID),
		attribute.Int("finder.repositories", len(repositories)),
	))
	defer span.End()

	log := b.log.WithContext(ctx)
	log.Info().Int("repositories", len(repositories)).Str("schema_hash", schemaHash).Msg("build started")

	for _, repo := range repositories {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, fmt.Errorf("catalog: build cancelled: %w", err)
		}

		entity, ok := schema.Entity(repo.Entity)
		if !ok {
			for _, m := range repo.Methods {
				b.record(ctx, result, nil, &Diagnostic{
					Repository: repo.Name,
					Method:     m.Name,
					Code:       CodeUnknownEntity,
					Severity:   SeverityError,
					Message:    fmt.Sprintf("unknown entity %q", repo.Entity),
				})
			}
			continue
		}

		for _, m := range repo.Methods {
			plan, diags := b.CompileMethod(ctx, repo.Name, m, entity)
			b.record(ctx, result, plan, diags...)
		}
	}

	span.SetAttributes(
		attribute.Int("finder.plans", len(result.Plans)),
		attribute.Int("finder.diagnostics", len(result.Diagnostics)),
	)
	if result.HasErrors() {
		span.SetStatus(codes.Error, "diagnostics reported")
	}
	log.Info().Int("plans", len(result.Plans)).Int("diagnostics", len(result.Diagnostics)).Msg("build finished")

	return result, nil
}

func (b *Builder) record(ctx context.Context, result *Result, plan *Plan, diags ...*Diagnostic) {
	log := b.log.WithContext(ctx)

	if plan != nil {
		result.Plans = append(result.Plans, *plan)
		b.compiled.Add(ctx, 1, metric.WithAttributes(attribute.String("finder.operation", string(plan.Query.Operation))))
		log.Debug().Str("repository", plan.Repository).Str("method", plan.Method).Str("hash", plan.Hash).Msg("compiled")
	}

	for _, d := range diags {
		if d == nil {
			continue
		}
		result.Diagnostics = append(result.Diagnostics, *d)
		if d.Severity == SeverityError {
			b.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("finder.code", d.Code)))
		}
		log.Warn().
			Str("repository", d.Repository).
			Str("method", d.Method).
			Str("code", d.Code).
			Str("severity", string(d.Severity)).
			Msg(d.Message)
	}
}

// CompileMethod compiles one method. It returns either a plan (possibly
// with warnings) or a single diagnostic explaining the failure.
func (b *Builder) CompileMethod(ctx context.Context, repository string, m ir.MethodSignature, entity *ir.EntityMetadata) (plan *Plan, diags []*Diagnostic) {
	_, span := b.tracer.Start(ctx, "catalog.CompileMethod", trace.WithAttributes(
		attribute.String("finder.repository", repository),
		attribute.String("finder.method", m.Name),
	))
	defer span.End()

	diagnose := func(code string, sev Severity, msg string) *Diagnostic {
		return &Diagnostic{Repository: repository, Method: m.Name, Code: code, Severity: sev, Message: msg}
	}

	defer func() {
		if r := recover(); r != nil {
			plan = nil
			diags = []*Diagnostic{diagnose(finder.ReasonInternal.Code(), SeverityError, fmt.Sprintf("internal compiler error: %v", r))}
			span.SetStatus(codes.Error, "panic")
		}
	}()

	q, err := b.compile(m, entity)
	if err != nil {
		if errors.Is(err, finder.ErrNoMatch) {
			return nil, []*Diagnostic{diagnose(finder.ReasonNoMatch.Code(), SeverityWarning, "not a finder method: "+messageOf(err))}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, []*Diagnostic{diagnose(codeOf(err), SeverityError, messageOf(err))}
	}

	if err := finder.CheckReturnType(q, m.ReturnType); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, []*Diagnostic{diagnose(codeOf(err), SeverityError, messageOf(err))}
	}

	hash, err := finder.PlanHash(q)
	if err != nil {
		return nil, []*Diagnostic{diagnose(finder.ReasonInternal.Code(), SeverityError, err.Error())}
	}

	if res := queryir.Validate(q, entity); !res.Valid {
		for _, p := range res.Problems {
			diags = append(diags, diagnose(CodeUnresolvedReference, SeverityWarning, p))
		}
	}

	return &Plan{Repository: repository, Method: m.Name, Query: q, Hash: hash}, diags
}

func codeOf(err error) string {
	var ce *finder.CompileError
	if errors.As(err, &ce) {
		return ce.Reason.Code()
	}
	return finder.ReasonInternal.Code()
}

// messageOf strips the code and method prefix a CompileError renders with.
func messageOf(err error) string {
	var ce *finder.CompileError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return strings.TrimSpace(err.Error())
}
