package documents

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/louisbranch/gradpack/internal/docx"
	apperrors "github.com/louisbranch/gradpack/internal/platform/errors"
	platformotel "github.com/louisbranch/gradpack/internal/platform/otel"
	"github.com/louisbranch/gradpack/internal/templates"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/louisbranch/gradpack/internal/documents"

// Kind identifies a generated document.
type Kind string

const (
	KindStartOrder              Kind = "start_order"
	KindGraduationOrder         Kind = "graduation_order"
	KindProtocol                Kind = "protocol"
	KindCertificate             Kind = "certificate"
	KindBlueTractorCertificate  Kind = "tractor_certificate_blue"
	KindGreenTractorCertificate Kind = "tractor_certificate_green"
	KindConfirmationPage        Kind = "confirmation_page"
	KindLabourProtection        Kind = "labour_protection"
)

// Document is one generated file of a batch.
type Document struct {
	Kind     Kind
	FileName string
	Title    string
	Package  *docx.Package
}

// Batch is the result of one generation. Warnings holds the non-blocking
// problems of the request.
type Batch struct {
	ID        string
	Documents []Document
	Warnings  Problems
}

type docInfo struct {
	kind     Kind
	fileName string
	title    string
}

// docInfos lists the documents in the order they are shown and archived.
var docInfos = []docInfo{
	{kind: KindStartOrder, fileName: "Приказ о начале.docx", title: "Приказ о начале"},
	{kind: KindGraduationOrder, fileName: "Приказ о выпуске.docx", title: "Приказ об окончании"},
	{kind: KindProtocol, fileName: "Протокол.docx", title: "Протокол"},
	{kind: KindCertificate, fileName: "Свидетельство.docx", title: "Свидетельство"},
	{kind: KindBlueTractorCertificate, fileName: "Свидетельство синее трактор.docx", title: "Свидетельство тракторов синее"},
	{kind: KindGreenTractorCertificate, fileName: "Свидетельство зеленое трактор.docx", title: "Свидетельство тракторов зеленое"},
	{kind: KindConfirmationPage, fileName: "Удостоверение.docx", title: "Удостоверение"},
	{kind: KindLabourProtection, fileName: "Свидетельство охрана труда.docx", title: "Свидетельство охрана труда"},
}

// Kinds returns every document kind in batch order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(docInfos))
	for _, s := range docInfos {
		out = append(out, s.kind)
	}
	return out
}

// Generator builds document batches.
type Generator struct {
	builder *Builder
	tracer  trace.Tracer
	logger  *log.Logger
}

// NewGenerator returns a generator reading templates from src.
func NewGenerator(src templates.Source, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		builder: NewBuilder(src),
		tracer:  platformotel.Tracer(tracerName),
		logger:  logger,
	}
}

// Generate validates req and builds every document. Blocking validation
// problems are returned as Problems; a missing student list only lands in
// Batch.Warnings.
func (g *Generator) Generate(ctx context.Context, req Request) (Batch, error) {
	problems := req.Validate()
	if blocking := problems.Blocking(); len(blocking) > 0 {
		return Batch{}, blocking
	}

	batch := Batch{ID: uuid.NewString(), Warnings: problems}
	ctx, span := g.tracer.Start(ctx, "documents.Generate", trace.WithAttributes(
		attribute.String("batch.id", batch.ID),
		attribute.Int("batch.students", len(req.Students)),
	))
	defer span.End()

	values := req.Values()
	built := map[Kind]*docx.Package{}
	build := func(kind Kind, fn func() (*docx.Package, error)) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, child := g.tracer.Start(ctx, "documents.Build", trace.WithAttributes(attribute.String("document.kind", string(kind))))
		defer child.End()
		pkg, err := fn()
		if err != nil {
			child.RecordError(err)
			child.SetStatus(codes.Error, err.Error())
			return buildError(kind, err)
		}
		built[kind] = pkg
		return nil
	}
	builder := g.builder
	students := req.Students
	steps := []struct {
		kind Kind
		fn   func() (*docx.Package, error)
	}{
		{KindStartOrder, func() (*docx.Package, error) { return builder.StartOrder(values, students) }},
		{KindGraduationOrder, func() (*docx.Package, error) { return builder.GraduationOrder(values, students) }},
		{KindProtocol, func() (*docx.Package, error) { return builder.Protocol(values, students) }},
		{KindCertificate, func() (*docx.Package, error) { return builder.Certificate(values, students) }},
		{KindConfirmationPage, func() (*docx.Package, error) { return builder.ConfirmationPage(values, students) }},
		{KindLabourProtection, func() (*docx.Package, error) { return builder.LabourProtection(values, students) }},
	}
	for _, step := range steps {
		if err := build(step.kind, step.fn); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return Batch{}, err
		}
	}
	var green *docx.Package
	err := build(KindBlueTractorCertificate, func() (*docx.Package, error) {
		blue, tractor, err := builder.TractorCertificates(values, students)
		green = tractor
		return blue, err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Batch{}, err
	}
	built[KindGreenTractorCertificate] = green

	for _, s := range docInfos {
		batch.Documents = append(batch.Documents, Document{
			Kind:     s.kind,
			FileName: s.fileName,
			Title:    s.title,
			Package:  built[s.kind],
		})
	}
	g.logger.Printf("batch=%s students=%d documents=%d warnings=%d", batch.ID, len(students), len(batch.Documents), len(batch.Warnings))
	return batch, nil
}

func buildError(kind Kind, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	code := apperrors.CodeGenerationFailed
	if errors.Is(err, templates.ErrNotFound) {
		code = apperrors.CodeTemplateUnavailable
	}
	metadata := map[string]string{"Document": string(kind), "Template": string(kind)}
	return apperrors.WrapWithMetadata(code, fmt.Sprintf("build %s: %v", kind, err), metadata, err)
}
