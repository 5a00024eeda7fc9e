package efatura

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/efatura-api/internal/domain"
	domefatura "github.com/jhoicas/efatura-api/internal/domain/efatura"
	"github.com/jhoicas/efatura-api/internal/domain/entity"
	"github.com/jhoicas/efatura-api/internal/domain/repository"
	infraefatura "github.com/jhoicas/efatura-api/internal/infrastructure/efatura"
	"github.com/jhoicas/efatura-api/pkg/logger"
)

// ImportRequest documento a descargar.
type ImportRequest struct {
	TenantID  string
	UUID      string
	Direction entity.Direction
	Category  entity.Category
}

// ImportResult Changed=false si el documento guardado ya era idéntico.
type ImportResult struct {
	UUID     string
	Number   string
	FileName string
	Changed  bool
	Invoice  *entity.RemoteInvoice
}

// ImportItem desenlace de un elemento de ImportBatch.
type ImportItem struct {
	UUID   string
	Result *ImportResult
	Err    error
}

// ImportReport resultado de una importación por lotes.
type ImportReport struct {
	Items     []ImportItem
	Imported  int
	Unchanged int
	Failed    int
	Skipped   int
	Remaining int // ids nuevos pendientes de una próxima llamada (ImportNew)
}

// DocumentService descarga documentos UBL del proveedor, los decodifica y los guarda en caché.
type DocumentService struct {
	remote
	store      repository.EInvoiceRepository
	codec      *infraefatura.DocumentCodec
	reconciler *Reconciler
	pdf        InvoicePDFRenderer
	batch      BatchOptions
	sleep      func(context.Context, time.Duration) error
	obs        Observer
	log        *logger.Logger
}

// NewDocumentService pdf puede ser nil (RenderPDF queda deshabilitado).
func NewDocumentService(
	provider infraefatura.Provider,
	accounts repository.ProviderAccountRepository,
	sessions *SessionManager,
	store repository.EInvoiceRepository,
	codec *infraefatura.DocumentCodec,
	reconciler *Reconciler,
	pdf InvoicePDFRenderer,
	batch BatchOptions,
	obs Observer,
	log *logger.Logger,
) *DocumentService {
	if codec == nil {
		codec = infraefatura.NewDocumentCodec()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentService{
		remote:     remote{provider: provider, accounts: accounts, sessions: sessions},
		store:      store,
		codec:      codec,
		reconciler: reconciler,
		pdf:        pdf,
		batch:      batch.normalized(),
		sleep:      sleepCtx,
		obs:        obs,
		log:        log.Component("efatura.documents"),
	}
}

// WithSleep reemplaza la pausa entre grupos (tests).
func (s *DocumentService) WithSleep(sleep func(context.Context, time.Duration) error) *DocumentService {
	s.sleep = sleep
	return s
}

// Import descarga, decodifica y guarda un documento. Un registro nuevo queda en DRAFT
// sin consultar, de modo que la reconciliación de pendientes lo recoge.
func (s *DocumentService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	id, err := domefatura.NormalizeUUID(req.UUID)
	if err != nil {
		return nil, err
	}
	dir, cat, err := withDefaults(req.Direction, req.Category)
	if err != nil {
		return nil, err
	}
	t, err := s.target(ctx, req.TenantID, cat)
	if err != nil {
		return nil, err
	}
	res, err := s.provider.DownloadInvoice(ctx, t, dir, id)
	if err != nil {
		s.obs.ObserveImport("error")
		return nil, err
	}
	if !res.Success {
		s.obs.ObserveImport("error")
		return nil, s.fail(ctx, req.TenantID, cat, res.Result, "DownloadInvoice")
	}

	doc, err := s.codec.DecodeDocument(res.BinaryData)
	if err != nil {
		s.obs.ObserveImport("decode_error")
		return nil, fmt.Errorf("documento %s: %w", id, err)
	}
	if doc.Invoice.UUID != "" && doc.Invoice.UUID != id {
		s.log.Warn().Str("tenant_id", req.TenantID).Str("uuid", id).Str("document_uuid", doc.Invoice.UUID).Msg("el UUID del documento no coincide con el solicitado")
	}

	changed, err := s.store.UpsertDocument(ctx, &entity.EInvoiceRecord{
		TenantID:     req.TenantID,
		UUID:         id,
		Number:       doc.Invoice.Number,
		Direction:    dir,
		Category:     cat,
		Document:     doc.Invoice,
		DocumentHash: doc.Hash,
	})
	if err != nil {
		s.obs.ObserveImport("error")
		return nil, fmt.Errorf("guardar documento %s: %w", id, err)
	}
	if changed {
		s.obs.ObserveImport("imported")
	} else {
		s.obs.ObserveImport("unchanged")
	}
	s.log.Info().Str("tenant_id", req.TenantID).Str("uuid", id).Str("number", doc.Invoice.Number).Bool("changed", changed).Msg("documento importado")

	return &ImportResult{
		UUID:     id,
		Number:   doc.Invoice.Number,
		FileName: firstSet(res.FileName, doc.FileName),
		Changed:  changed,
		Invoice:  doc.Invoice,
	}, nil
}

// ImportBatch importa varios documentos por grupos. Un documento que no se puede
// decodificar no afecta a los demás; ErrAuthentication detiene el lote.
func (s *DocumentService) ImportBatch(ctx context.Context, tenantID string, uuids []string, dir entity.Direction, cat entity.Category) (*ImportReport, error) {
	items := make([]ImportItem, len(uuids))
	processed, err := runGroups(ctx, len(uuids), s.batch, s.sleep, func(ctx context.Context, i int) error {
		res, err := s.Import(ctx, ImportRequest{TenantID: tenantID, UUID: uuids[i], Direction: dir, Category: cat})
		items[i] = ImportItem{UUID: uuids[i], Result: res, Err: err}
		if err != nil {
			s.log.Warn().Err(err).Str("tenant_id", tenantID).Str("uuid", uuids[i]).Msg("importación fallida")
			if errors.Is(err, domain.ErrAuthentication) {
				return err
			}
		}
		return nil
	})

	report := &ImportReport{Items: items[:processed], Skipped: len(uuids) - processed}
	for _, it := range report.Items {
		switch {
		case it.Err != nil:
			report.Failed++
		case it.Result.Changed:
			report.Imported++
		default:
			report.Unchanged++
		}
	}
	return report, err
}

// ImportNew descubre los ids que la caché no conoce e importa hasta MaxFetch de ellos.
func (s *DocumentService) ImportNew(ctx context.Context, req DiscoveryRequest) (*ImportReport, error) {
	if s.reconciler == nil {
		return nil, errors.New("importación: descubrimiento no configurado")
	}
	found, err := s.reconciler.ListNewInvoiceIDs(ctx, req)
	if err != nil {
		return nil, err
	}
	report, err := s.ImportBatch(ctx, req.TenantID, found.UUIDs, req.Direction, req.Category)
	if report != nil {
		report.Remaining = found.Remaining
	}
	return report, err
}

// Record registro en caché, con o sin documento; ErrNotFound si no existe.
func (s *DocumentService) Record(ctx context.Context, tenantID, uuid string) (*entity.EInvoiceRecord, error) {
	id, err := domefatura.NormalizeUUID(uuid)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("leer documento %s: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, id)
	}
	return rec, nil
}

// Document documento importado en caché; ErrNotFound si no existe o no se importó.
func (s *DocumentService) Document(ctx context.Context, tenantID, uuid string) (*entity.EInvoiceRecord, error) {
	rec, err := s.Record(ctx, tenantID, uuid)
	if err != nil {
		return nil, err
	}
	if rec.Document == nil {
		return nil, fmt.Errorf("%w: documento %s no importado", domain.ErrNotFound, rec.UUID)
	}
	return rec, nil
}

// RenderPDF representación gráfica del documento importado.
func (s *DocumentService) RenderPDF(ctx context.Context, tenantID, uuid string) ([]byte, error) {
	if s.pdf == nil {
		return nil, errors.New("generador de PDF no configurado")
	}
	rec, err := s.Document(ctx, tenantID, uuid)
	if err != nil {
		return nil, err
	}
	inv := rec.Document
	if inv.UUID == "" {
		inv.UUID = rec.UUID
	}
	return s.pdf.RenderInvoicePDF(ctx, inv)
}
