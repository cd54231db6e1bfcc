package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/codigix/passion-clothing-sub009/internal/infra"
	"github.com/codigix/passion-clothing-sub009/internal/repository"
)

// DocumentWorker renders the credit note PDF off the request path and stores
// the resulting file name on the credit note row.
type DocumentWorker struct {
	creditNotes repository.CreditNoteRepository
	vendors     repository.VendorRepository
	storagePath string
	companyName string
}

func NewDocumentWorker(creditNotes repository.CreditNoteRepository, vendors repository.VendorRepository, storagePath, companyName string) *DocumentWorker {
	return &DocumentWorker{
		creditNotes: creditNotes,
		vendors:     vendors,
		storagePath: storagePath,
		companyName: companyName,
	}
}

type documentJobPayload struct {
	CreditNoteID string `json:"credit_note_id"`
}

// Handle processes one document rendering job.
func (w *DocumentWorker) Handle(ctx context.Context, raw json.RawMessage) error {
	var payload documentJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("document: malformed payload, dropping")
		return nil
	}
	id, err := uuid.Parse(payload.CreditNoteID)
	if err != nil {
		log.Error().Str("credit_note_id", payload.CreditNoteID).Msg("document: invalid credit note id, dropping")
		return nil
	}

	cn, err := w.creditNotes.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("document: load credit note %s: %w", id, err)
	}

	vendorName := ""
	if v, err := w.vendors.FindByID(ctx, cn.VendorID); err == nil {
		vendorName = v.Name
	}

	fileName, err := infra.GenerateCreditNotePDF(cn, w.companyName, vendorName, w.storagePath)
	if err != nil {
		return fmt.Errorf("document: render %s: %w", cn.CreditNoteNumber, err)
	}

	if err := w.creditNotes.UpdateDocumentPath(ctx, id, fileName); err != nil {
		return fmt.Errorf("document: store path for %s: %w", cn.CreditNoteNumber, err)
	}

	log.Info().
		Str("credit_note", cn.CreditNoteNumber).
		Str("file", fileName).
		Msg("document: credit note PDF generated")
	return nil
}
