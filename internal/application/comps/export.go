package comps

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/compsred/comps-engine/internal/domain/deck"
	"github.com/compsred/comps-engine/internal/infrastructure/messaging/kafka"
	"github.com/compsred/comps-engine/internal/infrastructure/monitoring/logging"
	"github.com/compsred/comps-engine/internal/infrastructure/storage/minio"
	"github.com/compsred/comps-engine/pkg/errors"
	proptypes "github.com/compsred/comps-engine/pkg/types/property"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

const (
	reportTitle      = "COMPS.RED - Comparable Analysis Report"
	reportType       = "COMPS.RED Comparable Analysis"
	reportAnalyst    = "COMPS.RED Platform"
	reportDisclaimer = "This analysis is for informational purposes only. " +
		"Consult with a real estate professional for investment decisions."
)

// ExportService renders a deck with its analysis into a downloadable report.
type ExportService interface {
	ExportDeck(ctx context.Context, deckID, format string) (*ExportResult, error)
}

// ExportResult describes the stored report object.
type ExportResult struct {
	DeckID      string    `json:"deck_id"`
	Format      string    `json:"format"`
	Bucket      string    `json:"bucket"`
	ObjectKey   string    `json:"object_key"`
	SizeBytes   int64     `json:"size_bytes"`
	DownloadURL string    `json:"download_url,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

type exportService struct {
	decks   DeckStore
	storage minio.ObjectStorageRepository
	bucket  string
	events  EventPublisher
	logger  logging.Logger
	now     func() time.Time
}

// NewExportService wires the deck export service. bucket is the object
// storage bucket exports land in; events may be nil.
func NewExportService(
	decks DeckStore,
	storage minio.ObjectStorageRepository,
	bucket string,
	events EventPublisher,
	logger logging.Logger,
) ExportService {
	return &exportService{
		decks:   decks,
		storage: storage,
		bucket:  bucket,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// ExportDeck builds the report, uploads it, and returns a presigned
// download link. The deck must have a master card and a stored analysis is
// not required: the analysis section renders from the persisted snapshot
// when present.
func (s *exportService) ExportDeck(ctx context.Context, deckID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatCSV && format != FormatJSON {
		return nil, errors.Validation(fmt.Sprintf("unsupported export format %q", format))
	}

	rec, err := s.decks.FindByID(ctx, deckID)
	if err != nil {
		return nil, err
	}
	if len(rec.Cards) == 0 {
		return nil, errors.New(errors.ErrCodeDeckEmpty, fmt.Sprintf("deck %s has no cards", deckID))
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case FormatCSV:
		data = []byte(buildCSVReport(rec.Cards, rec.Analysis))
		contentType = "text/csv"
	case FormatJSON:
		data, err = buildJSONReport(rec.Cards, rec.Analysis, s.now())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDeckExportError, "failed to render export")
		}
		contentType = "application/json"
	}

	exportedAt := s.now().UTC()
	objectKey := fmt.Sprintf("decks/%s/%s.%s", deckID, exportedAt.Format("20060102T150405Z"), format)

	if _, err := s.storage.Upload(ctx, &minio.UploadRequest{
		Bucket:      s.bucket,
		ObjectKey:   objectKey,
		Data:        data,
		ContentType: contentType,
		Metadata:    map[string]string{"deck-id": deckID, "format": format},
		Tags:        map[string]string{"format": format},
	}); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDeckExportError, "failed to store export")
	}

	url, err := s.storage.GetPresignedDownloadURL(ctx, s.bucket, objectKey, 0)
	if err != nil {
		s.logger.Warn("failed to presign export URL",
			logging.String("deck_id", deckID), logging.String("object_key", objectKey), logging.Err(err))
		url = ""
	}

	s.publishExported(ctx, kafka.ReportExportedPayload{
		DeckID:     deckID,
		Format:     format,
		Bucket:     s.bucket,
		ObjectKey:  objectKey,
		SizeBytes:  int64(len(data)),
		ExportedAt: exportedAt,
	})

	s.logger.Info("deck exported",
		logging.String("deck_id", deckID),
		logging.String("format", format),
		logging.String("object_key", objectKey),
		logging.Int("bytes", len(data)))
	return &ExportResult{
		DeckID:      deckID,
		Format:      format,
		Bucket:      s.bucket,
		ObjectKey:   objectKey,
		SizeBytes:   int64(len(data)),
		DownloadURL: url,
		ExportedAt:  exportedAt,
	}, nil
}

func (s *exportService) publishExported(ctx context.Context, payload kafka.ReportExportedPayload) {
	if s.events == nil {
		return
	}
	env, err := kafka.NewEventEnvelope(kafka.TopicReportExported, eventSource, payload)
	if err != nil {
		s.logger.Error("failed to build export event", logging.Err(err))
		return
	}
	msg, err := env.ToMessage(kafka.TopicReportExported)
	if err != nil {
		s.logger.Error("failed to build export message", logging.Err(err))
		return
	}
	if err := s.events.Publish(ctx, msg); err != nil {
		s.logger.Warn("failed to publish export event", logging.Err(err))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Report rendering
// ─────────────────────────────────────────────────────────────────────────────

// buildCSVReport renders the tabular report: subject row, one row per
// comparable with its score and price differences, then the analysis
// summary block.
func buildCSVReport(cards []*deck.Card, analysis *proptypes.DeckAnalysis) string {
	var b strings.Builder
	b.WriteString(reportTitle + "\n\n")

	b.WriteString("SUBJECT PROPERTY\n")
	if subject := masterCard(cards); subject != nil {
		b.WriteString(propertyCSVRow("SUBJECT", subject.Data) + "\n\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString("COMPARABLE PROPERTIES\n")
	b.WriteString("Type,Address,Price,$/SqFt,Beds,Baths,SqFt,Year,Days on Market,Comp Score,Price Diff,Price Diff %\n")
	for _, card := range cards {
		if card.IsMaster {
			continue
		}
		row := propertyCSVRow(card.Label, card.Data)
		if cmp := card.Comparison; cmp != nil {
			row += fmt.Sprintf(",%d%%,%d,%s%%",
				cmp.ComparabilityScore, cmp.PriceDiff, formatFloat(cmp.PriceDiffPercent))
		}
		b.WriteString(row + "\n")
	}

	if analysis != nil {
		b.WriteString("\n\nANALYSIS SUMMARY\n")
		suggested := "n/a"
		if analysis.Summary.SuggestedValue != nil {
			suggested = fmt.Sprintf("$%d", *analysis.Summary.SuggestedValue)
		}
		b.WriteString("Suggested Value:," + suggested + "\n")
		b.WriteString(fmt.Sprintf("Average Comp Price:,$%d\n", int64(math.Round(analysis.Summary.AveragePrice))))
		b.WriteString(fmt.Sprintf("Average $/SqFt:,$%d\n", int64(math.Round(analysis.Summary.AveragePricePerSqft))))
		b.WriteString(fmt.Sprintf("Market Trend:,%s\n", analysis.MarketInsights.MarketTrend))
	}
	return b.String()
}

func propertyCSVRow(label string, p *proptypes.PropertyRecord) string {
	return fmt.Sprintf("%s,%q,%d,%d,%d,%s,%d,%d,%d",
		label, p.Address, p.Price, p.PricePerSqft, p.Beds,
		formatFloat(p.Baths), p.Sqft, p.YearBuilt, p.DaysOnMarket)
}

func masterCard(cards []*deck.Card) *deck.Card {
	for _, c := range cards {
		if c.IsMaster {
			return c
		}
	}
	return nil
}

// formatFloat renders a float the way a spreadsheet expects: no exponent,
// no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// exportPayload is the JSON report shape.
type exportPayload struct {
	DeckInfo    exportDeckInfo          `json:"deckInfo"`
	Subject     *deck.Card              `json:"subject"`
	Comparables []*deck.Card            `json:"comparables"`
	Analysis    *proptypes.DeckAnalysis `json:"analysis,omitempty"`
	Disclaimer  string                  `json:"disclaimer"`
}

type exportDeckInfo struct {
	Type    string `json:"type"`
	Created string `json:"created"`
	Analyst string `json:"analyst"`
}

func buildJSONReport(cards []*deck.Card, analysis *proptypes.DeckAnalysis, now time.Time) ([]byte, error) {
	payload := exportPayload{
		DeckInfo: exportDeckInfo{
			Type:    reportType,
			Created: now.UTC().Format(time.RFC3339),
			Analyst: reportAnalyst,
		},
		Subject:    masterCard(cards),
		Analysis:   analysis,
		Disclaimer: reportDisclaimer,
	}
	for _, c := range cards {
		if !c.IsMaster {
			payload.Comparables = append(payload.Comparables, c)
		}
	}
	return json.MarshalIndent(payload, "", "  ")
}

//Personal.AI order the ending
