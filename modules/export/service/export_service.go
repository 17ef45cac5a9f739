package service

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"time"

	"meetsync/core/config"
	"meetsync/core/errors"
	"meetsync/core/logger"
	"meetsync/core/utils"
	availEntity "meetsync/modules/availability/entity"
	availService "meetsync/modules/availability/service"
	"meetsync/modules/export/dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gosimple/slug"
)

// ObjectStore persists rendered exports for sharing.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type ExportService interface {
	ExportSlots(ctx context.Context, req *dto.ExportSlotsRequest) (*dto.ExportSlotsResponse, *errors.AppError)
}

type exportService struct {
	store ObjectStore
}

// NewExportService creates the service. store may be nil; exports are then
// render-only.
func NewExportService(store ObjectStore) ExportService {
	return &exportService{store: store}
}

// ExportSlots renders the day blocks as plain text and optionally uploads
// the result. Days are ordered by date regardless of request order.
func (s *exportService) ExportSlots(ctx context.Context, req *dto.ExportSlotsRequest) (*dto.ExportSlotsResponse, *errors.AppError) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if len(req.Days) == 0 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "days is required", nil)
	}

	type dayBlock struct {
		date  time.Time
		slots []availEntity.MergedDisplaySlot
	}
	blocks := make([]dayBlock, 0, len(req.Days))
	for _, day := range req.Days {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "day date must be YYYY-MM-DD: "+day.Date, err)
		}
		slots := make([]availEntity.MergedDisplaySlot, 0, len(day.Slots))
		for _, slot := range day.Slots {
			slots = append(slots, availEntity.MergedDisplaySlot{
				Start:         slot.Start,
				End:           slot.End,
				DurationLabel: slot.DurationLabel,
			})
		}
		blocks = append(blocks, dayBlock{date: date, slots: slots})
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].date.Before(blocks[j].date) })

	var b strings.Builder
	for i, block := range blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(availService.RenderDayExport(block.date, block.slots))
	}
	text := b.String()

	resp := &dto.ExportSlotsResponse{Text: text}
	if !req.Store {
		return resp, nil
	}
	if s.store == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Export storage is not configured", nil)
	}

	key := "exports/" + slug.Make(req.Title) + "-" + utils.GenerateID() + ".txt"
	if err := s.store.Put(ctx, key, []byte(text), "text/plain; charset=utf-8"); err != nil {
		logger.Error("ExportService:ExportSlots:Put", "key", key, "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to store export", err)
	}

	logger.Info("ExportService:ExportSlots:Stored", "key", key, "days", len(blocks))
	resp.ObjectKey = key
	return resp, nil
}

// ========== S3 store ==========

type s3Store struct {
	client *s3.Client
	bucket string
}

// NewS3Store builds the S3-backed object store from static credentials.
func NewS3Store(cfg config.AWSConfig) ObjectStore {
	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	}
	return &s3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.ExportBucket,
	}
}

func (s *s3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	return err
}
