package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/meskel-dev/bethel-admin-api/internal/audit"
	"github.com/meskel-dev/bethel-admin-api/internal/dto"
	"github.com/meskel-dev/bethel-admin-api/internal/observability"
	"github.com/meskel-dev/bethel-admin-api/internal/repository"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the file is not an image.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UploadService validates avatar images, stores them and points the actor's
// profile at the new URL.
type UploadService interface {
	UploadAvatar(ctx context.Context, actor Actor, file *multipart.FileHeader) (dto.UploadResponse, error)
}

type uploadService struct {
	storage  FileStorage
	profiles repository.ProfileRepository
	activity ActivityRecorder
	logger   zerolog.Logger
	maxSize  int64
	tracer   trace.Tracer
}

// NewUploadService constructs an upload service.
func NewUploadService(storage FileStorage, profiles repository.ProfileRepository, activity ActivityRecorder, maxSizeMB int, logger zerolog.Logger) UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &uploadService{
		storage:  storage,
		profiles: profiles,
		activity: activity,
		logger:   logger.With().Str("component", "upload_service").Logger(),
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		tracer:   otel.Tracer("github.com/meskel-dev/bethel-admin-api/internal/service/upload"),
	}
}

func (s *uploadService) UploadAvatar(ctx context.Context, actor Actor, file *multipart.FileHeader) (dto.UploadResponse, error) {
	ctx, span := s.tracer.Start(ctx, "upload.avatar")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.UploadResponse{}, err
	}

	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return dto.UploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return dto.UploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.UploadResponse{}, ErrUploadTooLarge
	}

	// Avatars are images only; the detected type wins over the extension.
	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !strings.HasPrefix(mime.String(), "image/") {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.UploadResponse{}, ErrUploadTypeNotAllowed
	}

	name := avatarFileName(actor.ID, file.Filename)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return dto.UploadResponse{}, err
	}

	if _, err := s.profiles.Update(ctx, actor.ID, map[string]any{"avatar_url": url}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return dto.UploadResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		Action:     audit.ActionUpload,
		EntityType: audit.EntityProfile,
		EntityID:   &actor.ID,
		Details:    "Updated profile photo",
	})

	observability.UploadRequests().WithLabelValues("image").Inc()
	span.SetStatus(codes.Ok, "stored")

	return dto.UploadResponse{URL: url}, nil
}

func avatarFileName(actorID uint, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".png"
	}
	return fmt.Sprintf("avatar-%d-%d%s", actorID, time.Now().Unix(), ext)
}
