package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"stickershop/internal/domain"
	"stickershop/internal/logging"
)

// FileStore persists uploaded artwork and returns where it landed.
type FileStore interface {
	Save(ctx context.Context, at time.Time, originalName string, data []byte) (string, error)
}

// Repository records accepted orders.
type Repository interface {
	Insert(ctx context.Context, o domain.Order) (string, error)
}

// Notifier tells the shop operator about a new order.
type Notifier interface {
	Notify(ctx context.Context, o domain.Order) (string, error)
}

// Upload is the artwork part of a submission.
type Upload struct {
	FileInfo
	Open func() (io.ReadCloser, error)
}

// Result is the outcome of an accepted submission. Persistence and Email
// never turn an accepted order into a failure.
type Result struct {
	Order       domain.Order
	Persistence domain.StepResult
	Email       domain.StepResult
}

// Options tune the intake workflow.
type Options struct {
	RequireEmail bool
}

// Service runs the order intake workflow.
type Service struct {
	files    FileStore
	repo     Repository
	notifier Notifier
	opts     Options
	logger   *zap.Logger

	now   func() time.Time
	newID func(time.Time) string
}

// New wires the intake workflow. repo and notifier may be nil, in which case
// the matching step is reported as skipped.
func New(files FileStore, repo Repository, notifier Notifier, opts Options, logger *zap.Logger) *Service {
	return &Service{
		files:    files,
		repo:     repo,
		notifier: notifier,
		opts:     opts,
		logger:   logging.OrNop(logger),
		now:      time.Now,
		newID:    NewOrderID,
	}
}

// Submit validates the submission, stores the artwork and builds the order.
// Persistence and notification are attempted afterwards and reported in the
// Result. A *domain.ValidationError means nothing was written.
func (s *Service) Submit(ctx context.Context, in Fields, upload *Upload) (*Result, error) {
	var info *FileInfo
	if upload != nil {
		info = &upload.FileInfo
	}
	spec, err := Validate(in, info, ValidateOptions{RequireEmail: s.opts.RequireEmail})
	if err != nil {
		return nil, err
	}
	// Accepted input is carried through even if the client goes away.
	ctx = context.WithoutCancel(ctx)

	data, err := readUpload(upload)
	if err != nil {
		return nil, err
	}

	now := s.now()
	path, err := s.files.Save(ctx, now, upload.Name, data)
	if err != nil {
		return nil, fmt.Errorf("store artwork: %w", err)
	}

	o := domain.NewOrder(spec, domain.Artwork{
		FileName:     upload.Name,
		FileSize:     upload.Size,
		ContentType:  upload.ContentType,
		DetectedType: mimetype.Detect(data).String(),
		Path:         path,
	}, s.newID(now), now)
	s.logger.Info("order accepted",
		zap.String("order_id", o.OrderID),
		zap.String("shape", string(o.Shape)),
		zap.Int("quantity", o.Quantity),
		zap.String("artwork", path))

	res := &Result{Order: o}
	res.Persistence = s.persist(ctx, o)
	res.Email = s.notify(ctx, o)
	return res, nil
}

func (s *Service) persist(ctx context.Context, o domain.Order) domain.StepResult {
	if s.repo == nil {
		return domain.Skipped("order database is not configured")
	}
	id, err := s.repo.Insert(ctx, o)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return domain.Skipped(err.Error())
	case err != nil:
		s.logger.Error("order not persisted", zap.String("order_id", o.OrderID), zap.Error(err))
		return domain.Failed(err.Error())
	}
	s.logger.Info("order persisted", zap.String("order_id", o.OrderID), zap.String("persistence_id", id))
	return domain.Succeeded(id)
}

func (s *Service) notify(ctx context.Context, o domain.Order) domain.StepResult {
	if s.notifier == nil {
		return domain.Skipped("email transporter not available, SMTP is not configured")
	}
	id, err := s.notifier.Notify(ctx, o)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		s.logger.Warn("order email skipped", zap.String("order_id", o.OrderID), zap.Error(err))
		return domain.Skipped(err.Error())
	case err != nil:
		s.logger.Error("order email failed", zap.String("order_id", o.OrderID), zap.Error(err))
		return domain.Failed(err.Error())
	}
	return domain.Succeeded(id)
}

func readUpload(u *Upload) ([]byte, error) {
	if u.Open == nil {
		return nil, errors.New("upload has no content")
	}
	rc, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}
