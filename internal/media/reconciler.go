package media

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/metrics"
)

const defaultUploadConcurrency = 4

// Cleanup reasons attached to queued deletes.
const (
	ReasonReconcile     = "reconcile"
	ReasonProductDelete = "product_delete"
	ReasonAvatarReplace = "avatar_replace"
	ReasonUploadAbort   = "upload_abort"
)

// ReconcilerParams wires the reconciler. Queue and Metrics are optional.
type ReconcilerParams struct {
	Store             ImageStore
	Queue             CleanupQueue
	Metrics           *metrics.ImageMetrics
	Logger            *logger.Logger
	Folder            string
	MaxUploadBytes    int64
	UploadConcurrency int
}

// ImageReconciler applies image plans against blob storage.
type ImageReconciler struct {
	store       ImageStore
	queue       CleanupQueue
	metrics     *metrics.ImageMetrics
	logg        *logger.Logger
	folder      string
	maxBytes    int64
	concurrency int
}

// ReconcileResult describes what a reconciliation did.
type ReconcileResult struct {
	Images        []string
	Uploaded      []string
	Deleted       []string
	FailedDeletes []string
}

func NewImageReconciler(p ReconcilerParams) (*ImageReconciler, error) {
	if p.Store == nil {
		return nil, errors.New("image store is required")
	}
	if p.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if p.Folder == "" {
		return nil, errors.New("upload folder is required")
	}
	concurrency := p.UploadConcurrency
	if concurrency <= 0 {
		concurrency = defaultUploadConcurrency
	}
	return &ImageReconciler{
		store:       p.Store,
		queue:       p.Queue,
		metrics:     p.Metrics,
		logg:        p.Logger,
		folder:      p.Folder,
		maxBytes:    p.MaxUploadBytes,
		concurrency: concurrency,
	}, nil
}

// Reconcile moves a product from existing to requested images. Uploads and deletes
// run concurrently. Any upload failure fails the call with a storage error and no
// new URLs are returned; deletes that already completed are not undone. Delete
// failures are logged and queued for cleanup without failing the call.
func (r *ImageReconciler) Reconcile(ctx context.Context, productID string, existing, requested []string) (ReconcileResult, error) {
	plan, err := PlanImageChanges(existing, requested)
	if err != nil {
		return ReconcileResult{}, err
	}
	if plan.Unchanged {
		return ReconcileResult{Images: plan.Kept}, nil
	}

	decoded, err := r.decodeAll(plan.ToUpload)
	if err != nil {
		return ReconcileResult{}, err
	}

	start := time.Now()
	var (
		uploaded       []string
		deleted        []string
		failed         []string
		uploadErr      error
		deleteFailures error
	)

	var g errgroup.Group
	g.Go(func() error {
		deleted, failed, deleteFailures = r.deleteURLs(ctx, plan.ToDelete)
		return nil
	})
	g.Go(func() error {
		uploaded, uploadErr = r.uploadImages(ctx, r.folder, decoded)
		return nil
	})
	_ = g.Wait()

	if len(failed) > 0 {
		r.handleDeleteFailures(ctx, ReasonReconcile, productID, failed, deleteFailures)
	}

	result := ReconcileResult{Deleted: deleted, FailedDeletes: failed}
	if uploadErr != nil {
		r.metrics.ObserveReconcile(metrics.ResultFailure, time.Since(start))
		return result, uploadErr
	}

	r.metrics.ObserveReconcile(metrics.ResultSuccess, time.Since(start))
	result.Uploaded = uploaded
	result.Images = plan.Final(uploaded)
	return result, nil
}

// UploadAll decodes and uploads inline images into folder, returning URLs in input
// order. Every entry must be a data:image URI. On failure, blobs already uploaded by
// this call are removed.
func (r *ImageReconciler) UploadAll(ctx context.Context, folder string, sources []string) ([]string, error) {
	for i, src := range sources {
		if !IsInlineImage(src) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "new images must be data:image URIs").
				WithDetails(map[string]any{"field": "images", "index": i})
		}
	}
	decoded, err := r.decodeAll(sources)
	if err != nil {
		return nil, err
	}
	if folder == "" {
		folder = r.folder
	}
	return r.uploadImages(ctx, folder, decoded)
}

// DeleteAll removes every URL, best effort. Failures are logged, queued for cleanup
// and returned aggregated so callers can decide whether to surface them.
func (r *ImageReconciler) DeleteAll(ctx context.Context, reason, productID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	_, failed, err := r.deleteURLs(ctx, urls)
	if len(failed) > 0 {
		r.handleDeleteFailures(ctx, reason, productID, failed, err)
	}
	return err
}

func (r *ImageReconciler) decodeAll(sources []string) ([]*InlineImage, error) {
	out := make([]*InlineImage, len(sources))
	for i, src := range sources {
		img, err := DecodeDataURI(src, r.maxBytes)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Details() == nil {
				typed.WithDetails(map[string]any{"field": "images", "index": i})
			}
			return nil, err
		}
		out[i] = img
	}
	return out, nil
}

func (r *ImageReconciler) uploadImages(ctx context.Context, folder string, images []*InlineImage) ([]string, error) {
	if len(images) == 0 {
		return []string{}, nil
	}

	urls := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, img := range images {
		g.Go(func() error {
			url, err := r.store.Upload(gctx, folder, img)
			if err != nil {
				r.metrics.IncOperation(metrics.OpUpload, metrics.ResultFailure)
				return err
			}
			r.metrics.IncOperation(metrics.OpUpload, metrics.ResultSuccess)
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var orphans []string
		for _, u := range urls {
			if u != "" {
				orphans = append(orphans, u)
			}
		}
		if len(orphans) > 0 {
			_ = r.DeleteAll(context.WithoutCancel(ctx), ReasonUploadAbort, "", orphans)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "image upload failed")
	}
	return urls, nil
}

func (r *ImageReconciler) deleteURLs(ctx context.Context, urls []string) (deleted, failed []string, errs error) {
	if len(urls) == 0 {
		return []string{}, nil, nil
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, u := range urls {
		g.Go(func() error {
			err := r.store.Delete(ctx, u)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.metrics.IncOperation(metrics.OpDelete, metrics.ResultFailure)
				failed = append(failed, u)
				errs = multierr.Append(errs, err)
				return nil
			}
			r.metrics.IncOperation(metrics.OpDelete, metrics.ResultSuccess)
			deleted = append(deleted, u)
			return nil
		})
	}
	_ = g.Wait()
	return deleted, failed, errs
}

func (r *ImageReconciler) handleDeleteFailures(ctx context.Context, reason, productID string, failed []string, cause error) {
	logCtx := r.logg.WithFields(ctx, map[string]any{
		"reason":      reason,
		"failed_urls": failed,
		"failures":    len(multierr.Errors(cause)),
	})
	if productID != "" {
		logCtx = r.logg.WithProductID(logCtx, productID)
	}
	r.logg.Error(logCtx, "image.delete_failed", cause)

	if r.queue == nil {
		return
	}
	req := CleanupRequest{URLs: failed, Reason: reason, ProductID: productID, RequestedAt: time.Now().UTC()}
	if err := r.queue.Enqueue(context.WithoutCancel(ctx), req); err != nil {
		r.metrics.IncCleanup("enqueue_failed")
		r.logg.Error(logCtx, "image.cleanup_enqueue_failed", err)
		return
	}
	r.metrics.IncCleanup("enqueued")
}
