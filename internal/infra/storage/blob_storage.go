// Package storage keeps uploaded images in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/util"

	"github.com/labstack/gommon/bytes"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	_ "gocloud.dev/blob/s3blob"   // s3:// buckets
	"gocloud.dev/gcerrors"
)

const memBucketURL = "mem://"

// blobStorage maps logical buckets (product-images, category-images) to key
// prefixes inside one physical bucket.
type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	maxSize       int64
	logger        *slog.Logger
}

// NewBlobStorage wraps an opened bucket. maxSize of zero disables the size check.
func NewBlobStorage(bucket *blob.Bucket, publicBaseURL string, maxSize int64, logger *slog.Logger) service.ImageStorage {
	return &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize:       maxSize,
		logger:        logger,
	}
}

func (s *blobStorage) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// Upload writes data and returns the URL it is served from.
func (s *blobStorage) Upload(ctx context.Context, bucket, objectPath, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domainerrors.ErrValidationFailed.WrapMessage("empty image upload")
	}
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", domainerrors.ErrValidationFailed.WithDetails(
			"image is " + util.FormatBytes(int64(len(data))) + ", limit is " + util.FormatBytes(s.maxSize),
		)
	}

	key := objectKey(bucket, objectPath)
	checksum := util.Checksum(data)

	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"sha256": checksum},
	}); err != nil {
		return "", errors.Wrap(domainerrors.ErrImageUploadFailed, err.Error())
	}

	s.log(ctx).Info("Image uploaded",
		slog.String("key", key),
		slog.String("size", util.FormatBytes(int64(len(data)))),
		slog.String("sha256", checksum),
	)

	return s.publicURL(key), nil
}

// Delete removes an object, ignoring objects that are already gone.
func (s *blobStorage) Delete(ctx context.Context, bucket, objectPath string) error {
	key := objectKey(bucket, objectPath)

	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}

func (s *blobStorage) publicURL(key string) string {
	if s.publicBaseURL == "" {
		return "/" + key
	}

	return s.publicBaseURL + "/" + key
}

func objectKey(bucket, objectPath string) string {
	return path.Join(bucket, strings.TrimLeft(objectPath, "/"))
}

// Params defines the dependencies of the storage module.
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
// Without a bucket URL images are kept in memory, which only suits development.
func New(params Params) (service.ImageStorage, error) {
	cfg := params.Config.Storage
	if cfg == nil {
		cfg = &config.StorageConfig{}
	}

	bucketURL := cfg.BucketURL
	if bucketURL == "" {
		params.Logger.Warn("storage.bucketUrl not set, keeping uploaded images in memory")
		bucketURL = memBucketURL
	}

	var maxSize int64
	if cfg.MaxImageSize != "" {
		parsed, err := bytes.Parse(cfg.MaxImageSize)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid storage.maxImageSize %q", cfg.MaxImageSize)
		}
		maxSize = parsed
	}

	bucket, err := blob.OpenBucket(context.Background(), bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	params.Logger.Info("Image storage ready",
		slog.String("bucket", bucketURL),
		slog.String("max_image_size", util.FormatBytes(maxSize)),
	)

	return NewBlobStorage(bucket, cfg.PublicBaseURL, maxSize, params.Logger), nil
}
