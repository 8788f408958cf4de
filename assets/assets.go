// Package assets stores slide media in an S3 bucket under slides/<slide id>/.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/aouyang1/signage/util"
)

const keyPrefix = "slides/"

// S3 caps DeleteObjects at 1000 keys per call
const deleteBatchSize = 1000

var (
	ErrInvalidName     = errors.New("invalid asset name")
	ErrUnsupportedType = errors.New("unsupported asset type")
)

type Asset struct {
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

type Bucket struct {
	client *s3.Client
	bucket string
}

func NewBucket(ctx context.Context, profile, bucket string) (*Bucket, error) {
	if bucket == "" {
		return nil, errors.New("no s3 bucket provided")
	}

	opts := []func(*config.LoadOptions) error{}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	cfg, err := config.LoadDefaultConfig(ctxCfg, opts...)
	cancelCfg()
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &Bucket{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

func slidePrefix(slideID string) string {
	return keyPrefix + slideID + "/"
}

// Key returns the object key of asset name for a slide.
func Key(slideID, name string) (string, error) {
	if slideID == "" || strings.ContainsAny(slideID, "/\\") {
		return "", fmt.Errorf("%w: slide id %q", ErrInvalidName, slideID)
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !util.IsSupported(name) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, path.Ext(name))
	}
	return slidePrefix(slideID) + name, nil
}

// Upload stores body as asset name of a slide, replacing any asset with the same name.
func (b *Bucket) Upload(ctx context.Context, slideID, name, contentType string, size int64, body io.Reader) (Asset, error) {
	key, err := Key(slideID, name)
	if err != nil {
		return Asset{}, err
	}

	uploader := manager.NewUploader(b.client)
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := uploader.Upload(ctx, input); err != nil {
		return Asset{}, fmt.Errorf("unable to upload object to s3, %s, %w", key, err)
	}

	slog.Info("uploaded asset", "slide_id", slideID, "name", name)
	return Asset{Name: name, Size: size, LastModified: time.Now().UTC()}, nil
}

// List returns the assets of a slide sorted by name.
func (b *Bucket) List(ctx context.Context, slideID string) ([]Asset, error) {
	_, assets, err := b.list(ctx, slideID)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (b *Bucket) list(ctx context.Context, slideID string) ([]string, []Asset, error) {
	prefix := slidePrefix(slideID)
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	assets := []Asset{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to list s3 objects, %s, %w", prefix, err)
		}
		for object := range slices.Values(page.Contents) {
			key := aws.ToString(object.Key)
			keys = append(keys, key)
			assets = append(assets, Asset{
				Name:         strings.TrimPrefix(key, prefix),
				Size:         aws.ToInt64(object.Size),
				LastModified: aws.ToTime(object.LastModified),
			})
		}
	}

	slices.SortFunc(assets, func(a, b Asset) int { return strings.Compare(a.Name, b.Name) })
	return keys, assets, nil
}

// DeleteSlide removes every asset of a slide and returns how many were deleted.
func (b *Bucket) DeleteSlide(ctx context.Context, slideID string) (int, error) {
	keys, _, err := b.list(ctx, slideID)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for batch := range slices.Chunk(keys, deleteBatchSize) {
		objects := make([]s3types.ObjectIdentifier, 0, len(batch))
		for _, key := range batch {
			objects = append(objects, s3types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := b.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(b.bucket),
			Delete: &s3types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return deleted, fmt.Errorf("unable to delete s3 objects for slide %s: %w", slideID, err)
		}
		for _, e := range out.Errors {
			slog.Warn("unable to delete s3 object", "key", aws.ToString(e.Key), "error", aws.ToString(e.Message))
		}
		deleted += len(batch) - len(out.Errors)
	}

	if deleted > 0 {
		slog.Info("deleted slide assets", "slide_id", slideID, "count", deleted)
	}
	return deleted, nil
}
