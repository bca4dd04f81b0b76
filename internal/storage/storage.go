package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	apperrors "assetverse/internal/errors"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

// sniffLen is how many leading bytes are inspected to detect the image type.
const sniffLen = 3072

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// Image is an upload whose type was detected from its content.
type Image struct {
	ContentType string
	Ext         string
	Body        io.Reader
	Size        int64
}

// Uploader stores images and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, img *Image) (string, error)
}

// Config holds S3 connection settings.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicURL       string
}

// MinioUploader stores images in an S3 compatible bucket.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

var _ Uploader = (*MinioUploader)(nil)

// NewMinioUploader connects to the endpoint and makes sure the bucket exists.
func NewMinioUploader(ctx context.Context, conf Config) (*MinioUploader, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKeyID, conf.SecretAccessKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init s3 client")
	}

	u := &MinioUploader{
		client:    client,
		bucket:    conf.Bucket,
		publicURL: publicBase(conf),
	}
	if err := u.makeBucket(ctx); err != nil {
		return nil, err
	}
	log.WithField("bucket", conf.Bucket).Info("s3 client initialized")
	return u, nil
}

func (u *MinioUploader) makeBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return errors.Wrap(err, "check bucket")
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
		return errors.Wrap(err, "make bucket")
	}
	return nil
}

// Upload puts the object under a random key named after the detected type.
func (u *MinioUploader) Upload(ctx context.Context, img *Image) (string, error) {
	key := ObjectKey(img.Ext)
	_, err := u.client.PutObject(ctx, u.bucket, key, img.Body, img.Size, minio.PutObjectOptions{ContentType: img.ContentType})
	if err != nil {
		return "", errors.Wrap(err, "put object")
	}
	return u.publicURL + "/" + key, nil
}

// ObjectKey builds the storage key for an uploaded file.
func ObjectKey(ext string) string {
	return "uploads/" + uuid.New().String() + strings.ToLower(ext)
}

func publicBase(conf Config) string {
	if conf.PublicURL != "" {
		return strings.TrimRight(conf.PublicURL, "/")
	}
	scheme := "http"
	if conf.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, conf.Endpoint, conf.Bucket)
}

// SniffImage checks the size of an upload and detects its type from the
// leading bytes. The client's declared type and file name are not consulted.
func SniffImage(r io.Reader, size int64) (*Image, error) {
	if size <= 0 || size > MaxImageSize {
		return nil, errors.Wrapf(apperrors.ErrInvalidInput, "file size must be between 1 byte and %d bytes", MaxImageSize)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "read upload")
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, errors.Wrapf(apperrors.ErrInvalidInput, "unsupported image type %s", mtype.String())
	}
	return &Image{
		ContentType: mtype.String(),
		Ext:         mtype.Extension(),
		Body:        io.MultiReader(bytes.NewReader(head), r),
		Size:        size,
	}, nil
}
