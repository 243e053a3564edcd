package fileio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/pkg/errors"
)

// S3API is the subset of the S3 client used by S3File.
type S3API interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3File stores cassettes as S3 objects.
// File names take the form "/bucketName/[folder/.../]file".
type S3File struct {
	s3Client S3API
	ctx      context.Context
	partMiBs int64
}

// S3Option configures an S3File.
type S3Option func(*S3File)

// WithContext sets the context used for S3 calls. The default is context.Background().
func WithContext(ctx context.Context) S3Option {
	return func(f *S3File) {
		f.ctx = ctx
	}
}

// WithPartSize sets the multipart upload part size, in MiB.
func WithPartSize(partMiBs int64) S3Option {
	return func(f *S3File) {
		f.partMiBs = partMiBs
	}
}

// NewAWS creates a new S3File.
func NewAWS(s3Client S3API, opts ...S3Option) *S3File {
	f := &S3File{
		s3Client: s3Client,
		ctx:      context.Background(),
		partMiBs: 10,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// MkdirAll is a noop in S3.
func (f *S3File) MkdirAll(_ string, _ os.FileMode) error {
	return nil
}

// ReadFile downloads the object called name.
func (f *S3File) ReadFile(name string) ([]byte, error) {
	bucket, key, err := f.bucketAndKey(name)
	if err != nil {
		return nil, err
	}

	res, err := f.s3Client.GetObject(f.ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Wrap(os.ErrNotExist, name)
		}
		return nil, errors.WithStack(err)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// WriteFile uploads data to the object called name. The file mode is ignored.
func (f *S3File) WriteFile(name string, data []byte, _ os.FileMode) error {
	bucket, key, err := f.bucketAndKey(name)
	if err != nil {
		return err
	}

	uploader := manager.NewUploader(f.s3Client, func(u *manager.Uploader) {
		u.PartSize = f.partMiBs * 1024 * 1024
	})

	_, err = uploader.Upload(f.ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})

	return errors.WithStack(err)
}

// NotExist returns true when no object is called name.
func (f *S3File) NotExist(name string) (bool, error) {
	bucket, key, err := f.bucketAndKey(name)
	if err != nil {
		return false, err
	}

	_, err = f.s3Client.HeadObject(f.ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return false, nil
	}

	if isNotFound(err) {
		return true, nil
	}

	return false, errors.WithStack(err)
}

func (f *S3File) bucketAndKey(name string) (bucket, key string, err error) {
	splits := strings.SplitN(name, "/", 3)
	if len(splits) != 3 || splits[0] != "" || splits[1] == "" || splits[2] == "" {
		err = errors.Errorf("invalid S3 object name: '%s' - expected format is '/bucketName/[folder/.../]file'", name)
		return
	}

	bucket = splits[1]
	key = splits[2]

	return
}

// isNotFound recognises the various ways S3 reports a missing object.
// HeadObject has no response body so it only carries an HTTP 404.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}

	return false
}
