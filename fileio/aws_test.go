package fileio_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/seborama/k7/fileio"
)

func TestS3File_LocalStack(t *testing.T) {
	bucketName := "tests3file-" + uuid.NewString() // warning: max length: 63 chars

	s3Client, err := makeS3ClientWithBucket(t, bucketName)
	require.NoError(t, err)

	s3f := fileio.NewAWS(s3Client)

	objectName := "/" + bucketName + "/Development/TestS3File.cassette.json"

	notExist, err := s3f.NotExist(objectName)
	require.NoError(t, err)
	require.True(t, notExist)

	err = s3f.WriteFile(objectName, []byte("hello"), 0)
	require.NoError(t, err)

	notExist, err = s3f.NotExist(objectName)
	require.NoError(t, err)
	require.False(t, notExist)

	data, err := s3f.ReadFile(objectName)
	require.NoError(t, err)
	require.EqualValues(t, "hello", data)
}

func makeS3ClientWithBucket(t *testing.T, bucketName string) (*s3.Client, error) {
	if err := godotenv.Load("../.envrc"); err != nil {
		// NOTE: this is non-fatal: the environment may already be set correctly.
		slog.Warn(".envrc load failed", slog.String("error", err.Error()))
	}

	awsEndpoint := os.Getenv("LOCALSTACK_ENDPOINT")
	awsRegion := os.Getenv("AWS_DEFAULT_REGION")

	if awsEndpoint == "" {
		t.Skip("LOCALSTACK_ENDPOINT is not set")
	}

	ctx := context.Background()

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			PartitionID:       "aws",
			URL:               awsEndpoint,
			SigningRegion:     awsRegion,
			HostnameImmutable: true,
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, errors.Wrap(err, "aws config")
	}

	// Note: "UsePathStyle" REQUIRED for localstack
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) { o.UsePathStyle = true })

	if err = createBucket(ctx, s3Client, awsRegion, bucketName); err != nil {
		return nil, errors.WithStack(err)
	}

	return s3Client, nil
}

func createBucket(ctx context.Context, s3Client *s3.Client, region, name string) error {
	_, err := s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: &name,
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		},
	})
	return err
}
