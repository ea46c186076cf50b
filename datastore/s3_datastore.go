package datastore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/floedata/floe/utils"
	"github.com/rs/zerolog"
)

type (
	S3SnapshotStore struct {
		bucket  string
		session *session.Session
	}
)

func NewS3SnapshotStore(bucket string) (*S3SnapshotStore, error) {
	s3Config := &aws.Config{
		Region:      aws.String(utils.AWS_DEFAULT_REGION),
		Credentials: credentials.NewEnvCredentials(),
	}
	if utils.S3_ENDPOINT != "" {
		s3Config.Endpoint = aws.String(utils.S3_ENDPOINT)
		s3Config.S3ForcePathStyle = aws.Bool(true)
	}

	s3Session, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("error making new session: %w", err)
	}

	return &S3SnapshotStore{
		bucket:  bucket,
		session: s3Session,
	}, nil
}

func (sss *S3SnapshotStore) snapshotKey(table, snapshotID string) string {
	return fmt.Sprintf("table=%s/%s.parquet", table, snapshotID)
}

func (sss *S3SnapshotStore) WriteSnapshot(ctx context.Context, table, snapshotID string, data []byte) error {
	ctx = logger.WithContext(ctx)
	logger := zerolog.Ctx(ctx)

	uploader := s3manager.NewUploader(sss.session)
	key := sss.snapshotKey(table, snapshotID)

	s := time.Now()
	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(sss.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("error uploading to s3: %w", err)
	}

	d := time.Since(s)
	logger.Debug().Str("key", key).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("uploaded snapshot to s3")

	return nil
}

func (sss *S3SnapshotStore) ReadSnapshot(ctx context.Context, table, snapshotID string) ([]byte, error) {
	ctx = logger.WithContext(ctx)
	logger := zerolog.Ctx(ctx)

	downloader := s3manager.NewDownloader(sss.session)
	key := sss.snapshotKey(table, snapshotID)

	buf := &aws.WriteAtBuffer{}

	s := time.Now()
	_, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(sss.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("error downloading from s3: %w", err)
	}

	d := time.Since(s)
	logger.Debug().Str("key", key).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("downloaded snapshot from s3")

	return buf.Bytes(), nil
}

func (sss *S3SnapshotStore) Shutdown(_ context.Context) error {
	return nil
}
