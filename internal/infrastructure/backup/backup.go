package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mholt/archives"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "launchsite-backup"

type Config struct {
	Region  string
	Bucket  string
	DataDir string
}

func (c Config) Validate() error {
	if c.Region == "" || c.Bucket == "" || c.DataDir == "" {
		return fmt.Errorf("missing region, bucket or data dir")
	}
	if _, err := os.Stat(c.DataDir); err != nil {
		return fmt.Errorf("invalid data dir: %w", err)
	}
	return nil
}

// ArchiveName returns the name of the archive of a backup taken at the given
// time.
func ArchiveName(at time.Time) string {
	return fmt.Sprintf("%s-%s.tar.gz", keyPrefix, at.UTC().Format("2006-01-02-15-04-05"))
}

// Archive writes the content of dataDir to w as a gzipped tarball, with paths
// relative to dataDir.
func Archive(ctx context.Context, dataDir string, w io.Writer) error {
	// A trailing separator makes the library add the content of the directory
	// instead of the directory itself.
	root := strings.TrimRight(dataDir, string(filepath.Separator)) + string(filepath.Separator)
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		root: "",
	})
	if err != nil {
		return fmt.Errorf("failed to prepare files for archiving: %w", err)
	}

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, w, files); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return nil
}

// Run archives the data dir and uploads it to the configured bucket, creating
// it if needed. It returns the key of the uploaded object.
func Run(ctx context.Context, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	key := ArchiveName(time.Now())
	archivePath := filepath.Join(os.TempDir(), key)
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer os.Remove(archivePath)
	defer out.Close()

	if err := Archive(ctx, cfg.DataDir, out); err != nil {
		return "", err
	}
	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind archive: %w", err)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return "", fmt.Errorf("unable to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)

	if err := ensureBucket(ctx, client, cfg); err != nil {
		return "", err
	}

	uploader := manager.NewUploader(client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(cfg.Bucket),
		Key:    aws.String(key),
		Body:   out,
	}); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	return key, nil
}

func ensureBucket(ctx context.Context, client *s3.Client, cfg Config) error {
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err == nil {
		return nil
	}

	if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(cfg.Bucket),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(cfg.Region),
		},
	}); err != nil {
		return fmt.Errorf("unable to create bucket: %w", err)
	}
	log.Infof("created bucket %s", cfg.Bucket)

	if _, err := client.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(cfg.Bucket),
		VersioningConfiguration: &types.VersioningConfiguration{
			Status: types.BucketVersioningStatusEnabled,
		},
	}); err != nil {
		log.WithError(err).Warn("failed to enable bucket versioning")
	}
	return nil
}
