package main

import (
	"context"

	"github.com/ark-network/launchsite/internal/infrastructure/backup"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	AwsRegion    = "AWS_REGION"
	S3BucketName = "S3_BUCKET_NAME"
	Datadir      = "LAUNCH_DATADIR"
)

func main() {
	viper.AutomaticEnv()

	cfg := backup.Config{
		Region:  viper.GetString(AwsRegion),
		Bucket:  viper.GetString(S3BucketName),
		DataDir: viper.GetString(Datadir),
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	key, err := backup.Run(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("backup failed")
	}

	log.Infof("uploaded backup to s3://%s/%s", cfg.Bucket, key)
}
