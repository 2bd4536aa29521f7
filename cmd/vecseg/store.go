package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/vecstream/blobstore"
	"github.com/hupe1980/vecstream/blobstore/minio"
	"github.com/hupe1980/vecstream/blobstore/s3"
)

type storeConfig struct {
	kind      string
	root      string
	bucket    string
	prefix    string
	endpoint  string
	region    string
	accessKey string
	secretKey string
	secure    bool
}

func openStore(ctx context.Context, cfg storeConfig) (blobstore.BlobStore, error) {
	switch cfg.kind {
	case "local":
		return blobstore.NewLocalStore(cfg.root), nil
	case "s3":
		if cfg.bucket == "" {
			return nil, fmt.Errorf("s3: -bucket is required")
		}
		return s3.New(ctx, cfg.bucket, s3.WithPrefix(cfg.prefix), s3.WithRegion(cfg.region))
	case "minio":
		return minio.New(ctx, minio.Config{
			Endpoint:  cfg.endpoint,
			AccessKey: cfg.accessKey,
			SecretKey: cfg.secretKey,
			Secure:    cfg.secure,
			Region:    cfg.region,
			Bucket:    cfg.bucket,
			Prefix:    cfg.prefix,
		})
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.kind)
	}
}
