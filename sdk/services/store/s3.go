// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/scc-digitalhub/terraref-cli/sdk/config"
)

// S3Store uploads artifacts to an S3 bucket under a fixed key prefix.
type S3Store struct {
	client *config.S3Client
	bucket string
	prefix string
	log    *zap.Logger
}

func NewS3Store(client *config.S3Client, bucket, prefix string, log *zap.Logger) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, log: log}
}

// Begin verifies the bucket is reachable before any transfer starts.
func (s *S3Store) Begin(ctx context.Context) error {
	return s.client.Ping(ctx, s.bucket)
}

// Put uploads one file and removes the local copy on success.
func (s *S3Store) Put(ctx context.Context, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	key := path.Join(s.prefix, filepath.Base(localPath))
	hook := &config.ProgressHook{
		OnProgress: func(key string, written, total int64) {
			s.log.Debug("uploading", zap.String("key", key),
				zap.Int64("written", written), zap.Int64("total", total))
		},
	}
	if err := s.client.UploadFile(ctx, s.bucket, key, f, hook); err != nil {
		return fmt.Errorf("unable to upload %s to bucket %s: %w", key, s.bucket, err)
	}

	s.log.Info("uploaded to S3", zap.String("bucket", s.bucket), zap.String("key", key))
	if err := os.Remove(localPath); err != nil {
		return fmt.Errorf("failed to remove local copy %s: %w", localPath, err)
	}
	return nil
}
