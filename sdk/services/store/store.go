// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package store moves downloaded artifacts off the local disk once a
// transfer completes. A store that accepts a file also removes the local
// copy; a failed upload always leaves it in place.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/scc-digitalhub/terraref-cli/sdk/config"
	"github.com/scc-digitalhub/terraref-cli/sdk/services/acquire"
	"github.com/scc-digitalhub/terraref-cli/sdk/utils"
)

// ForConfig builds the artifact store selected by configuration. Kind
// "none" (or empty) returns nil, which callers treat as no upload step.
func ForConfig(ctx context.Context, cfg config.Config, log *zap.Logger) (acquire.ArtifactStore, error) {
	switch cfg.Store.Kind {
	case "", utils.StoreNone:
		return nil, nil
	case utils.StoreIrods:
		return NewIrodsStore(cfg.Store.IrodsLocation, &utils.ExecRunner{}, log), nil
	case utils.StoreS3:
		client, err := config.NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix, log), nil
	default:
		return nil, fmt.Errorf("unknown store kind: %s", cfg.Store.Kind)
	}
}
