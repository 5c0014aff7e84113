// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"errors"

	"github.com/scc-digitalhub/terraref-cli/sdk/config"
)

// ErrEndpointNotFound is returned when neither the display name nor the
// canonical name of any visible endpoint matches.
var ErrEndpointNotFound = errors.New("endpoint not found")

type TransferService struct {
	http config.TransferHTTP
}

func NewTransferService(conf config.GlobusConfig, tokens config.TokenProvider) *TransferService {
	return &TransferService{
		http: config.NewTransferHTTP(nil, conf.TransferURL, tokens),
	}
}

// NewTransferServiceWithHTTP is used by tests to point the service at a
// stub server.
func NewTransferServiceWithHTTP(http config.TransferHTTP) *TransferService {
	return &TransferService{http: http}
}
