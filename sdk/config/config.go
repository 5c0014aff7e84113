// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"github.com/spf13/viper"

	"github.com/scc-digitalhub/terraref-cli/sdk/utils"
)

// Config is the resolved configuration handed to the services
// (no viper/INI below this point).
type Config struct {
	Globus GlobusConfig
	Store  StoreConfig
	S3     S3Config
}

type GlobusConfig struct {
	ClientID        string
	AuthURL         string
	TransferURL     string
	RemoteEndpoint  string
	RemotePath      string
	LocalEndpointID string
}

type StoreConfig struct {
	Kind          string
	IrodsLocation string
}

type S3Config struct {
	AccessKey   string
	SecretKey   string
	AccessToken string
	Region      string
	EndpointURL string
	Bucket      string
	Prefix      string
}

// FromViper snapshots the active viper state into a Config.
// Call after RegisterIniCfgWithViper and after flag overrides.
func FromViper() Config {
	return Config{
		Globus: GlobusConfig{
			ClientID:        viper.GetString(utils.GlobusClientId),
			AuthURL:         viper.GetString(utils.GlobusAuthUrl),
			TransferURL:     viper.GetString(utils.GlobusTransferUrl),
			RemoteEndpoint:  viper.GetString(utils.GlobusRemoteEndpoint),
			RemotePath:      viper.GetString(utils.GlobusRemotePath),
			LocalEndpointID: viper.GetString(utils.GlobusLocalEndpointId),
		},
		Store: StoreConfig{
			Kind:          viper.GetString(utils.StoreKind),
			IrodsLocation: viper.GetString(utils.IrodsLocation),
		},
		S3: S3Config{
			AccessKey:   viper.GetString(utils.AwsAccessKeyId),
			SecretKey:   viper.GetString(utils.AwsSecretAccessKey),
			AccessToken: viper.GetString(utils.AwsSessionToken),
			Region:      viper.GetString(utils.AwsRegion),
			EndpointURL: viper.GetString(utils.AwsEndpointUrl),
			Bucket:      viper.GetString(utils.S3Bucket),
			Prefix:      viper.GetString(utils.S3Prefix),
		},
	}
}
