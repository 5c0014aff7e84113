// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package utils

const (
	IniName            = ".terraref.ini"
	CurrentEnvironment = "current_environment"
	UpdatedEnvKey      = "updated_environment"
	IniSource          = "ini_source"

	GlobusClientId        = "globus_client_id"
	GlobusAuthUrl         = "globus_auth_url"
	GlobusTransferUrl     = "globus_transfer_url"
	GlobusRemoteEndpoint  = "globus_remote_endpoint"
	GlobusRemotePath      = "globus_remote_path"
	GlobusLocalEndpointId = "globus_local_endpoint_id"

	LocalSavePath = "local_save_path"

	StoreKind     = "store_kind"
	IrodsLocation = "irods_location"

	AwsAccessKeyId     = "aws_access_key_id"
	AwsSecretAccessKey = "aws_secret_access_key"
	AwsSessionToken    = "aws_session_token"
	AwsRegion          = "aws_region"
	AwsEndpointUrl     = "aws_endpoint_url"
	S3Bucket           = "s3_bucket"
	S3Prefix           = "s3_prefix"

	// Store kinds accepted by store_kind.
	StoreNone  = "none"
	StoreIrods = "irods"
	StoreS3    = "s3"
)
