// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

// Package root wires configuration, authorization and the acquisition
// driver into the trfetch command.
package root

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scc-digitalhub/terraref-cli/sdk/config"
	"github.com/scc-digitalhub/terraref-cli/sdk/services/acquire"
	"github.com/scc-digitalhub/terraref-cli/sdk/services/auth"
	"github.com/scc-digitalhub/terraref-cli/sdk/services/store"
	"github.com/scc-digitalhub/terraref-cli/sdk/services/transfer"
	"github.com/scc-digitalhub/terraref-cli/sdk/utils"
)

type rootOptions struct {
	env      string
	profile  string
	list     string
	store    string
	endpoint string
	path     string
	verbose  bool
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "trfetch",
		Short: "Fetch field imagery from the Terraref collection",
		Long: `trfetch authenticates against the Globus transfer service, scans the
configured remote path one folder level deep, selects imagery files by
profile and submits checksum-verified transfers to the local endpoint.
Retrieved files can optionally be pushed to iRODS or S3.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.env, "env", "", "configuration environment to use")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "fullfield", "acquisition profile: a built-in name or a YAML file")
	cmd.Flags().StringVar(&opts.list, "list", "", "retrieve the remote paths in this file instead of scanning")
	cmd.Flags().StringVar(&opts.store, "store", "", "artifact store: none, irods or s3")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "remote endpoint display or canonical name")
	cmd.Flags().StringVar(&opts.path, "path", "", "remote path to scan")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	log := utils.NewLogger(opts.verbose)
	defer func() { _ = log.Sync() }()

	if err := config.RegisterIniCfgWithViper(opts.env); err != nil {
		return err
	}
	if opts.store != "" {
		viper.Set(utils.StoreKind, opts.store)
	}
	if opts.endpoint != "" {
		viper.Set(utils.GlobusRemoteEndpoint, opts.endpoint)
	}
	if opts.path != "" {
		viper.Set(utils.GlobusRemotePath, opts.path)
	}
	cfg := config.FromViper()

	profile, err := config.LoadProfile(opts.profile)
	if err != nil {
		return err
	}

	localRoot := viper.GetString(utils.LocalSavePath)
	if localRoot == "" {
		localRoot, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
	}
	if err := acquire.EnsureLocalRoot(localRoot); err != nil {
		return err
	}

	ctx := cmd.Context()
	runner := &utils.ExecRunner{}

	localEndpointID := cfg.Globus.LocalEndpointID
	if localEndpointID == "" {
		localEndpointID, err = transfer.LocalEndpointID(ctx, runner)
		if err != nil {
			return err
		}
	}

	input := acquire.NewStdinInput()
	flow := auth.NewFlow(cfg.Globus.ClientID, cfg.Globus.AuthURL)
	fmt.Println("Please go to this URL and login:", flow.AuthorizeURL())
	code, err := input.ReadLine("Enter the authorization code: ")
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	authorizer, err := flow.Exchange(ctx, code)
	if err != nil {
		return err
	}

	svc := transfer.NewTransferService(cfg.Globus, authorizer)

	artifactStore, err := store.ForConfig(ctx, cfg, log)
	if err != nil {
		return err
	}

	driver := &acquire.Driver{
		Transfer:        svc,
		Store:           artifactStore,
		Input:           input,
		Log:             log,
		LocalRoot:       localRoot,
		LocalEndpointID: localEndpointID,
		RemoteEndpoint:  cfg.Globus.RemoteEndpoint,
		RemoteRoot:      cfg.Globus.RemotePath,
		Policy: acquire.FilterPolicy{
			Extensions:     profile.Extensions,
			Include:        profile.Include,
			Exclude:        profile.Exclude,
			FirstMatchOnly: profile.FirstMatchOnly,
		},
		Mode:         acquire.SelectionMode(profile.Selection),
		ManifestPath: filepath.Join(localRoot, profile.Manifest),
	}

	if opts.list != "" {
		return driver.RunList(ctx, opts.list)
	}
	return driver.Run(ctx)
}
