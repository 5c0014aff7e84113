// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"github.com/scc-digitalhub/terraref-cli/sdk/utils"
)

// Settings holds all logical keys. Tags:
// - vkey: Viper key
// - env: canonical env name (UPPER_SNAKE)
// - persist: "true" to write the key into the INI
// - default: optional default to set if key is unset
// - secret: "true" if sensitive (kept out of log output)
type Settings struct {
	GlobusClientId        string `vkey:"globus_client_id"         env:"GLOBUS_CLIENT_ID"         persist:"true" default:"80e3a80b-0e81-43b0-84df-125ce5ad6088"`
	GlobusAuthUrl         string `vkey:"globus_auth_url"          env:"GLOBUS_AUTH_URL"          persist:"true" default:"https://auth.globus.org"`
	GlobusTransferUrl     string `vkey:"globus_transfer_url"      env:"GLOBUS_TRANSFER_URL"      persist:"true" default:"https://transfer.api.globus.org/v0.10"`
	GlobusRemoteEndpoint  string `vkey:"globus_remote_endpoint"   env:"GLOBUS_REMOTE_ENDPOINT"   persist:"true" default:"Terraref"`
	GlobusRemotePath      string `vkey:"globus_remote_path"       env:"GLOBUS_REMOTE_PATH"       persist:"true" default:"/ua-mac/public/season-6/Level_2/rgb_fullfield/"`
	GlobusLocalEndpointId string `vkey:"globus_local_endpoint_id" env:"GLOBUS_LOCAL_ENDPOINT_ID" persist:"false"`
	LocalSavePath         string `vkey:"local_save_path"          env:"LOCAL_SAVE_PATH"          persist:"false"`
	StoreKind             string `vkey:"store_kind"               env:"STORE_KIND"               persist:"true" default:"none"`
	IrodsLocation         string `vkey:"irods_location"           env:"IRODS_LOCATION"           persist:"true" default:"/iplant/home/schnaufer/terraref"`
	AwsAccessKeyId        string `vkey:"aws_access_key_id"        env:"AWS_ACCESS_KEY_ID"        persist:"true" secret:"true"`
	AwsSecretAccessKey    string `vkey:"aws_secret_access_key"    env:"AWS_SECRET_ACCESS_KEY"    persist:"true" secret:"true"`
	AwsSessionToken       string `vkey:"aws_session_token"        env:"AWS_SESSION_TOKEN"        persist:"true" secret:"true"`
	AwsRegion             string `vkey:"aws_region"               env:"AWS_REGION"               persist:"true"`
	AwsEndpointUrl        string `vkey:"aws_endpoint_url"         env:"AWS_ENDPOINT_URL"         persist:"true"`
	S3Bucket              string `vkey:"s3_bucket"                env:"S3_BUCKET"                persist:"true"`
	S3Prefix              string `vkey:"s3_prefix"                env:"S3_PREFIX"                persist:"true"`
	CurrentEnvironment    string `vkey:"current_environment"      env:"CURRENT_ENVIRONMENT"      persist:"false"`
}

func getIniPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return home + string(os.PathSeparator) + utils.IniName
}

// resolveEnvName: --env > "default"
func resolveEnvName(optionalEnv ...string) string {
	if len(optionalEnv) > 0 && optionalEnv[0] != "" && !strings.EqualFold(optionalEnv[0], "null") {
		return optionalEnv[0]
	}
	return "default"
}

// BindEnvFromStruct binds env for all fields of Settings using struct tags.
func BindEnvFromStruct() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rt := reflect.TypeOf(Settings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)

		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}

		env := f.Tag.Get("env")
		if env == "" {
			env = strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		}
		_ = viper.BindEnv(key, env)

		if def := f.Tag.Get("default"); def != "" && !viper.IsSet(key) {
			viper.SetDefault(key, def)
		}
	}
}

// WriteIniFromStruct writes a new INI with only fields marked persist:"true".
func WriteIniFromStruct(iniPath, envName string) error {
	cfg := ini.Empty()
	cfg.Section("DEFAULT").Key(utils.CurrentEnvironment).SetValue(envName)
	sec := cfg.Section(envName)

	rt := reflect.TypeOf(Settings{})
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Tag.Get("persist") != "true" {
			continue
		}
		key := f.Tag.Get("vkey")
		if key == "" {
			continue
		}
		val := viper.GetString(key)
		if val == "" {
			continue
		}
		sec.Key(key).SetValue(val)
	}
	sec.Key(utils.UpdatedEnvKey).SetValue(time.Now().UTC().Format(time.RFC3339))

	return cfg.SaveTo(iniPath)
}

// loadIniSectionIntoViper loads [DEFAULT] + [env] into Viper (TOML in-memory).
// ENV can still override on Get().
func loadIniSectionIntoViper(cfg *ini.File, env string) error {
	def := cfg.Section("DEFAULT")
	selected := def
	if env != "" && cfg.HasSection(env) {
		selected = cfg.Section(env)
	}

	merged := make(map[string]string)
	for _, k := range def.Keys() {
		merged[k.Name()] = k.Value()
	}
	if selected != def {
		for _, k := range selected.Keys() {
			merged[k.Name()] = k.Value()
		}
	}

	var buf bytes.Buffer
	for k, v := range merged {
		vSafe := strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `"`, `\"`)
		_, _ = fmt.Fprintf(&buf, "%s = \"%s\"\n", k, vSafe)
	}
	viper.SetConfigType("toml")
	return viper.ReadConfig(&buf)
}

// RegisterIniCfgWithViper:
// 1) binds ENV from struct (live)
// 2) loads the INI, bootstrapping it from ENV/defaults when missing
// 3) loads the active section into Viper and sets current_environment
func RegisterIniCfgWithViper(optionalEnv ...string) error {
	iniPath := getIniPath()

	BindEnvFromStruct()

	cfg, err := ini.Load(iniPath)
	if err != nil {
		envName := resolveEnvName(optionalEnv...)
		viper.Set(utils.IniSource, "env")
		if werr := WriteIniFromStruct(iniPath, envName); werr != nil {
			// ENV-only mode: defaults and env bindings still apply
			viper.Set(utils.CurrentEnvironment, envName)
			return nil
		}
		cfg, err = ini.Load(iniPath)
		if err != nil {
			viper.Set(utils.CurrentEnvironment, envName)
			return nil
		}
	}

	// active env: --env > DEFAULT.current_environment > default
	env := resolveEnvName(optionalEnv...)
	if env == "default" {
		if v := cfg.Section("DEFAULT").Key(utils.CurrentEnvironment).String(); v != "" {
			env = v
		}
	}

	if err := loadIniSectionIntoViper(cfg, env); err != nil {
		return fmt.Errorf("failed to load INI into viper: %w", err)
	}
	viper.Set(utils.CurrentEnvironment, env)
	return nil
}
