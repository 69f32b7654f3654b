package config

import (
	"fmt"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/pkg/global"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// LoadCheckConfig loads config from command instance to predefined config variables.
// Every key can also be supplied through the INPUT_<KEY> environment variable,
// which is how GitHub Actions passes step inputs.
func LoadCheckConfig(cmd *cobra.Command) (*CheckConfig, error) {
	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}

	// default viper configs
	viper.SetEnvPrefix(global.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// set default configs
	setCheckDefaultConfig()

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".checktest")
		viper.AddConfigPath("./")
		viper.AddConfigPath("$HOME/.checktest")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && viper.ConfigFileUsed() != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	cfg, err := populateCheckConfig(new(CheckConfig))
	if err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize trims the values that are commonly pasted with stray whitespace
// or trailing slashes.
func (c *CheckConfig) normalize() {
	c.Owner = strings.TrimSpace(c.Owner)
	c.Repo = strings.TrimSpace(c.Repo)
	c.PullNumber = strings.TrimSpace(c.PullNumber)
	c.Token = strings.TrimSpace(c.Token)
	c.Host = strings.TrimRight(strings.TrimSpace(c.Host), "/")
	c.StaticHost = strings.TrimRight(strings.TrimSpace(c.StaticHost), "/")
	c.GithubAPIURL = strings.TrimSpace(c.GithubAPIURL)
}
