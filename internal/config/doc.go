// Package config manages user-level CLI settings stored in ~/.mcphub/config.yaml
// with MCPHUB_* environment overrides, using Viper.
package config
