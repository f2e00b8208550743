// Package config loads notea settings with viper: built-in defaults, an
// optional config.yaml and NOTEA_* environment variables, in increasing
// precedence. The result is validated before use, including the scheduling
// overrides under "srs".
package config
