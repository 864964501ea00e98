// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in ~/.docgpt/config.toml. Dotted keys such as
// "service.base_url" are written as TOML tables and flattened on load.
package file
