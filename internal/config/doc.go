// Package config loads, merges and validates configuration for the
// stock-keeper server and client.
//
// Sources are merged field by field; the first source that sets a field wins:
//  1. Command-line flags
//  2. Environment variables
//  3. Config file (JSON, or YAML for .yaml/.yml paths)
//  4. Built-in defaults
//
// The entry points are [GetServerConfig] and [GetClientConfig].
package config
