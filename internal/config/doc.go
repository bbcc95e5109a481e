// Package config resolves restic-runner's layered configuration using Viper.
//
// Three optional TOML layers are merged in a fixed order: global, then
// repository, then backup set. Later layers override values set by earlier
// ones, which is what allows a backup set to redefine the tag, include
// paths, or retention policy a repository layer established.
//
// The global layer is skipped silently when absent. The repository and set
// layers are required to exist and be readable once their names were
// supplied on the command line; a missing or unreadable named layer is a
// fatal configuration error, never a retry condition.
//
// The resolved Config is built once per invocation and treated as
// immutable afterwards.
package config
