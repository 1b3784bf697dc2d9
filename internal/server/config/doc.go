// Package config defines the rediskv-server configuration structure,
// its defaults and validation, and converts sections into the option
// structs of the components they configure.
package config
