package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/leapstack-labs/sfcatalog/pkg/core"
)

// Default configuration values.
const (
	DefaultAdapterType = "snowflake"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=csv
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ExpandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as written.
func ExpandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})
}

// ApplyCredentialDefaults expands environment variables in the connection
// fields of c and fills in the adapter type. The type is lowercased to
// match the adapter registry.
func ApplyCredentialDefaults(c *core.AdapterConfig) {
	if c == nil {
		return
	}
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if c.Type == "" {
		c.Type = DefaultAdapterType
	}
	c.Account = ExpandEnvVars(c.Account)
	c.User = ExpandEnvVars(c.User)
	c.Password = ExpandEnvVars(c.Password)
	c.Host = ExpandEnvVars(c.Host)
	c.Database = ExpandEnvVars(c.Database)
	c.Schema = ExpandEnvVars(c.Schema)
	c.Warehouse = ExpandEnvVars(c.Warehouse)
	c.Role = ExpandEnvVars(c.Role)
	for k, v := range c.Options {
		c.Options[k] = ExpandEnvVars(v)
	}
}

// ApplyDefaults applies credential defaults to every entry of c.
func ApplyDefaults(c *Catalog) {
	if c == nil {
		return
	}
	for name, cred := range c.Credentials {
		ApplyCredentialDefaults(&cred)
		c.Credentials[name] = cred
	}
}
