package domain

// ModelDefinition describes an external language-model endpoint declared in
// the config file.
type ModelDefinition struct {
	Name             string `yaml:"name"`
	Endpoint         string `yaml:"endpoint"`
	AuthEnvVar       string `yaml:"auth_env_var"`
	ModelID          string `yaml:"model_id"`
	MaxTokens        int    `yaml:"max_tokens"`
	AuthHeaderName   string `yaml:"auth_header_name,omitempty"`
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`
}

const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "
)

// GetAuthHeaderName returns the authentication header name with default fallback.
func (m ModelDefinition) GetAuthHeaderName() string {
	if m.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return m.AuthHeaderName
}

// GetAuthHeaderPrefix returns the authentication header prefix with default
// fallback. A customized header name with an empty prefix is intentional
// (e.g. x-api-key style authentication).
func (m ModelDefinition) GetAuthHeaderPrefix() string {
	if m.AuthHeaderName != "" && m.AuthHeaderPrefix == "" {
		return ""
	}
	if m.AuthHeaderPrefix == "" {
		return DefaultAuthHeaderPrefix
	}
	return m.AuthHeaderPrefix
}
