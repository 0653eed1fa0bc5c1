package config

type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "WEDDASH_CONTEXTS_FILE"
	DefaultContextCatalogPath = "~/.weddash/contexts.yaml"

	OverrideAPIBaseURL           = "api.base-url"
	OverrideAPIRequestsPerSecond = "api.max-requests-per-second"
	OverrideSessionRole          = "session.role"
	OverrideSessionToken         = "session.token"
)

type ContextCatalog struct {
	Contexts   []Context `yaml:"contexts"`
	CurrentCtx string    `yaml:"current-ctx"`
}

type Context struct {
	Name                  string   `yaml:"name"`
	API                   API      `yaml:"api"`
	Session               *Session `yaml:"session,omitempty"`
	Paths                 *Paths   `yaml:"paths,omitempty"`
	DeleteManyConcurrency int      `yaml:"delete-many-concurrency,omitempty"`
}

type API struct {
	BaseURL              string            `yaml:"base-url"`
	DefaultHeaders       map[string]string `yaml:"default-headers,omitempty"`
	Timeout              string            `yaml:"timeout,omitempty"`
	MaxRequestsPerSecond float64           `yaml:"max-requests-per-second,omitempty"`
	TLS                  *TLS              `yaml:"tls,omitempty"`
}

// Session names where credentials come from. At most one of the inline
// pair, the environment pair and File may be set; an empty Session reads the
// default environment variables.
type Session struct {
	Token    string `yaml:"token,omitempty"`
	Role     string `yaml:"role,omitempty"`
	TokenEnv string `yaml:"token-env,omitempty"`
	RoleEnv  string `yaml:"role-env,omitempty"`
	File     string `yaml:"file,omitempty"`
}

func (s *Session) HasInline() bool {
	return s != nil && (s.Token != "" || s.Role != "")
}

func (s *Session) HasEnv() bool {
	return s != nil && (s.TokenEnv != "" || s.RoleEnv != "")
}

func (s *Session) HasFile() bool {
	return s != nil && s.File != ""
}

// Paths layers resource path segments over the built-in tables. Roles is
// keyed by role name (ADMIN, EVENT_PLANNER, VENDOR, CLIENT).
type Paths struct {
	Default map[string]string            `yaml:"default,omitempty"`
	Roles   map[string]map[string]string `yaml:"roles,omitempty"`
}

type TLS struct {
	CACertFile         string `yaml:"ca-cert-file,omitempty"`
	ClientCertFile     string `yaml:"client-cert-file,omitempty"`
	ClientKeyFile      string `yaml:"client-key-file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify,omitempty"`
}
