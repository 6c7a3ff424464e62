package settings

// GatewaySettings is the effective upstream configuration: persisted
// overrides merged over environment defaults, override winning when present
// and non-empty.
type GatewaySettings struct {
	URL          string `json:"gateway_url"`
	Token        string `json:"gateway_token"`
	ChatPath     string `json:"chat_path"`
	ChatMode     string `json:"chat_mode"`
	DefaultModel string `json:"default_model"`
}

// ChatEnabled reports whether proxying is switched on.
func (s GatewaySettings) ChatEnabled() bool {
	return s.ChatMode != "disabled"
}

// Masked returns a copy safe for API responses: the bearer token is reduced
// to a presence indicator.
func (s GatewaySettings) Masked() GatewaySettings {
	if s.Token != "" {
		s.Token = "********"
	}
	return s
}

// Patch is a partial update. Nil fields are left untouched; non-nil fields
// are upserted, including explicit empty strings (which clear the override
// back to the environment default).
type Patch struct {
	URL          *string `json:"gateway_url,omitempty"`
	Token        *string `json:"gateway_token,omitempty"`
	ChatPath     *string `json:"chat_path,omitempty"`
	ChatMode     *string `json:"chat_mode,omitempty"`
	DefaultModel *string `json:"default_model,omitempty"`
}

// Source yields the current effective settings. Implementations must be safe
// for concurrent use; callers read per request and never cache.
type Source interface {
	Get() (GatewaySettings, error)
}

// Keys used in the persisted store. They match the environment variable
// names so operators see one vocabulary everywhere.
const (
	KeyGatewayURL   = "OPENCLAW_GATEWAY_URL"
	KeyGatewayToken = "OPENCLAW_GATEWAY_TOKEN"
	KeyChatPath     = "OPENCLAW_CHAT_PATH"
	KeyChatMode     = "STARTCLAW_CHAT_MODE"
	KeyDefaultModel = "DEFAULT_MODEL"
)
