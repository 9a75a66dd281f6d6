package model

import "time"

// Environment is a named deployment tier such as staging or production.
type Environment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting is an environment-scoped key/value injected into every render of that environment.
type Setting struct {
	ID            string    `json:"id"`
	EnvironmentID string    `json:"environment_id"`
	Key           string    `json:"key"`
	Value         any       `json:"value"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SettingsMap flattens settings into the map exposed to templates as "environment".
func SettingsMap(settings []*Setting) map[string]any {
	out := make(map[string]any, len(settings))
	for _, s := range settings {
		if s != nil {
			out[s.Key] = s.Value
		}
	}
	return out
}
