package transfer

type CredentialInput struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

type SettingsUpdate struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
	BlogID      string `json:"blog_id"`
}
