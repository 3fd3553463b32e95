package models

type Channel struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	Name     string `json:"name"`
}

// ChannelList is one resolution result. Mock is forwarded from the
// provider as-is.
type ChannelList struct {
	Channels []Channel `json:"channels"`
	Mock     bool      `json:"mock"`
}

type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AccountContext identifies where on the scheduling provider a post goes.
type AccountContext struct {
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
	BlogID      string `json:"blog_id"`
}
