package mattermost

// User is the subset of a Mattermost user object the notifier reads.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
}

// Channel is the subset of a Mattermost channel object the notifier reads.
type Channel struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	TeamID      string `json:"team_id,omitempty"`
}

// Post is a message as returned by the posts endpoint.
type Post struct {
	ID        string   `json:"id"`
	ChannelID string   `json:"channel_id"`
	Message   string   `json:"message"`
	FileIDs   []string `json:"file_ids,omitempty"`
	CreateAt  int64    `json:"create_at,omitempty"`
}

// FileInfo describes an uploaded file.
type FileInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type,omitempty"`
}

type createPostRequest struct {
	ChannelID string   `json:"channel_id"`
	Message   string   `json:"message"`
	FileIDs   []string `json:"file_ids,omitempty"`
}

type uploadResponse struct {
	FileInfos []FileInfo `json:"file_infos"`
}

// apiError is the error body returned by the Mattermost API.
type apiError struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}
