package models

// WizardView is the rendered state of one profile-setup page. Unset draft
// fields are omitted so the summary shows only what the user entered.
type WizardView struct {
	SessionID  string       `json:"session_id"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
	Title      string       `json:"title"`
	Draft      ProfileDraft `json:"draft"`
	CanPrev    bool         `json:"can_previous"`
	CanNext    bool         `json:"can_next"`
	CanSubmit  bool         `json:"can_submit"`
	Submitted  bool         `json:"submitted,omitempty"`
	Notice     string       `json:"notice,omitempty"`
}

// BrowserView is one rendered page of the photo browser. Position is
// 1-based; PrevEnabled/NextEnabled communicate the clamped edges.
type BrowserView struct {
	SessionID   string        `json:"session_id"`
	Folder      string        `json:"folder"`
	Photo       PhotoResponse `json:"photo"`
	PrevEnabled bool          `json:"prev_enabled"`
	NextEnabled bool          `json:"next_enabled"`
}

// GalleryOverview is the management panel: folder list plus terms status.
type GalleryOverview struct {
	Folders       []FolderResponse `json:"folders"`
	AgreedToTerms bool             `json:"agreed_to_terms"`
}
