package social

// Platform tags the origin of a social post. Exactly two are supported.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
)

// Embed is a renderable social-media post. A minimal ("unresolved") embed
// carries only the platform and URL; everything else is optional.
type Embed struct {
	Platform  Platform `json:"platform"`
	URL       string   `json:"url"`
	HTML      *string  `json:"html,omitempty"`
	Thumbnail *string  `json:"thumbnail,omitempty"`
	Author    *string  `json:"author,omitempty"`
	Title     *string  `json:"title,omitempty"`
}
