package content

// Supported target platforms. The guidance table and length limits are keyed
// on these values, anything else is rejected before an AI call is made.
const (
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// TwitterMaxChars is the hard post length limit enforced after generation.
// Other platforms have much larger limits and only get guidance in the prompt.
const TwitterMaxChars = 280

var platformGuidance = map[string]string{
	PlatformTwitter:   "Keep it punchy and conversational. Hard limit of 280 characters. Hashtags are common but use at most two.",
	PlatformLinkedIn:  "Professional and insight-driven tone. Short paragraphs with line breaks. A few relevant hashtags at the end are expected.",
	PlatformFacebook:  "Friendly and approachable tone. Slightly longer form is fine. Encourage discussion with a question where natural.",
	PlatformInstagram: "Visual-first caption style. Emotive language, emojis welcome. Hashtag blocks typically go at the end of the caption.",
}

func ValidPlatform(platform string) bool {
	_, ok := platformGuidance[platform]
	return ok
}

func Guidance(platform string) string {
	return platformGuidance[platform]
}

// ExceedsLimit reports whether text violates the platform's hard length
// limit. Only twitter has one that is enforced server side.
func ExceedsLimit(platform, text string) bool {
	return platform == PlatformTwitter && len([]rune(text)) > TwitterMaxChars
}
