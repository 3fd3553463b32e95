package utils

import "strings"

// ParseHashtags splits comma separated input into tags. Order and
// duplicates are kept; blank entries are dropped.
func ParseHashtags(input string) []string {
	tags := []string{}
	for _, part := range strings.Split(input, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// RenderPostText joins the post body and its hashtags the way the
// scheduling provider receives them: body, blank line, space separated tags.
func RenderPostText(content string, hashtags []string) string {
	body := strings.TrimSpace(content)

	tags := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return body
	}
	return body + "\n\n" + strings.Join(tags, " ")
}
