package orchestrator

import (
	"fmt"
	"regexp"
	"strings"
)

// extractPlanJSON pulls the structured plan out of a free-text model
// response. A fenced block tagged as JSON wins; otherwise the first
// brace-delimited object carrying a "tasks" key is used. Anything else is an
// error; the caller decides what to do about an unplannable response.
func extractPlanJSON(response string) (string, error) {
	if fenced, ok := fencedJSONBlock(response); ok {
		return fenced, nil
	}
	if obj, ok := firstObjectWithTasks(response); ok {
		return obj, nil
	}
	return "", fmt.Errorf("no structured plan found in response")
}

// jsonFenceOpen matches the opening of a ```json fence, any letter case.
var jsonFenceOpen = regexp.MustCompile("(?i)```json")

// fencedJSONBlock returns the contents of the first ```json fence. The fence
// is matched case-insensitively in place; folding a copy of the response
// would shift byte offsets whenever a character changes width under
// lowercasing.
func fencedJSONBlock(s string) (string, bool) {
	loc := jsonFenceOpen.FindStringIndex(s)
	if loc == nil {
		return "", false
	}

	body := s[loc[1]:]
	end := strings.Index(body, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(body[:end]), true
}

// firstObjectWithTasks scans for the first balanced brace-delimited object
// that contains a "tasks" key. The scan is a best-effort parser: braces
// inside string values can throw the balance off, in which case the whole
// extraction fails and the fallback plan takes over.
func firstObjectWithTasks(s string) (string, bool) {
	start := strings.Index(s, "{")
	for start != -1 {
		depth := 0
		end := -1
	scan:
		for i := start; i < len(s); i++ {
			switch s[i] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					end = i
					break scan
				}
			}
		}
		if end == -1 {
			return "", false
		}

		candidate := s[start : end+1]
		if strings.Contains(candidate, `"tasks"`) {
			return candidate, true
		}

		next := strings.Index(s[end+1:], "{")
		if next == -1 {
			return "", false
		}
		start = end + 1 + next
	}
	return "", false
}

// fileBlock is one extracted <file path="...">...</file> block before action
// and language tagging.
type fileBlock struct {
	Path    string
	Content string
}

// fileOpenTag matches the opening tag of a file block.
var fileOpenTag = regexp.MustCompile(`<file\s+path="([^"]*)"\s*>`)

// extractFileBlocks parses every well-formed file block out of an agent
// response. Malformed blocks (empty path, missing close tag) are skipped;
// they never abort the surrounding task. Leading and trailing blank lines
// are trimmed from content, internal formatting is preserved exactly.
func extractFileBlocks(response string) []fileBlock {
	var blocks []fileBlock

	offset := 0
	for {
		loc := fileOpenTag.FindStringSubmatchIndex(response[offset:])
		if loc == nil {
			break
		}

		path := response[offset+loc[2] : offset+loc[3]]
		contentStart := offset + loc[1]

		closeIdx := strings.Index(response[contentStart:], "</file>")
		if closeIdx == -1 {
			// Missing close tag: skip this block, keep scanning after the
			// open tag in case a later block is well-formed.
			offset = contentStart
			continue
		}

		if strings.TrimSpace(path) != "" {
			blocks = append(blocks, fileBlock{
				Path:    strings.TrimSpace(path),
				Content: trimBlankLines(response[contentStart : contentStart+closeIdx]),
			})
		}

		offset = contentStart + closeIdx + len("</file>")
	}

	return blocks
}

// trimBlankLines removes leading and trailing lines that are empty or
// whitespace-only. Interior lines are untouched.
func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")

	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	return strings.Join(lines[start:end], "\n")
}
