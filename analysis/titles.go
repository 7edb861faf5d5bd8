package analysis

import (
	"fmt"
	"strings"

	"github.com/froboy/migrate-confluence/confluence"
)

const (
	currentStatus = "current"

	// Exports have been seen with pathological parent chains; cap the walk
	// in addition to the cycle check.
	maxAncestryDepth = 20
)

// TitleFailure tags why a page's target title couldn't be resolved.
type TitleFailure string

const (
	MissingAncestor TitleFailure = "missing-ancestor"
	CyclicAncestry  TitleFailure = "cyclic-ancestry"
	AncestryTooDeep TitleFailure = "ancestry-too-deep"
	InvalidTitle    TitleFailure = "invalid-title"
	BadTimestamp    TitleFailure = "bad-timestamp"
)

// TitleError is a page-scoped, non-fatal resolution failure.  The caller
// records it as a diagnostic and moves on to the next page.
type TitleError struct {
	PageID  string
	Failure TitleFailure
	Detail  string
}

func (e *TitleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Failure, e.Detail)
}

// buildTargetTitle derives a page's fully qualified target title: the
// sanitized titles of its ancestor chain joined by "/", namespace-prefixed
// when the owning space isn't the default one.
func (a *Analyzer) buildTargetTitle(page *confluence.Object, spacePrefix string) (string, error) {
	segment, err := sanitizeTitle(page.PropertyValue(confluence.PropTitle))
	if err != nil {
		return "", &TitleError{PageID: page.ID, Failure: InvalidTitle, Detail: err.Error()}
	}
	segments := []string{segment}

	visited := map[string]bool{page.ID: true}
	current := page
	for depth := 0; ; depth++ {
		if depth >= maxAncestryDepth {
			return "", &TitleError{
				PageID:  page.ID,
				Failure: AncestryTooDeep,
				Detail:  fmt.Sprintf("gave up walking ancestry after %d levels", maxAncestryDepth),
			}
		}

		parentID := current.PropertyValue(confluence.PropParent)
		if parentID == "" {
			// reached the space root
			break
		}
		if visited[parentID] {
			return "", &TitleError{
				PageID:  page.ID,
				Failure: CyclicAncestry,
				Detail:  fmt.Sprintf("page %s appears twice in its own ancestry", parentID),
			}
		}
		visited[parentID] = true

		parent, ok := a.index.RecordByID(parentID, confluence.PageObject)
		if !ok {
			return "", &TitleError{
				PageID:  page.ID,
				Failure: MissingAncestor,
				Detail:  fmt.Sprintf("ancestor %s doesn't exist in the export", parentID),
			}
		}

		segment, err := sanitizeTitle(parent.PropertyValue(confluence.PropTitle))
		if err != nil {
			return "", &TitleError{
				PageID:  page.ID,
				Failure: InvalidTitle,
				Detail:  fmt.Sprintf("ancestor %s: %v", parentID, err),
			}
		}
		segments = append([]string{segment}, segments...)
		current = parent
	}

	target := strings.Join(segments, "/")
	if spacePrefix != "" {
		target = spacePrefix + ":" + target
	}
	return target, nil
}

// Characters that cannot appear in a target title.
const invalidTitleChars = "#<>[]|{}"

// sanitizeTitle normalizes a raw Confluence title into one target-title
// segment: whitespace runs collapse to single underscores, and characters
// the target system cannot represent fail the whole resolution.
func sanitizeTitle(title string) (string, error) {
	collapsed := strings.Join(strings.Fields(title), " ")
	if collapsed == "" {
		return "", fmt.Errorf("title is empty")
	}

	for _, r := range collapsed {
		if r < 0x20 || strings.ContainsRune(invalidTitleChars, r) {
			return "", fmt.Errorf("character %q not allowed in a target title", r)
		}
	}

	return strings.ReplaceAll(collapsed, " ", "_"), nil
}
