package worklist

import "strings"

const (
	sanitizerReplacementRuneConstant = '_'
)

// WorkItem pairs a source repository name with the name it migrates to.
type WorkItem struct {
	SourceName string
	TargetName string
}

// NewWorkItem builds a WorkItem, defaulting the target name to the source name when blank.
func NewWorkItem(sourceName string, targetName string) WorkItem {
	trimmedSourceName := strings.TrimSpace(sourceName)
	trimmedTargetName := strings.TrimSpace(targetName)
	if len(trimmedTargetName) == 0 {
		trimmedTargetName = trimmedSourceName
	}
	return WorkItem{SourceName: trimmedSourceName, TargetName: trimmedTargetName}
}

// SanitizeIdentifier maps an arbitrary identifier to a filesystem-safe token.
//
// Every run of characters outside letters, digits, '.', '-', and '_' collapses
// into a single underscore. The function is deterministic and idempotent.
func SanitizeIdentifier(identifier string) string {
	var sanitizedBuilder strings.Builder
	sanitizedBuilder.Grow(len(identifier))

	previousRuneReplaced := false
	for _, identifierRune := range identifier {
		if isAllowedIdentifierRune(identifierRune) {
			sanitizedBuilder.WriteRune(identifierRune)
			previousRuneReplaced = false
			continue
		}
		if !previousRuneReplaced {
			sanitizedBuilder.WriteRune(sanitizerReplacementRuneConstant)
			previousRuneReplaced = true
		}
	}

	return sanitizedBuilder.String()
}

func isAllowedIdentifierRune(identifierRune rune) bool {
	switch {
	case identifierRune >= 'a' && identifierRune <= 'z':
		return true
	case identifierRune >= 'A' && identifierRune <= 'Z':
		return true
	case identifierRune >= '0' && identifierRune <= '9':
		return true
	case identifierRune == '.' || identifierRune == '-' || identifierRune == '_':
		return true
	default:
		return false
	}
}
