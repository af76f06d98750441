package worklist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-migrate/internal/worklist"
)

const (
	testSanitizeUnchangedCaseNameConstant      = "allowed_characters_unchanged"
	testSanitizeSpacesCaseNameConstant         = "spaces_replaced"
	testSanitizeRunCollapseCaseNameConstant    = "disallowed_runs_collapse"
	testSanitizeMixedCaseNameConstant          = "mixed_identifier"
	testSanitizeEmptyCaseNameConstant          = "empty_identifier"
	testSanitizeUnicodeCaseNameConstant        = "unicode_replaced"
	testWorkItemTargetDefaultCaseNameConstant  = "blank_target_defaults_to_source"
	testWorkItemTargetExplicitCaseNameConstant = "explicit_target_preserved"
	testWorkItemTrimmedCaseNameConstant        = "surrounding_whitespace_trimmed"
)

func TestSanitizeIdentifier(testInstance *testing.T) {
	testCases := []struct {
		name              string
		identifier        string
		expectedSanitized string
	}{
		{
			name:              testSanitizeUnchangedCaseNameConstant,
			identifier:        "repo-name_1.2",
			expectedSanitized: "repo-name_1.2",
		},
		{
			name:              testSanitizeSpacesCaseNameConstant,
			identifier:        "my repo",
			expectedSanitized: "my_repo",
		},
		{
			name:              testSanitizeRunCollapseCaseNameConstant,
			identifier:        "a!!??//b",
			expectedSanitized: "a_b",
		},
		{
			name:              testSanitizeMixedCaseNameConstant,
			identifier:        "My Repo/v2!",
			expectedSanitized: "My_Repo_v2_",
		},
		{
			name:              testSanitizeEmptyCaseNameConstant,
			identifier:        "",
			expectedSanitized: "",
		},
		{
			name:              testSanitizeUnicodeCaseNameConstant,
			identifier:        "répo名",
			expectedSanitized: "r_po_",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			sanitizedIdentifier := worklist.SanitizeIdentifier(testCase.identifier)
			require.Equal(testInstance, testCase.expectedSanitized, sanitizedIdentifier)
			require.Equal(testInstance, sanitizedIdentifier, worklist.SanitizeIdentifier(sanitizedIdentifier))
		})
	}
}

func TestSanitizeIdentifierProducesOnlyAllowedCharacters(testInstance *testing.T) {
	sanitizedIdentifier := worklist.SanitizeIdentifier("weird\tname\nwith\x00controls и эмодзи 🚀")
	for _, sanitizedRune := range sanitizedIdentifier {
		isAllowed := (sanitizedRune >= 'a' && sanitizedRune <= 'z') ||
			(sanitizedRune >= 'A' && sanitizedRune <= 'Z') ||
			(sanitizedRune >= '0' && sanitizedRune <= '9') ||
			sanitizedRune == '.' || sanitizedRune == '-' || sanitizedRune == '_'
		require.True(testInstance, isAllowed, "unexpected rune %q", sanitizedRune)
	}
}

func TestNewWorkItem(testInstance *testing.T) {
	testCases := []struct {
		name           string
		sourceName     string
		targetName     string
		expectedTarget string
	}{
		{
			name:           testWorkItemTargetDefaultCaseNameConstant,
			sourceName:     "widgets",
			targetName:     "",
			expectedTarget: "widgets",
		},
		{
			name:           testWorkItemTargetExplicitCaseNameConstant,
			sourceName:     "widgets",
			targetName:     "widgets-v2",
			expectedTarget: "widgets-v2",
		},
		{
			name:           testWorkItemTrimmedCaseNameConstant,
			sourceName:     "  widgets  ",
			targetName:     "  widgets-v2  ",
			expectedTarget: "widgets-v2",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			workItem := worklist.NewWorkItem(testCase.sourceName, testCase.targetName)
			require.Equal(testInstance, "widgets", workItem.SourceName)
			require.Equal(testInstance, testCase.expectedTarget, workItem.TargetName)
		})
	}
}
