package submodule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmoduleName(t *testing.T) {
	testCases := []struct {
		name         string
		submodule    Submodule
		expectedName string
		expectedOK   bool
	}{
		{
			name:         "DerivedFromHTTPSRemote",
			submodule:    New("https://example.com/org/lib.git", "third_party/lib"),
			expectedName: "lib",
			expectedOK:   true,
		},
		{
			name:         "DerivedFromHyphenatedRemote",
			submodule:    New("git@example.com:org/my-lib.git", "third_party/my-lib"),
			expectedName: "lib",
			expectedOK:   true,
		},
		{
			name:       "RemoteWithoutSuffix",
			submodule:  New("https://example.com/org/lib", "third_party/lib"),
			expectedOK: false,
		},
		{
			name:       "SuffixIsCaseSensitive",
			submodule:  New("https://example.com/org/lib.GIT", "third_party/lib"),
			expectedOK: false,
		},
		{
			name:         "ExplicitNameWins",
			submodule:    New("https://example.com/org/lib.git", "third_party/lib").WithName("vendored"),
			expectedName: "vendored",
			expectedOK:   true,
		},
		{
			name:         "ExplicitNameWithoutDerivableRemote",
			submodule:    New("https://example.com/org/lib", "third_party/lib").WithName("vendored"),
			expectedName: "vendored",
			expectedOK:   true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			name, ok := testCase.submodule.Name()
			require.Equal(t, testCase.expectedOK, ok)
			require.Equal(t, testCase.expectedName, name)
		})
	}
}

func TestWithNameLeavesOriginalUntouched(t *testing.T) {
	original := New("https://example.com/org/lib.git", "third_party/lib")
	renamed := original.WithName("vendored")

	originalName, _ := original.Name()
	renamedName, _ := renamed.Name()
	require.Equal(t, "lib", originalName)
	require.Equal(t, "vendored", renamedName)
	require.Equal(t, original.Remote(), renamed.Remote())
	require.Equal(t, original.Path(), renamed.Path())
}
