package gitrepo

import "regexp"

// repositoryNamePattern matches the word characters immediately preceding a literal ".git".
// Word characters are Unicode letters, marks, digits and connector punctuation.
var repositoryNamePattern = regexp.MustCompile(`([\p{L}\p{M}\p{Nd}\p{Pc}]+)\.git`)

// ExtractRepositoryName returns the first run of word characters that precedes ".git" in remote.
// The match is case-sensitive; "https://example.com/org/tool.git" yields "tool" while
// "https://example.com/org/tool" yields no name.
func ExtractRepositoryName(remote string) (string, bool) {
	matches := repositoryNamePattern.FindStringSubmatch(remote)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}
