package gitrepo

import (
	"fmt"
	"strings"

	formatconfig "github.com/go-git/go-git/v5/plumbing/format/config"
)

const (
	submoduleSectionNameConstant       = "submodule"
	configurationParseTemplateConstant = "failed to parse git configuration: %w"
)

// HasSubmoduleSection reports whether git-config formatted content declares [submodule "name"].
// Section names are matched case-insensitively and subsection names exactly, as git does,
// so whitespace and quoting variations in the header do not affect the result.
func HasSubmoduleSection(content string, submoduleName string) (bool, error) {
	if len(strings.TrimSpace(content)) == 0 {
		return false, nil
	}

	parsedConfiguration := formatconfig.New()
	if decodeError := formatconfig.NewDecoder(strings.NewReader(content)).Decode(parsedConfiguration); decodeError != nil {
		return false, fmt.Errorf(configurationParseTemplateConstant, decodeError)
	}

	if !parsedConfiguration.HasSection(submoduleSectionNameConstant) {
		return false, nil
	}
	return parsedConfiguration.Section(submoduleSectionNameConstant).HasSubsection(submoduleName), nil
}
