package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	gitUserPrefixConstant               = "git@"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	requiredValueMessageConstant        = "value required"
	unknownProtocolMessageConstant      = "unsupported remote protocol"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
	RemoteProtocolHTTP  RemoteProtocol = RemoteProtocol("http")
)

// RemoteURL represents a structured git remote URL. Owner holds every path
// segment before the repository, so nested groups survive a round trip.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL converts a textual remote URL into a structured representation.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant):
		return parseSSHRemote(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, gitUserPrefixConstant):
		return parseSSHRemote(trimmedRemote)
	case strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant):
		return parseHostAndPath(RemoteProtocolHTTPS, strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	case strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant):
		return parseHostAndPath(RemoteProtocolHTTP, strings.TrimPrefix(trimmedRemote, httpProtocolPrefixConstant))
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
}

func parseSSHRemote(remote string) (RemoteURL, error) {
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	if userSplitIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	hostAndPath := remote[userSplitIndex+1:]

	pathSplitIndex := strings.Index(hostAndPath, sshPathDelimiterConstant)
	if pathSplitIndex == -1 {
		pathSplitIndex = strings.Index(hostAndPath, pathSeparatorConstant)
	}
	if pathSplitIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	owner, repository, parseError := splitOwnerAndRepository(hostAndPath[pathSplitIndex+1:])
	if parseError != nil {
		return RemoteURL{}, parseError
	}
	return RemoteURL{Protocol: RemoteProtocolSSH, Host: hostAndPath[:pathSplitIndex], Owner: owner, Repository: repository}, nil
}

func parseHostAndPath(protocol RemoteProtocol, remote string) (RemoteURL, error) {
	hostSplitIndex := strings.Index(remote, pathSeparatorConstant)
	if hostSplitIndex <= 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	owner, repository, parseError := splitOwnerAndRepository(remote[hostSplitIndex+1:])
	if parseError != nil {
		return RemoteURL{}, parseError
	}
	return RemoteURL{Protocol: protocol, Host: remote[:hostSplitIndex], Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(path string) (string, string, error) {
	trimmedPath := strings.Trim(path, pathSeparatorConstant)
	repositorySplitIndex := strings.LastIndex(trimmedPath, pathSeparatorConstant)
	if repositorySplitIndex <= 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	repository := strings.TrimSuffix(trimmedPath[repositorySplitIndex+1:], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	return trimmedPath[:repositorySplitIndex], repository, nil
}

// FormatRemoteURL creates a textual remote URL from a structured representation.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	for _, requiredValue := range []string{remote.Host, remote.Owner, remote.Repository} {
		if len(strings.TrimSpace(requiredValue)) == 0 {
			return "", RemoteURLParseError{Input: requiredValue, Message: requiredValueMessageConstant}
		}
	}

	repositoryPath := remote.Owner + pathSeparatorConstant + remote.Repository + gitSuffixConstant
	switch remote.Protocol {
	case RemoteProtocolSSH:
		return gitUserPrefixConstant + remote.Host + sshPathDelimiterConstant + repositoryPath, nil
	case RemoteProtocolHTTPS:
		return httpsProtocolPrefixConstant + remote.Host + pathSeparatorConstant + repositoryPath, nil
	case RemoteProtocolHTTP:
		return httpProtocolPrefixConstant + remote.Host + pathSeparatorConstant + repositoryPath, nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}
