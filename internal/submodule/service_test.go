package submodule

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repokeeper/internal/execshell"
)

const (
	testParentRootConstant             = "/workspace/app"
	testSubmoduleRemoteConstant        = "https://example.com/org/lib.git"
	testSubmodulePathConstant          = "third_party/lib"
	testPinnedCommitConstant           = "0123abcd"
	testRegisteredManifestConstant     = "[submodule \"lib\"]\n\tpath = third_party/lib\n\turl = https://example.com/org/lib.git\n"
	testInitializedLocalConfigConstant = "[core]\n\tbare = false\n[submodule \"lib\"]\n\tactive = true\n\turl = https://example.com/org/lib.git\n"
)

type stubGitExecutor struct {
	failures         map[string]error
	recordedCommands []execshell.CommandDetails
	onExecute        func(execshell.CommandDetails)
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	if failure, failing := executor.failures[commandKey(details)]; failing {
		return execshell.ExecutionResult{}, failure
	}
	if executor.onExecute != nil {
		executor.onExecute(details)
	}
	return execshell.ExecutionResult{}, nil
}

func commandKey(details execshell.CommandDetails) string {
	if len(details.Arguments) == 0 {
		return ""
	}
	if details.Arguments[0] == gitSubmoduleSubcommandConstant && len(details.Arguments) > 1 {
		return details.Arguments[0] + " " + details.Arguments[1]
	}
	return details.Arguments[0]
}

type stubMetadataReader struct {
	modulesContent string
	modulesExist   bool
	modulesError   error
	configContent  string
	configExists   bool
	configError    error
	modulesReads   int
	configReads    int
}

func (reader *stubMetadataReader) ReadModules(string) (string, bool, error) {
	reader.modulesReads++
	return reader.modulesContent, reader.modulesExist, reader.modulesError
}

func (reader *stubMetadataReader) ReadLocalConfig(string) (string, bool, error) {
	reader.configReads++
	return reader.configContent, reader.configExists, reader.configError
}

func registeredReader() *stubMetadataReader {
	return &stubMetadataReader{modulesContent: testRegisteredManifestConstant, modulesExist: true}
}

func initializedReader() *stubMetadataReader {
	reader := registeredReader()
	reader.configContent = testInitializedLocalConfigConstant
	reader.configExists = true
	return reader
}

func configFailingReader(configError error) *stubMetadataReader {
	reader := registeredReader()
	reader.configError = configError
	return reader
}

func newTestService(t *testing.T, executor *stubGitExecutor, reader *stubMetadataReader) *Service {
	t.Helper()
	service, creationError := NewService(Dependencies{GitExecutor: executor, MetadataReader: reader})
	require.NoError(t, creationError)
	return service
}

func recordedArguments(executor *stubGitExecutor) [][]string {
	arguments := make([][]string, 0, len(executor.recordedCommands))
	for _, commandDetails := range executor.recordedCommands {
		arguments = append(arguments, commandDetails.Arguments)
	}
	return arguments
}

var (
	expectedAddArguments    = []string{"submodule", "add", "--name", "lib", testSubmoduleRemoteConstant, testSubmodulePathConstant}
	expectedUpdateArguments = []string{"submodule", "update", "--init", "--recursive", "--", testSubmodulePathConstant}
	expectedCheckout        = []string{"checkout", testPinnedCommitConstant}
)

func TestNewServiceValidatesDependencies(t *testing.T) {
	testCases := []struct {
		name         string
		dependencies Dependencies
		expectedErr  error
	}{
		{
			name:         "MissingGitExecutor",
			dependencies: Dependencies{MetadataReader: &stubMetadataReader{}},
			expectedErr:  ErrGitExecutorNotConfigured,
		},
		{
			name:         "MissingMetadataReader",
			dependencies: Dependencies{GitExecutor: &stubGitExecutor{}},
			expectedErr:  ErrMetadataReaderNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			service, creationError := NewService(testCase.dependencies)
			require.ErrorIs(t, creationError, testCase.expectedErr)
			require.Nil(t, service)
		})
	}
}

func TestInitConvergesFromEachRegistrationState(t *testing.T) {
	testCases := []struct {
		name               string
		reader             *stubMetadataReader
		pinnedCommit       string
		expectedArguments  [][]string
		expectedConfigRead int
	}{
		{
			name:               "UnregisteredWithoutPin",
			reader:             &stubMetadataReader{},
			expectedArguments:  [][]string{expectedAddArguments, expectedUpdateArguments},
			expectedConfigRead: 0,
		},
		{
			name:               "UnregisteredWithPin",
			reader:             &stubMetadataReader{},
			pinnedCommit:       testPinnedCommitConstant,
			expectedArguments:  [][]string{expectedAddArguments, expectedUpdateArguments, expectedCheckout},
			expectedConfigRead: 0,
		},
		{
			name:               "RegisteredUninitialized",
			reader:             registeredReader(),
			expectedArguments:  [][]string{expectedUpdateArguments},
			expectedConfigRead: 1,
		},
		{
			name:               "RegisteredInitialized",
			reader:             initializedReader(),
			expectedArguments:  [][]string{},
			expectedConfigRead: 1,
		},
		{
			name:               "RegisteredInitializedWithPin",
			reader:             initializedReader(),
			pinnedCommit:       testPinnedCommitConstant,
			expectedArguments:  [][]string{expectedCheckout},
			expectedConfigRead: 1,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{}
			service := newTestService(t, executor, testCase.reader)

			initError := service.Init(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, testSubmodulePathConstant), Options{PinnedCommit: testCase.pinnedCommit})
			require.NoError(t, initError)
			require.Equal(t, testCase.expectedArguments, recordedArguments(executor))
			require.Equal(t, testCase.expectedConfigRead, testCase.reader.configReads)
		})
	}
}

func TestInitRunsCommandsInExpectedDirectories(t *testing.T) {
	executor := &stubGitExecutor{}
	service := newTestService(t, executor, &stubMetadataReader{})

	require.NoError(t, service.Init(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, testSubmodulePathConstant), Options{PinnedCommit: testPinnedCommitConstant}))

	require.Len(t, executor.recordedCommands, 3)
	require.Equal(t, testParentRootConstant, executor.recordedCommands[0].WorkingDirectory)
	require.Equal(t, testParentRootConstant, executor.recordedCommands[1].WorkingDirectory)
	require.Equal(t, filepath.Join(testParentRootConstant, testSubmodulePathConstant), executor.recordedCommands[2].WorkingDirectory)
	for _, commandDetails := range executor.recordedCommands {
		require.Equal(t, gitTerminalPromptEnvironmentDisableConstant, commandDetails.EnvironmentVariables[gitTerminalPromptEnvironmentNameConstant])
	}
}

func TestInitTwiceDoesNotRegisterAgain(t *testing.T) {
	reader := &stubMetadataReader{}
	executor := &stubGitExecutor{onExecute: func(details execshell.CommandDetails) {
		switch commandKey(details) {
		case "submodule add":
			reader.modulesContent = testRegisteredManifestConstant
			reader.modulesExist = true
		case "submodule update":
			reader.configContent = testInitializedLocalConfigConstant
			reader.configExists = true
		}
	}}
	service := newTestService(t, executor, reader)
	submodule := New(testSubmoduleRemoteConstant, testSubmodulePathConstant)

	require.NoError(t, service.Init(context.Background(), testParentRootConstant, submodule, Options{}))
	require.Len(t, executor.recordedCommands, 2)

	require.NoError(t, service.Init(context.Background(), testParentRootConstant, submodule, Options{}))
	require.Len(t, executor.recordedCommands, 2)

	state, stateError := service.State(context.Background(), testParentRootConstant, submodule)
	require.NoError(t, stateError)
	require.Equal(t, RegistrationStateRegisteredInitialized, state)
}

func TestInitUsesExplicitName(t *testing.T) {
	executor := &stubGitExecutor{}
	service := newTestService(t, executor, &stubMetadataReader{})

	submodule := New(testSubmoduleRemoteConstant, testSubmodulePathConstant).WithName("vendored-lib")
	require.NoError(t, service.Init(context.Background(), testParentRootConstant, submodule, Options{}))
	require.Equal(t, []string{"submodule", "add", "--name", "vendored-lib", testSubmoduleRemoteConstant, testSubmodulePathConstant}, executor.recordedCommands[0].Arguments)
}

func TestInitRejectsUnnamedSubmoduleBeforeAnyWork(t *testing.T) {
	executor := &stubGitExecutor{}
	reader := &stubMetadataReader{}
	service := newTestService(t, executor, reader)

	submodule := New("https://example.com/org/lib", testSubmodulePathConstant)
	initError := service.Init(context.Background(), testParentRootConstant, submodule, Options{PinnedCommit: testPinnedCommitConstant})
	require.ErrorIs(t, initError, ErrorKindNameMissing)
	require.Contains(t, initError.Error(), "https://example.com/org/lib")
	require.Empty(t, executor.recordedCommands)
	require.Zero(t, reader.modulesReads)
	require.Zero(t, reader.configReads)
}

func TestInitSurfacesFailures(t *testing.T) {
	testError := errors.New("execution failed")
	testCases := []struct {
		name          string
		reader        *stubMetadataReader
		failures      map[string]error
		expectedKind  ErrorKind
		expectedCalls int
	}{
		{
			name:         "ManifestQueryFailure",
			reader:       &stubMetadataReader{modulesError: testError},
			expectedKind: ErrorKindManifestQuery,
		},
		{
			name:         "ConfigQueryFailure",
			reader:       configFailingReader(testError),
			expectedKind: ErrorKindConfigQuery,
		},
		{
			name:          "AddFailure",
			reader:        &stubMetadataReader{},
			failures:      map[string]error{"submodule add": testError},
			expectedKind:  ErrorKindAdd,
			expectedCalls: 1,
		},
		{
			name:          "InitFailure",
			reader:        registeredReader(),
			failures:      map[string]error{"submodule update": testError},
			expectedKind:  ErrorKindInit,
			expectedCalls: 1,
		},
		{
			name:          "CheckoutFailure",
			reader:        initializedReader(),
			failures:      map[string]error{"checkout": testError},
			expectedKind:  ErrorKindCheckout,
			expectedCalls: 1,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{failures: testCase.failures}
			service := newTestService(t, executor, testCase.reader)
			submodule := New(testSubmoduleRemoteConstant, testSubmodulePathConstant)

			initError := service.Init(context.Background(), testParentRootConstant, submodule, Options{PinnedCommit: testPinnedCommitConstant})
			require.ErrorIs(t, initError, testCase.expectedKind)
			require.ErrorIs(t, initError, testError)
			require.Len(t, executor.recordedCommands, testCase.expectedCalls)

			var submoduleError Error
			require.ErrorAs(t, initError, &submoduleError)
			require.Equal(t, submodule, submoduleError.Submodule)
			require.Contains(t, initError.Error(), "lib")
		})
	}
}

func TestInitCheckoutFailureCarriesCommit(t *testing.T) {
	executor := &stubGitExecutor{failures: map[string]error{"checkout": errors.New("reference is not a tree")}}
	service := newTestService(t, executor, initializedReader())

	initError := service.Init(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, testSubmodulePathConstant), Options{PinnedCommit: testPinnedCommitConstant})

	var submoduleError Error
	require.ErrorAs(t, initError, &submoduleError)
	require.Equal(t, testPinnedCommitConstant, submoduleError.Commit)
	require.Equal(t,
		`failed to checkout commit "0123abcd" from submodule "lib" with remote "https://example.com/org/lib.git" and path "third_party/lib": reference is not a tree`,
		initError.Error(),
	)
}

func TestInitRejectsAbsolutePathBeforeAnyWork(t *testing.T) {
	executor := &stubGitExecutor{}
	reader := &stubMetadataReader{}
	service := newTestService(t, executor, reader)

	initError := service.Init(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, "/opt/lib"), Options{PinnedCommit: testPinnedCommitConstant})
	require.ErrorIs(t, initError, ErrorKindPathAbsolute)
	require.EqualError(t, initError, `submodule path "/opt/lib" must be relative to its parent`)
	require.Empty(t, executor.recordedCommands)
	require.Zero(t, reader.modulesReads)
}

func TestInitRejectsPathWithInvalidEncoding(t *testing.T) {
	executor := &stubGitExecutor{}
	service := newTestService(t, executor, &stubMetadataReader{})

	initError := service.Init(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, "third_party/\xff"), Options{})
	require.ErrorIs(t, initError, ErrorKindPathEncoding)
	require.Empty(t, executor.recordedCommands)
}

func TestInitLogsDecisions(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	service, creationError := NewService(Dependencies{
		GitExecutor:    &stubGitExecutor{},
		MetadataReader: registeredReader(),
		Logger:         zap.New(core),
	})
	require.NoError(t, creationError)

	require.NoError(t, service.Init(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, testSubmodulePathConstant), Options{PinnedCommit: testPinnedCommitConstant}))

	messages := make([]string, 0, recorded.Len())
	for _, entry := range recorded.All() {
		messages = append(messages, entry.Message)
	}
	require.Equal(t, []string{alreadyRegisteredLogMessageConstant, initializingLogMessageConstant, checkingOutCommitLogMessageConstant}, messages)
}

func TestStateReportsRegistration(t *testing.T) {
	testCases := []struct {
		name          string
		reader        *stubMetadataReader
		expectedState RegistrationState
	}{
		{
			name:          "Unregistered",
			reader:        &stubMetadataReader{},
			expectedState: RegistrationStateUnregistered,
		},
		{
			name:          "RegisteredUninitialized",
			reader:        registeredReader(),
			expectedState: RegistrationStateRegisteredUninitialized,
		},
		{
			name:          "RegisteredInitialized",
			reader:        initializedReader(),
			expectedState: RegistrationStateRegisteredInitialized,
		},
		{
			name:          "Inconsistent",
			reader:        &stubMetadataReader{configContent: testInitializedLocalConfigConstant, configExists: true},
			expectedState: RegistrationStateInconsistent,
		},
		{
			name:          "OtherSubmoduleRegistered",
			reader:        &stubMetadataReader{modulesContent: "[submodule \"other\"]\n\tpath = other\n", modulesExist: true},
			expectedState: RegistrationStateUnregistered,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{}
			service := newTestService(t, executor, testCase.reader)

			state, stateError := service.State(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, testSubmodulePathConstant))
			require.NoError(t, stateError)
			require.Equal(t, testCase.expectedState, state)
			require.Empty(t, executor.recordedCommands)
		})
	}
}

func TestInitTreatsInconsistentStateAsUnregistered(t *testing.T) {
	executor := &stubGitExecutor{}
	reader := &stubMetadataReader{configContent: testInitializedLocalConfigConstant, configExists: true}
	service := newTestService(t, executor, reader)

	require.NoError(t, service.Init(context.Background(), testParentRootConstant, New(testSubmoduleRemoteConstant, testSubmodulePathConstant), Options{}))
	require.Equal(t, [][]string{expectedAddArguments, expectedUpdateArguments}, recordedArguments(executor))
	require.Zero(t, reader.configReads)
}
