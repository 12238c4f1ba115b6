package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// Environment variables passed to extensions.
// The account settings use the same names as the configuration overrides,
// so an extension calling mm works on the same account.
const (
	EnvConfigFile    = "MM_CONFIG"
	EnvAccountName   = "MM_ACCOUNT_NAME"
	EnvCurrency      = "MM_CURRENCY"
	EnvStorageDriver = "MM_STORAGE_DRIVER"
	EnvStoragePath   = "MM_STORAGE_PATH"
	EnvStorageDSN    = "MM_STORAGE_DSN"
	EnvVerbose       = "MM_VERBOSE"
	extensionPrefix  = "mm-"
)

// RunExtension attempts to find and execute an external mm-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := extensionPrefix + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv()

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the environment with the global flags and the resolved account settings.
func extensionEnv() []string {
	env := append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)
	cfg, err := LoadConfig()
	if err != nil {
		// the extension may not need an account.
		return env
	}
	return append(env,
		EnvAccountName+"="+cfg.Account.Name,
		EnvCurrency+"="+cfg.Account.Currency,
		EnvStorageDriver+"="+cfg.Storage.Driver,
		EnvStoragePath+"="+cfg.Storage.Path,
		EnvStorageDSN+"="+cfg.Storage.DSN,
	)
}
