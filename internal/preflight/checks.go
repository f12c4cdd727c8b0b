package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"inkjet/internal/config"
	"inkjet/internal/services/adobe"
)

// minFreeBytes is the least free space the data directory needs before the
// history database and logs risk filling the disk.
const minFreeBytes = 100 << 20

// CheckCredentials verifies the vendor credential pair is configured.
func CheckCredentials(cfg *config.Config) Result {
	const name = "Adobe credentials"
	if strings.TrimSpace(cfg.Adobe.ClientID) == "" {
		return Result{Name: name, Detail: "client id missing (set adobe.client_id or INKJET_CLIENT_ID)"}
	}
	if strings.TrimSpace(cfg.Adobe.ClientSecret) == "" {
		return Result{Name: name, Detail: "client secret missing (set adobe.client_secret or INKJET_CLIENT_SECRET)"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has headroom left.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: only %d MiB free)", path, free>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

// CheckVendorAuth verifies the vendor accepts the configured credentials.
// It uses a 10-second timeout and a single attempt.
func CheckVendorAuth(ctx context.Context, cfg *config.Config) Result {
	const name = "Adobe token endpoint"

	client, err := adobe.New(adobe.Config{
		ClientID:     cfg.Adobe.ClientID,
		ClientSecret: cfg.Adobe.ClientSecret,
		Scope:        cfg.Adobe.Scope,
		BaseURL:      cfg.Adobe.BaseURL,
		TokenURL:     cfg.Adobe.TokenURL,
		Timeout:      10 * time.Second,
	})
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := client.Authenticate(checkCtx); err != nil {
		return Result{Name: name, Optional: true, Detail: summarizeAuthError(err)}
	}
	return Result{Name: name, Passed: true, Optional: true, Detail: "credentials accepted"}
}

func summarizeAuthError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "authentication timed out (token endpoint unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "authentication timed out (token endpoint unreachable)"
	}
	return err.Error()
}
