package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// MinFreeBytes is the free-space floor below which fetches warn.
const MinFreeBytes = 50 << 20

// CheckWallpaperDir verifies the directory is writable. A missing
// directory passes: the first fetch creates it.
func CheckWallpaperDir(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first fetch)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (free uint64, err error)

var statfs statfsFunc = realStatfs

func realStatfs(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// CheckDiskSpace warns when the filesystem holding path runs low. The
// probe climbs to the nearest existing parent so a not-yet-created
// wallpaper dir still reports its target filesystem.
func CheckDiskSpace(name, path string, minFree uint64) Result {
	probe := path
	for {
		if _, err := os.Stat(probe); err == nil {
			break
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}
	free, err := statfs(probe)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", probe, err)}
	}
	if free < minFree {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f MiB free, below %.0f MiB floor)", probe, float64(free)/(1<<20), float64(minFree)/(1<<20))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", probe, float64(free)/(1<<30))}
}
